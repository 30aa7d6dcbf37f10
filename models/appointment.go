package models

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment can be booked only after every quiz is completed and while the
// appointment feature is enabled in settings. User contact fields are
// snapshotted onto the row for the admin screen.
type Appointment struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID string `gorm:"index;not null" json:"account_id"`

	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserWhatsapp string `json:"user_whatsapp"`

	PreferredDate string `gorm:"not null" json:"preferred_date"`
	PreferredTime string `gorm:"not null" json:"preferred_time"`
	Message       string `gorm:"type:text" json:"message"`

	Status AppointmentStatus `gorm:"not null;default:'pending';index" json:"status"`
	Notes  string            `gorm:"type:text" json:"notes,omitempty"`

	Timestamps
}

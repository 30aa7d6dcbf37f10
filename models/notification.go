package models

// NotificationKind marks which engine transition produced the event.
type NotificationKind string

const (
	NotificationAccountApproved    NotificationKind = "account_approved"
	NotificationAccountRejected    NotificationKind = "account_rejected"
	NotificationQuizReward         NotificationKind = "quiz_reward"
	NotificationReferralReward     NotificationKind = "referral_reward"
	NotificationWithdrawalDecided  NotificationKind = "withdrawal_decided"
	NotificationAppointmentDecided NotificationKind = "appointment_decided"
)

// Notification is an engine-emitted event for the notification boundary.
// Delivery (toast, WhatsApp, email) happens outside this service; the
// dispatcher worker only hands rows off and flips Dispatched.
type Notification struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID string           `gorm:"index;not null" json:"account_id"`
	Kind      NotificationKind `gorm:"not null" json:"kind"`
	Title     string           `gorm:"not null" json:"title"`
	Body      string           `gorm:"type:text" json:"body"`

	Dispatched bool `gorm:"not null;default:false;index" json:"dispatched"`
	Read       bool `gorm:"not null;default:false" json:"read"`

	Timestamps
}

package services

import (
	"errors"
	"fmt"

	"trustmission-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewAppointmentService(db *gorm.DB, settings *SettingsService) *AppointmentService {
	return &AppointmentService{DB: db, Settings: settings}
}

// Book creates a pending appointment. Only open to accounts that completed
// the whole quiz program, and only while the feature is switched on.
func (s *AppointmentService) Book(accountID, preferredDate, preferredTime, message string) (*models.Appointment, error) {
	if preferredDate == "" || preferredTime == "" {
		return nil, errors.New("preferred date and time are required")
	}

	snap, err := s.Settings.Snapshot()
	if err != nil {
		return nil, err
	}
	if !snap.AppointmentEnabled {
		return nil, ErrAppointmentsDisabled
	}

	var account models.Account
	if err := s.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !account.MissionsCompleted {
		return nil, ErrMissionsIncomplete
	}

	appointment := &models.Appointment{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		UserName:      account.FirstName + " " + account.LastName,
		UserEmail:     account.Email,
		UserWhatsapp:  account.Whatsapp,
		PreferredDate: preferredDate,
		PreferredTime: preferredTime,
		Message:       message,
		Status:        models.AppointmentStatusPending,
	}
	if err := s.DB.Create(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// Decide confirms or cancels a pending appointment.
func (s *AppointmentService) Decide(appointmentID string, confirmed bool, notes string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if appointment.Status != models.AppointmentStatusPending {
		return nil, ErrInvalidTransition
	}

	status := models.AppointmentStatusCancelled
	if confirmed {
		status = models.AppointmentStatusConfirmed
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointmentID, models.AppointmentStatusPending).
			Updates(map[string]interface{}{
				"status": status,
				"notes":  notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return createNotification(tx, appointment.AccountID, models.NotificationAppointmentDecided,
			"Appointment "+string(status),
			fmt.Sprintf("Your appointment on %s at %s is now %s.",
				appointment.PreferredDate, appointment.PreferredTime, status))
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	appointment.Notes = notes
	return &appointment, nil
}

// ListForAccount returns a user's appointments, newest first.
func (s *AppointmentService) ListForAccount(accountID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&appointments).Error
	return appointments, err
}

// ListByStatus feeds the admin screen; an empty status returns all.
func (s *AppointmentService) ListByStatus(status models.AppointmentStatus) ([]models.Appointment, error) {
	query := s.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var appointments []models.Appointment
	err := query.Find(&appointments).Error
	return appointments, err
}

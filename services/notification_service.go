package services

import (
	"errors"

	"trustmission-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// createNotification persists an engine event inside the caller's transaction
// so the event commits atomically with the transition that produced it.
func createNotification(tx *gorm.DB, accountID string, kind models.NotificationKind, title, body string) error {
	n := models.Notification{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Kind:      kind,
		Title:     title,
		Body:      body,
	}
	return tx.Create(&n).Error
}

// ListForAccount returns the newest notifications for a user.
func (s *NotificationService) ListForAccount(accountID string, limit int) ([]models.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flips one notification owned by the account.
func (s *NotificationService) MarkRead(accountID, notificationID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Undispatched returns events awaiting delivery, oldest first.
func (s *NotificationService) Undispatched(limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("dispatched = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkDispatched is guarded on the dispatched flag so a racing second
// dispatcher loop cannot hand the same event off twice.
func (s *NotificationService) MarkDispatched(notificationID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND dispatched = ?", notificationID, false).
		Update("dispatched", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("notification already dispatched")
	}
	return nil
}

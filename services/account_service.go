package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trustmission-platform/models"
	"trustmission-platform/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxCodeAttempts bounds the referral-code uniqueness retry loop.
const maxCodeAttempts = 5

type AccountService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewAccountService(db *gorm.DB, settings *SettingsService) *AccountService {
	return &AccountService{DB: db, Settings: settings}
}

// RegisterInput is the registration profile supplied by the auth layer.
type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	Whatsapp         string
	DateOfBirth      time.Time
	UsedReferralCode string
	ContractSigned   bool
}

// Register creates a pending account. The referral cap is copied from the
// current settings snapshot; an unresolvable referral code is accepted
// silently since the field is optional.
func (s *AccountService) Register(in RegisterInput) (*models.Account, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return nil, errors.New("first name, last name and email are required")
	}
	if in.DateOfBirth.AddDate(18, 0, 0).After(time.Now()) {
		return nil, ErrUnderage
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	var existing int64
	if err := s.DB.Model(&models.Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	code, err := s.uniqueReferralCode()
	if err != nil {
		return nil, err
	}

	snap, err := s.Settings.Snapshot()
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:             uuid.NewString(),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          email,
		Whatsapp:       in.Whatsapp,
		DateOfBirth:    in.DateOfBirth,
		Status:         models.AccountStatusPending,
		ReferralCode:   code,
		ContractSigned: in.ContractSigned,
		MaxReferrals:   snap.MaxReferrals,
	}

	usedCode := strings.ToUpper(strings.TrimSpace(in.UsedReferralCode))
	if usedCode != "" {
		account.UsedReferralCode = &usedCode
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		if usedCode == "" {
			return nil
		}

		var referrer models.Account
		err := tx.Where("referral_code = ?", usedCode).First(&referrer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // optional field, never blocks registration
		}
		if err != nil {
			return err
		}

		referral := models.Referral{
			ID:               uuid.NewString(),
			ReferrerID:       referrer.ID,
			ReferredID:       account.ID,
			ReferralCodeUsed: usedCode,
			RewardPaid:       false,
		}
		return tx.Create(&referral).Error
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) uniqueReferralCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := utils.GenerateReferralCode()
		var count int64
		if err := s.DB.Model(&models.Account{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

// Approve moves a pending account to approved and credits the welcome bonus.
// The bonus amount is taken from settings at approval time, not registration
// time, and is credited exactly once; the status guard on the conditional
// update makes a racing double-approve fail with ErrInvalidTransition.
func (s *AccountService) Approve(accountID string) (*models.Account, error) {
	snap, err := s.Settings.Snapshot()
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := s.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if account.Status != models.AccountStatusPending {
		return nil, ErrInvalidTransition
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("id = ? AND status = ?", accountID, models.AccountStatusPending).
			Updates(map[string]interface{}{
				"status":              models.AccountStatusApproved,
				"welcome_bonus":       account.WelcomeBonus.Add(snap.WelcomeBonus),
				"total_balance":       account.TotalBalance.Add(snap.WelcomeBonus),
				"withdrawable_amount": account.WithdrawableAmount.Add(snap.WelcomeBonus),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		return createNotification(tx, account.ID, models.NotificationAccountApproved,
			"Account approved",
			fmt.Sprintf("Welcome aboard! A %s welcome bonus has been credited to your balance.",
				utils.FormatEUR(snap.WelcomeBonus)))
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(accountID)
}

// Reject moves a pending account to the terminal rejected state. No ledger
// change occurs.
func (s *AccountService) Reject(accountID string) error {
	var account models.Account
	if err := s.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if account.Status != models.AccountStatusPending {
		return ErrInvalidTransition
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("id = ? AND status = ?", accountID, models.AccountStatusPending).
			Update("status", models.AccountStatusRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return createNotification(tx, account.ID, models.NotificationAccountRejected,
			"Account rejected", "Your registration could not be approved.")
	})
}

// AdjustBalance applies an admin credit or debit with an audit record. The
// adjustment lands in the welcome-bonus bucket so the ledger identity
// total = welcome + quiz + referral keeps holding.
func (s *AccountService) AdjustBalance(accountID string, amount decimal.Decimal, adjType, reason, adminID string) (*models.Account, error) {
	if adjType != "credit" && adjType != "debit" {
		return nil, errors.New("adjustment type must be credit or debit")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, errors.New("adjustment amount must be positive")
	}

	delta := amount
	if adjType == "debit" {
		delta = amount.Neg()
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		newBonus := account.WelcomeBonus.Add(delta)
		newTotal := account.TotalBalance.Add(delta)
		newWithdrawable := account.WithdrawableAmount.Add(delta)
		if newBonus.IsNegative() || newTotal.IsNegative() || newWithdrawable.IsNegative() {
			return ErrInsufficientBalance
		}

		// compare-and-swap on the prior balance to reject concurrent writers
		res := tx.Model(&models.Account{}).
			Where("id = ? AND total_balance = ?", accountID, account.TotalBalance).
			Updates(map[string]interface{}{
				"welcome_bonus":       newBonus,
				"total_balance":       newTotal,
				"withdrawable_amount": newWithdrawable,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		adjustment := models.BalanceAdjustment{
			ID:         uuid.NewString(),
			AccountID:  accountID,
			Amount:     amount,
			Type:       adjType,
			Reason:     reason,
			AdjustedBy: adminID,
		}
		return tx.Create(&adjustment).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(accountID)
}

// AttachKYCPhoto stores the object key of an uploaded KYC photo.
func (s *AccountService) AttachKYCPhoto(accountID, kind, key string) error {
	column := ""
	switch kind {
	case utils.KYCKindIDFront:
		column = "kyc_id_front_key"
	case utils.KYCKindIDBack:
		column = "kyc_id_back_key"
	case utils.KYCKindSelfie:
		column = "kyc_selfie_key"
	default:
		return fmt.Errorf("unknown KYC photo kind: %s", kind)
	}

	res := s.DB.Model(&models.Account{}).Where("id = ?", accountID).Update(column, key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AccountService) GetByID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ListByStatus returns accounts filtered by status; an empty status returns all.
func (s *AccountService) ListByStatus(status models.AccountStatus) ([]models.Account, error) {
	query := s.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var accounts []models.Account
	err := query.Find(&accounts).Error
	return accounts, err
}

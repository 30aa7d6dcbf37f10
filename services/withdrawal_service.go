package services

import (
	"errors"
	"fmt"
	"time"

	"trustmission-platform/models"
	"trustmission-platform/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WithdrawalService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewWithdrawalService(db *gorm.DB, settings *SettingsService) *WithdrawalService {
	return &WithdrawalService{DB: db, Settings: settings}
}

// BankDetails is the payout destination captured on the request.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
}

// RequestWithdrawal validates admissibility against the settings snapshot and
// the account's withdrawable balance, then records a pending request. Funds
// are not reserved; the balance check is re-run by whoever pays out.
func (s *WithdrawalService) RequestWithdrawal(accountID string, amount decimal.Decimal, bank BankDetails) (*models.WithdrawalRequest, error) {
	if bank.AccountHolder == "" || bank.IBAN == "" {
		return nil, errors.New("account holder and IBAN are required")
	}

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
	if account.Status != models.AccountStatusApproved {
		return nil, ErrInvalidTransition
	}

	if amount.LessThan(snap.MinWithdrawal) {
		return nil, ErrBelowMinimumWithdrawal
	}
	if amount.GreaterThan(account.WithdrawableAmount) {
		return nil, ErrInsufficientBalance
	}

	request := &models.WithdrawalRequest{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Amount:        amount,
		Status:        models.WithdrawalStatusPending,
		AccountHolder: bank.AccountHolder,
		IBAN:          bank.IBAN,
		BIC:           bank.BIC,
		RequestedAt:   time.Now(),
	}
	if err := s.DB.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// Decide resolves a pending request. Approval does not debit the ledger: the
// balance is treated as lifetime-earned, matching how payouts were run before
// this engine existed. A real escrow ledger would subtract here.
func (s *WithdrawalService) Decide(requestID string, approved bool, notes string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	if err := s.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if request.Status != models.WithdrawalStatusPending {
		return nil, ErrInvalidTransition
	}

	status := models.WithdrawalStatusRejected
	if approved {
		status = models.WithdrawalStatusApproved
	}
	now := time.Now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", requestID, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":       status,
				"notes":        notes,
				"processed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		verdict := "rejected"
		if approved {
			verdict = "approved"
		}
		return createNotification(tx, request.AccountID, models.NotificationWithdrawalDecided,
			"Withdrawal "+verdict,
			fmt.Sprintf("Your withdrawal request over %s was %s.", utils.FormatEUR(request.Amount), verdict))
	})
	if err != nil {
		return nil, err
	}

	request.Status = status
	request.Notes = notes
	request.ProcessedAt = &now
	return &request, nil
}

// ListForAccount returns a user's own requests, newest first.
func (s *WithdrawalService) ListForAccount(accountID string) ([]models.WithdrawalRequest, error) {
	var requests []models.WithdrawalRequest
	err := s.DB.Where("account_id = ?", accountID).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

// ListByStatus feeds the admin screen; an empty status returns all.
func (s *WithdrawalService) ListByStatus(status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	query := s.DB.Order("requested_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.WithdrawalRequest
	err := query.Find(&requests).Error
	return requests, err
}

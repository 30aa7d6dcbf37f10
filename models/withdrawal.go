package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// WithdrawalRequest is created by an approved user once the minimum threshold
// is met. Funds are not reserved at request time; approval records processed_at
// but does not debit the ledger (the balance is treated as lifetime-earned).
type WithdrawalRequest struct {
	ID        string          `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID string          `gorm:"index;not null" json:"account_id"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`

	Status WithdrawalStatus `gorm:"not null;default:'pending';index" json:"status"`

	AccountHolder string `gorm:"not null" json:"account_holder"`
	IBAN          string `gorm:"not null" json:"iban"`
	BIC           string `json:"bic"`

	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	Timestamps
}

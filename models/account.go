package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountStatus is the lifecycle state of a registered user.
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusApproved AccountStatus = "approved"
	AccountStatusRejected AccountStatus = "rejected"
)

// Account is one row per registered user. Ledger fields are kept denormalized
// on the account; the invariant total_balance = welcome_bonus + quiz_earnings +
// referral_earnings must hold after every engine operation.
type Account struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Whatsapp    string `json:"whatsapp,omitempty"`
	DateOfBirth time.Time `gorm:"not null" json:"date_of_birth"`

	Status AccountStatus `gorm:"not null;default:'pending';index" json:"status"`

	ReferralCode     string  `gorm:"uniqueIndex;not null" json:"referral_code"`
	UsedReferralCode *string `json:"used_referral_code,omitempty"` // immutable after creation

	// KYC photo object keys (stored in R2, see utils/storage.go)
	KYCIDFrontKey *string `json:"kyc_id_front_key,omitempty"`
	KYCIDBackKey  *string `json:"kyc_id_back_key,omitempty"`
	KYCSelfieKey  *string `json:"kyc_selfie_key,omitempty"`

	ContractSigned bool `gorm:"default:false" json:"contract_signed"`

	// Ledger
	WelcomeBonus       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"welcome_bonus"`
	QuizEarnings       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"quiz_earnings"`
	ReferralEarnings   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"referral_earnings"`
	TotalBalance       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total_balance"`
	WithdrawableAmount decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"withdrawable_amount"`

	// Cap copied from settings at registration time, not live-reactive.
	// Zero means unlimited.
	MaxReferrals int `gorm:"not null;default:0" json:"max_referrals"`

	MissionsCompleted bool `gorm:"not null;default:false" json:"missions_completed"`

	Timestamps
}

// BalanceAdjustment is an admin-issued manual credit or debit with an audit trail.
type BalanceAdjustment struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID  string          `gorm:"index;not null" json:"account_id"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Type       string          `gorm:"not null" json:"type"` // credit | debit
	Reason     string          `gorm:"type:text" json:"reason"`
	AdjustedBy string          `gorm:"not null" json:"adjusted_by"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

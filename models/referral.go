package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral links a referrer to a referred account. The row is created at the
// referred account's registration when its used referral code resolves; the
// reward fires exactly once, when the referred account completes the full quiz
// program, and only while the referrer is under their referral cap. Rows
// blocked by the cap stay unpaid permanently, even if the cap is later raised.
type Referral struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID string `gorm:"index;not null" json:"referrer_id"`
	ReferredID string `gorm:"uniqueIndex;not null" json:"referred_id"`

	ReferralCodeUsed string           `gorm:"not null" json:"referral_code_used"`
	RewardPaid       bool             `gorm:"not null;default:false;index" json:"reward_paid"`
	RewardAmount     *decimal.Decimal `gorm:"type:numeric" json:"reward_amount,omitempty"`
	AwardedAt        *time.Time       `json:"awarded_at,omitempty"`

	Timestamps
}

package models

import (
	"github.com/shopspring/decimal"
)

// Setting is a single tunable platform parameter, stored as a key/value row.
// Writable only through the admin settings endpoint.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`

	Timestamps
}

// Recognized setting keys.
const (
	SettingMaxReferrals       = "max_referrals"
	SettingMinWithdrawal      = "min_withdrawal"
	SettingQuizReward         = "quiz_reward"
	SettingWelcomeBonus       = "welcome_bonus"
	SettingReferralReward     = "referral_reward"
	SettingCompletionMessage  = "completion_message"
	SettingAppointmentEnabled = "appointment_enabled"
	SettingSupportContact     = "support_contact"
)

// SettingsSnapshot is the typed view of the settings table, captured once at
// the start of each engine operation so the amounts used in a transaction are
// pinned at call time rather than read ad hoc mid-flight.
type SettingsSnapshot struct {
	MaxReferrals       int             `json:"max_referrals"`
	MinWithdrawal      decimal.Decimal `json:"min_withdrawal"`
	QuizReward         decimal.Decimal `json:"quiz_reward"`
	WelcomeBonus       decimal.Decimal `json:"welcome_bonus"`
	ReferralReward     decimal.Decimal `json:"referral_reward"`
	CompletionMessage  string          `json:"completion_message"`
	AppointmentEnabled bool            `json:"appointment_enabled"`
	SupportContact     string          `json:"support_contact"`
}

package models

import (
	"github.com/shopspring/decimal"
)

// Quiz is one mission in the daily program. UnlockDay is 1-based relative to
// the account's registration day: the day-1 quiz is available immediately,
// day-2 unlocks 24h later, and so on.
type Quiz struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Reward      decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"reward"`
	UnlockDay   int             `gorm:"not null;index" json:"unlock_day"`
	Active      bool            `gorm:"not null;default:true" json:"active"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`

	Timestamps
}

// Question belongs to a quiz. Options are stored as a JSON array; CorrectAnswer
// is the index into Options.
type Question struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	QuizID        string      `gorm:"index;not null" json:"quiz_id"`
	OrderIndex    int         `gorm:"not null" json:"order_index"`
	Text          string      `gorm:"type:text;not null" json:"text"`
	Options       StringSlice `gorm:"type:text;not null" json:"options"`
	CorrectAnswer int         `gorm:"not null" json:"-"` // never serialized to users

	Timestamps
}

// QuizStatus is derived per (account, quiz) pair and never stored.
type QuizStatus string

const (
	QuizStatusLocked    QuizStatus = "locked"
	QuizStatusAvailable QuizStatus = "available"
	QuizStatusCompleted QuizStatus = "completed"
)

// QuizCompletion records a single submitted attempt. Every attempt (pass or
// fail) creates a row; at most one passing row may ever exist per pair, which
// is what makes the reward credit exactly-once.
type QuizCompletion struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	AccountID      string `gorm:"index:idx_completion_pair;not null" json:"account_id"`
	QuizID         string `gorm:"index:idx_completion_pair;not null" json:"quiz_id"`
	Score          int    `gorm:"not null" json:"score"`
	TotalQuestions int    `gorm:"not null" json:"total_questions"`
	Passed         bool   `gorm:"not null;index" json:"passed"`

	Timestamps
}

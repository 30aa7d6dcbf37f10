package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"trustmission-platform/models"
	"trustmission-platform/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AttemptService struct {
	DB        *gorm.DB
	Settings  *SettingsService
	Referrals *ReferralService
}

func NewAttemptService(db *gorm.DB, settings *SettingsService, referrals *ReferralService) *AttemptService {
	return &AttemptService{DB: db, Settings: settings, Referrals: referrals}
}

// AttemptResult is returned to the quiz runner after grading.
type AttemptResult struct {
	CompletionID      string          `json:"completion_id"`
	CorrectCount      int             `json:"correct_count"`
	TotalQuestions    int             `json:"total_questions"`
	Passed            bool            `json:"passed"`
	RewardCredited    decimal.Decimal `json:"reward_credited"`
	MissionsCompleted bool            `json:"missions_completed"`
	CompletionMessage string          `json:"completion_message,omitempty"`
}

// SubmitAttempt grades one submitted answer set and, on a pass, credits the
// quiz reward exactly once. Answers are indexes into each question's options,
// ordered by the question order; a missing or -1 entry counts as incorrect,
// which is also how an expired time-boxed attempt arrives from the caller.
func (s *AttemptService) SubmitAttempt(accountID, quizID string, answers []int) (*AttemptResult, error) {
	account := &models.Account{}
	if err := s.DB.First(account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var quiz models.Quiz
	err := s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).First(&quiz, "id = ?", quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !quiz.Active || len(quiz.Questions) == 0 {
		return nil, ErrInvalidQuiz
	}

	passedBefore, err := s.hasPassingCompletion(s.DB, accountID, quizID)
	if err != nil {
		return nil, err
	}
	if passedBefore {
		return nil, ErrAlreadyCompleted
	}

	if DeriveQuizStatus(account, &quiz, false, time.Now()) == models.QuizStatusLocked {
		return nil, ErrQuizLocked
	}

	total := len(quiz.Questions)
	correct := 0
	for i, question := range quiz.Questions {
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			correct++
		}
	}
	// pass mark is 70%, boundary inclusive; integer compare keeps it exact
	passed := 10*correct >= 7*total

	result := &AttemptResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		Passed:         passed,
		RewardCredited: decimal.Zero,
	}

	newlyCompleted := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if passed {
			// re-check under the transaction so a double submit cannot slip
			// two passing rows in
			already, err := s.hasPassingCompletion(tx, accountID, quizID)
			if err != nil {
				return err
			}
			if already {
				return ErrAlreadyCompleted
			}
		}

		completion := models.QuizCompletion{
			ID:             uuid.NewString(),
			AccountID:      accountID,
			QuizID:         quizID,
			Score:          correct,
			TotalQuestions: total,
			Passed:         passed,
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}
		result.CompletionID = completion.ID

		if !passed {
			return nil
		}

		// compare-and-swap on the prior earnings so a racing submit cannot
		// credit the reward twice
		res := tx.Model(&models.Account{}).
			Where("id = ? AND quiz_earnings = ?", accountID, account.QuizEarnings).
			Updates(map[string]interface{}{
				"quiz_earnings":       account.QuizEarnings.Add(quiz.Reward),
				"total_balance":       account.TotalBalance.Add(quiz.Reward),
				"withdrawable_amount": account.WithdrawableAmount.Add(quiz.Reward),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}
		result.RewardCredited = quiz.Reward

		if err := createNotification(tx, accountID, models.NotificationQuizReward,
			"Mission complete",
			fmt.Sprintf("You earned %s for completing %q.", utils.FormatEUR(quiz.Reward), quiz.Title)); err != nil {
			return err
		}

		completedAll, err := DeriveMissionsCompleted(tx, accountID)
		if err != nil {
			return err
		}
		if completedAll && !account.MissionsCompleted {
			res := tx.Model(&models.Account{}).
				Where("id = ? AND missions_completed = ?", accountID, false).
				Update("missions_completed", true)
			if res.Error != nil {
				return res.Error
			}
			newlyCompleted = res.RowsAffected > 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.MissionsCompleted = newlyCompleted || account.MissionsCompleted

	if newlyCompleted {
		if snap, err := s.Settings.Snapshot(); err == nil {
			result.CompletionMessage = snap.CompletionMessage
		}

		// The referral payout is its own atomic step. If it fails here the
		// reconciler replays it; the rewardPaid guard keeps the replay
		// idempotent.
		if err := s.Referrals.OnMissionsCompleted(accountID); err != nil && !errors.Is(err, ErrReferralCapReached) {
			log.Printf("referral payout deferred for account %s: %v", accountID, err)
		}
	}

	return result, nil
}

func (s *AttemptService) hasPassingCompletion(tx *gorm.DB, accountID, quizID string) (bool, error) {
	var count int64
	err := tx.Model(&models.QuizCompletion{}).
		Where("account_id = ? AND quiz_id = ? AND passed = ?", accountID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

// AttemptsForAccount lists every recorded attempt, newest first.
func (s *AttemptService) AttemptsForAccount(accountID string) ([]models.QuizCompletion, error) {
	var completions []models.QuizCompletion
	err := s.DB.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&completions).Error
	return completions, err
}

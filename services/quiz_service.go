package services

import (
	"errors"
	"time"

	"trustmission-platform/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuizService struct {
	DB *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{DB: db}
}

// QuestionInput is one question supplied by the admin quiz editor.
type QuestionInput struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// QuizInput is the admin-facing create/update payload.
type QuizInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Reward      decimal.Decimal `json:"reward"`
	UnlockDay   int             `json:"unlock_day"`
	Active      bool            `json:"active"`
	Questions   []QuestionInput `json:"questions"`
}

func validateQuestions(questions []QuestionInput) error {
	for _, q := range questions {
		if q.Text == "" || len(q.Options) < 2 {
			return errors.New("each question needs text and at least two options")
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return errors.New("correct answer index out of range")
		}
	}
	return nil
}

// CreateQuiz adds a quiz with its ordered question set.
func (s *QuizService) CreateQuiz(in QuizInput) (*models.Quiz, error) {
	if in.Title == "" || in.UnlockDay < 1 {
		return nil, errors.New("title and a 1-based unlock day are required")
	}
	if err := validateQuestions(in.Questions); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        slug.Make(in.Title),
		Description: in.Description,
		Reward:      in.Reward,
		UnlockDay:   in.UnlockDay,
		Active:      in.Active,
	}
	for i, q := range in.Questions {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:            uuid.NewString(),
			QuizID:        quiz.ID,
			OrderIndex:    i,
			Text:          q.Text,
			Options:       models.StringSlice(q.Options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if err := s.DB.Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz edits quiz metadata. The question set is content-immutable once
// any attempt has been recorded, so past attempts keep the scoring they were
// graded under; metadata (title, description, reward, active flag) stays
// editable.
func (s *QuizService) UpdateQuiz(quizID string, in QuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(in.Questions) > 0 {
		var attempts int64
		if err := s.DB.Model(&models.QuizCompletion{}).Where("quiz_id = ?", quizID).Count(&attempts).Error; err != nil {
			return nil, err
		}
		if attempts > 0 {
			return nil, ErrQuizContentLocked
		}
		if err := validateQuestions(in.Questions); err != nil {
			return nil, err
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"description": in.Description,
			"reward":      in.Reward,
			"active":      in.Active,
		}
		if in.Title != "" {
			updates["title"] = in.Title
			updates["slug"] = slug.Make(in.Title)
		}
		if in.UnlockDay >= 1 {
			updates["unlock_day"] = in.UnlockDay
		}
		if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).Updates(updates).Error; err != nil {
			return err
		}

		if len(in.Questions) > 0 {
			if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			for i, q := range in.Questions {
				question := models.Question{
					ID:            uuid.NewString(),
					QuizID:        quizID,
					OrderIndex:    i,
					Text:          q.Text,
					Options:       models.StringSlice(q.Options),
					CorrectAnswer: q.CorrectAnswer,
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(quizID)
}

func (s *QuizService) GetByID(quizID string) (*models.Quiz, error) {
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
	return &quiz, nil
}

// ListActive returns the active catalog ordered by unlock day.
func (s *QuizService) ListActive() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.Where("active = ?", true).Order("unlock_day ASC").Find(&quizzes).Error
	return quizzes, err
}

// ListAll returns the whole catalog for the admin screen.
func (s *QuizService) ListAll() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.Order("unlock_day ASC").Find(&quizzes).Error
	return quizzes, err
}

// DaysSinceRegistration is the whole number of days elapsed since the account
// was created; the anchor for all unlock arithmetic.
func DaysSinceRegistration(account *models.Account, now time.Time) int {
	return int(now.Sub(account.CreatedAt).Hours() / 24)
}

// DeriveQuizStatus computes the locked/available/completed state for one
// (account, quiz) pair. Derived, never stored: a quiz with unlock_day = d
// unlocks once days-since-registration >= d-1, and only for approved accounts.
// The passed flag refers to an existing passing completion for the pair.
func DeriveQuizStatus(account *models.Account, quiz *models.Quiz, passed bool, now time.Time) models.QuizStatus {
	if passed {
		return models.QuizStatusCompleted
	}
	if account.Status != models.AccountStatusApproved {
		return models.QuizStatusLocked
	}
	if DaysSinceRegistration(account, now) < quiz.UnlockDay-1 {
		return models.QuizStatusLocked
	}
	return models.QuizStatusAvailable
}

// UnlockDate returns the calendar instant at which a quiz unlocks for an account.
func UnlockDate(account *models.Account, quiz *models.Quiz) time.Time {
	return account.CreatedAt.AddDate(0, 0, quiz.UnlockDay-1)
}

// QuizOverview is the dashboard row for one quiz.
type QuizOverview struct {
	Quiz      models.Quiz       `json:"quiz"`
	Status    models.QuizStatus `json:"status"`
	UnlocksAt time.Time         `json:"unlocks_at"`
}

// OverviewForAccount derives the status of every active quiz for one account
// in a single query pass, so the dashboard and the attempt engine cannot
// disagree about what is unlocked.
func (s *QuizService) OverviewForAccount(account *models.Account) ([]QuizOverview, error) {
	quizzes, err := s.ListActive()
	if err != nil {
		return nil, err
	}

	var passes []models.QuizCompletion
	if err := s.DB.Where("account_id = ? AND passed = ?", account.ID, true).Find(&passes).Error; err != nil {
		return nil, err
	}
	passedByQuiz := make(map[string]bool, len(passes))
	for _, p := range passes {
		passedByQuiz[p.QuizID] = true
	}

	now := time.Now()
	overviews := make([]QuizOverview, 0, len(quizzes))
	for _, quiz := range quizzes {
		overviews = append(overviews, QuizOverview{
			Quiz:      quiz,
			Status:    DeriveQuizStatus(account, &quiz, passedByQuiz[quiz.ID], now),
			UnlocksAt: UnlockDate(account, &quiz),
		})
	}
	return overviews, nil
}

// DeriveMissionsCompleted reports whether every currently active quiz has a
// passing completion for the account.
func DeriveMissionsCompleted(tx *gorm.DB, accountID string) (bool, error) {
	var activeIDs []string
	if err := tx.Model(&models.Quiz{}).Where("active = ?", true).Pluck("id", &activeIDs).Error; err != nil {
		return false, err
	}
	if len(activeIDs) == 0 {
		return false, nil
	}

	var passedCount int64
	err := tx.Model(&models.QuizCompletion{}).
		Where("account_id = ? AND passed = ? AND quiz_id IN ?", accountID, true, activeIDs).
		Distinct("quiz_id").
		Count(&passedCount).Error
	if err != nil {
		return false, err
	}
	return passedCount == int64(len(activeIDs)), nil
}

package services

import (
	"testing"
	"time"

	"trustmission-platform/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema and
// seeded settings. MaxOpenConns(1) keeps every query on the same in-memory
// database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Account{},
		&models.BalanceAdjustment{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizCompletion{},
		&models.Referral{},
		&models.WithdrawalRequest{},
		&models.Appointment{},
		&models.Setting{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	if err := NewSettingsService(db).SeedDefaults(); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	return db
}

type testEnv struct {
	DB           *gorm.DB
	Settings     *SettingsService
	Accounts     *AccountService
	Quizzes      *QuizService
	Referrals    *ReferralService
	Attempts     *AttemptService
	Withdrawals  *WithdrawalService
	Appointments *AppointmentService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	settings := NewSettingsService(db)
	referrals := NewReferralService(db, settings)
	return &testEnv{
		DB:           db,
		Settings:     settings,
		Accounts:     NewAccountService(db, settings),
		Quizzes:      NewQuizService(db),
		Referrals:    referrals,
		Attempts:     NewAttemptService(db, settings, referrals),
		Withdrawals:  NewWithdrawalService(db, settings),
		Appointments: NewAppointmentService(db, settings),
	}
}

var testDOB = time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)

func registerAccount(t *testing.T, env *testEnv, email, usedCode string) *models.Account {
	t.Helper()
	account, err := env.Accounts.Register(RegisterInput{
		FirstName:        "Test",
		LastName:         "User",
		Email:            email,
		DateOfBirth:      testDOB,
		UsedReferralCode: usedCode,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return account
}

func approvedAccount(t *testing.T, env *testEnv, email string) *models.Account {
	t.Helper()
	account := registerAccount(t, env, email, "")
	approved, err := env.Accounts.Approve(account.ID)
	if err != nil {
		t.Fatalf("approve %s: %v", email, err)
	}
	return approved
}

// backdateAccount moves the registration anchor into the past so unlock-day
// arithmetic can be exercised against the real clock.
func backdateAccount(t *testing.T, db *gorm.DB, accountID string, daysAgo int) {
	t.Helper()
	createdAt := time.Now().AddDate(0, 0, -daysAgo)
	if err := db.Model(&models.Account{}).Where("id = ?", accountID).
		Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate account: %v", err)
	}
}

func reloadAccount(t *testing.T, db *gorm.DB, accountID string) *models.Account {
	t.Helper()
	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		t.Fatalf("reload account: %v", err)
	}
	return &account
}

// makeQuiz creates an active quiz with n questions whose correct answer is
// always option 0.
func makeQuiz(t *testing.T, env *testEnv, title string, unlockDay, numQuestions int, reward string) *models.Quiz {
	t.Helper()
	in := QuizInput{
		Title:     title,
		Reward:    decimal.RequireFromString(reward),
		UnlockDay: unlockDay,
		Active:    true,
	}
	for i := 0; i < numQuestions; i++ {
		in.Questions = append(in.Questions, QuestionInput{
			Text:          "question",
			Options:       []string{"right", "wrong", "also wrong"},
			CorrectAnswer: 0,
		})
	}
	quiz, err := env.Quizzes.CreateQuiz(in)
	if err != nil {
		t.Fatalf("create quiz %s: %v", title, err)
	}
	return quiz
}

// answersWithCorrect builds an answer set with exactly `correct` right answers
// for quizzes built by makeQuiz.
func answersWithCorrect(total, correct int) []int {
	answers := make([]int, total)
	for i := range answers {
		if i < correct {
			answers[i] = 0
		} else {
			answers[i] = 1
		}
	}
	return answers
}

// assertLedgerIdentity checks total = welcome + quiz + referral.
func assertLedgerIdentity(t *testing.T, account *models.Account) {
	t.Helper()
	sum := account.WelcomeBonus.Add(account.QuizEarnings).Add(account.ReferralEarnings)
	if !account.TotalBalance.Equal(sum) {
		t.Fatalf("ledger identity broken: total=%s welcome=%s quiz=%s referral=%s",
			account.TotalBalance, account.WelcomeBonus, account.QuizEarnings, account.ReferralEarnings)
	}
	if account.WithdrawableAmount.GreaterThan(account.TotalBalance) {
		t.Fatalf("withdrawable %s exceeds total %s", account.WithdrawableAmount, account.TotalBalance)
	}
}

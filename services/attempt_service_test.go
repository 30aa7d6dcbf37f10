package services

import (
	"errors"
	"fmt"
	"testing"

	"trustmission-platform/models"

	"github.com/shopspring/decimal"
)

func TestSubmitRespectsUnlockSchedule(t *testing.T) {
	env := newTestEnv(t)
	quiz := makeQuiz(t, env, "Day three", 3, 5, "7.15")

	account := approvedAccount(t, env, "schedule@example.com")

	// registered one day ago: unlock_day 3 needs two full days
	backdateAccount(t, env.DB, account.ID, 1)
	_, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(5, 5))
	if !errors.Is(err, ErrQuizLocked) {
		t.Fatalf("expected ErrQuizLocked at day 1, got %v", err)
	}

	// registered two days ago: now available
	backdateAccount(t, env.DB, account.ID, 2)
	result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(5, 5))
	if err != nil {
		t.Fatalf("expected submit at day 2 to succeed, got %v", err)
	}
	if !result.Passed {
		t.Fatal("all-correct attempt must pass")
	}
}

func TestSubmitRequiresApprovedAccount(t *testing.T) {
	env := newTestEnv(t)
	quiz := makeQuiz(t, env, "Day one", 1, 3, "7.15")

	pending := registerAccount(t, env, "pending@example.com", "")
	if _, err := env.Attempts.SubmitAttempt(pending.ID, quiz.ID, answersWithCorrect(3, 3)); !errors.Is(err, ErrQuizLocked) {
		t.Fatalf("expected ErrQuizLocked for pending account, got %v", err)
	}
}

func TestPassBoundaryIsSeventyPercentInclusive(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		total   int
		correct int
		want    bool
	}{
		{"7 of 10 passes", 10, 7, true},
		{"6 of 10 fails", 10, 6, false},
		{"3 of 3 passes", 3, 3, true},
		{"2 of 3 fails", 3, 2, false}, // 66.7% < 70%
		{"7 of 9 passes", 9, 7, true}, // 77.8%
		{"6 of 9 fails", 9, 6, false}, // 66.7%
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := makeQuiz(t, env, "Boundary "+tc.name, 1, tc.total, "5")
			account := approvedAccount(t, env, fmt.Sprintf("boundary%d@example.com", i))

			result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(tc.total, tc.correct))
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if result.Passed != tc.want {
				t.Fatalf("correct=%d total=%d: passed=%v, want %v", tc.correct, tc.total, result.Passed, tc.want)
			}
			if result.CorrectCount != tc.correct {
				t.Fatalf("correct count = %d, want %d", result.CorrectCount, tc.correct)
			}
		})
	}
}

func TestRewardCreditedExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	quiz := makeQuiz(t, env, "Reward quiz", 1, 4, "7.15")
	account := approvedAccount(t, env, "reward@example.com") // 15 welcome bonus

	// two failed attempts first
	for i := 0; i < 2; i++ {
		result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(4, 1))
		if err != nil {
			t.Fatalf("failed attempt %d: %v", i, err)
		}
		if result.Passed {
			t.Fatal("1 of 4 must not pass")
		}
	}
	mid := reloadAccount(t, env.DB, account.ID)
	if !mid.QuizEarnings.IsZero() {
		t.Fatalf("failed attempts credited %s", mid.QuizEarnings)
	}

	// passing attempt credits once
	result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(4, 4))
	if err != nil {
		t.Fatalf("passing attempt: %v", err)
	}
	if !result.RewardCredited.Equal(decimal.RequireFromString("7.15")) {
		t.Fatalf("reward credited = %s, want 7.15", result.RewardCredited)
	}

	after := reloadAccount(t, env.DB, account.ID)
	if !after.QuizEarnings.Equal(decimal.RequireFromString("7.15")) {
		t.Fatalf("quiz earnings = %s, want 7.15", after.QuizEarnings)
	}
	if !after.TotalBalance.Equal(decimal.RequireFromString("22.15")) {
		t.Fatalf("total balance = %s, want 22.15", after.TotalBalance)
	}
	assertLedgerIdentity(t, after)

	// re-submission after a pass is rejected with no further credit
	if _, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(4, 4)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	final := reloadAccount(t, env.DB, account.ID)
	if !final.QuizEarnings.Equal(decimal.RequireFromString("7.15")) {
		t.Fatalf("reward double-credited: %s", final.QuizEarnings)
	}

	var attemptRows int64
	env.DB.Model(&models.QuizCompletion{}).Where("account_id = ? AND quiz_id = ?", account.ID, quiz.ID).Count(&attemptRows)
	if attemptRows != 3 {
		t.Fatalf("expected 3 recorded attempts, got %d", attemptRows)
	}
}

func TestSubmitRejectsUnsubmittableQuizzes(t *testing.T) {
	env := newTestEnv(t)
	account := approvedAccount(t, env, "invalid@example.com")

	empty, err := env.Quizzes.CreateQuiz(QuizInput{Title: "Empty", UnlockDay: 1, Active: true})
	if err != nil {
		t.Fatalf("create empty quiz: %v", err)
	}
	if _, err := env.Attempts.SubmitAttempt(account.ID, empty.ID, nil); !errors.Is(err, ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz for zero questions, got %v", err)
	}

	inactive := makeQuiz(t, env, "Inactive", 1, 3, "5")
	if _, err := env.Quizzes.UpdateQuiz(inactive.ID, QuizInput{Title: inactive.Title, Reward: inactive.Reward, UnlockDay: 1, Active: false}); err != nil {
		t.Fatalf("deactivate quiz: %v", err)
	}
	if _, err := env.Attempts.SubmitAttempt(account.ID, inactive.ID, answersWithCorrect(3, 3)); !errors.Is(err, ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz for inactive quiz, got %v", err)
	}
}

func TestUnansweredQuestionsScoreIncorrect(t *testing.T) {
	env := newTestEnv(t)
	quiz := makeQuiz(t, env, "Timed out", 1, 10, "5")
	account := approvedAccount(t, env, "timebox@example.com")

	// expired time box: caller submits the partial answer set
	result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(6, 6))
	if err != nil {
		t.Fatalf("submit partial answers: %v", err)
	}
	if result.CorrectCount != 6 || result.Passed {
		t.Fatalf("6 answered of 10 should fail with 6 correct, got correct=%d passed=%v",
			result.CorrectCount, result.Passed)
	}
}

func TestMissionsCompletedFlipsOnceAllQuizzesPassed(t *testing.T) {
	env := newTestEnv(t)
	quiz1 := makeQuiz(t, env, "Mission one", 1, 2, "5")
	quiz2 := makeQuiz(t, env, "Mission two", 1, 2, "5")
	account := approvedAccount(t, env, "missions@example.com")

	result, err := env.Attempts.SubmitAttempt(account.ID, quiz1.ID, answersWithCorrect(2, 2))
	if err != nil {
		t.Fatalf("quiz1: %v", err)
	}
	if result.MissionsCompleted {
		t.Fatal("missions must not complete with one quiz outstanding")
	}

	result, err = env.Attempts.SubmitAttempt(account.ID, quiz2.ID, answersWithCorrect(2, 2))
	if err != nil {
		t.Fatalf("quiz2: %v", err)
	}
	if !result.MissionsCompleted {
		t.Fatal("missions must complete after the final quiz")
	}
	if result.CompletionMessage == "" {
		t.Fatal("completion message expected once missions are done")
	}

	final := reloadAccount(t, env.DB, account.ID)
	if !final.MissionsCompleted {
		t.Fatal("missions_completed not persisted")
	}
}

func TestFullProgramTriggersReferralPayout(t *testing.T) {
	env := newTestEnv(t)
	quiz := makeQuiz(t, env, "Only mission", 1, 2, "7.15")

	referrer := approvedAccount(t, env, "ref-payer@example.com")
	referred := registerAccount(t, env, "ref-earner@example.com", referrer.ReferralCode)
	if _, err := env.Accounts.Approve(referred.ID); err != nil {
		t.Fatalf("approve referred: %v", err)
	}

	if _, err := env.Attempts.SubmitAttempt(referred.ID, quiz.ID, answersWithCorrect(2, 2)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	paidReferrer := reloadAccount(t, env.DB, referrer.ID)
	if !paidReferrer.ReferralEarnings.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("referral earnings = %s, want 20", paidReferrer.ReferralEarnings)
	}
	assertLedgerIdentity(t, paidReferrer)

	// invoking the hook again must not pay twice
	if err := env.Referrals.OnMissionsCompleted(referred.ID); err != nil {
		t.Fatalf("replay: %v", err)
	}
	still := reloadAccount(t, env.DB, referrer.ID)
	if !still.ReferralEarnings.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("referral reward double-paid: %s", still.ReferralEarnings)
	}
}

package services

import (
	"fmt"
	"testing"

	"trustmission-platform/models"

	"github.com/shopspring/decimal"
)

// Full lifecycle: register with a referral code, approve, pass the whole quiz
// program, then withdraw. Exercises the decimal ledger end to end: 15 welcome
// bonus plus five 7.15 quiz rewards is exactly 50.75.
func TestRegisterToWithdrawalFlow(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		makeQuiz(t, env, fmt.Sprintf("Program day %d", i+1), 1, 2, "7.15")
	}

	referrer := approvedAccount(t, env, "flow-referrer@example.com")
	account := registerAccount(t, env, "flow@example.com", referrer.ReferralCode)

	if _, err := env.Accounts.Approve(account.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	quizzes, err := env.Quizzes.ListActive()
	if err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	for _, quiz := range quizzes {
		result, err := env.Attempts.SubmitAttempt(account.ID, quiz.ID, answersWithCorrect(2, 2))
		if err != nil {
			t.Fatalf("submit %s: %v", quiz.Title, err)
		}
		if !result.Passed {
			t.Fatalf("all-correct attempt on %s did not pass", quiz.Title)
		}
	}

	earner := reloadAccount(t, env.DB, account.ID)
	if !earner.MissionsCompleted {
		t.Fatal("program must be complete after passing every quiz")
	}
	if !earner.TotalBalance.Equal(decimal.RequireFromString("50.75")) {
		t.Fatalf("total balance = %s, want 50.75", earner.TotalBalance)
	}
	assertLedgerIdentity(t, earner)

	// finishing the program paid the referrer
	paid := reloadAccount(t, env.DB, referrer.ID)
	if !paid.ReferralEarnings.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("referrer earnings = %s, want 20", paid.ReferralEarnings)
	}

	request, err := env.Withdrawals.RequestWithdrawal(account.ID, decimal.RequireFromString("50.75"), testBank)
	if err != nil {
		t.Fatalf("withdraw full balance: %v", err)
	}

	decided, err := env.Withdrawals.Decide(request.ID, true, "")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != models.WithdrawalStatusApproved {
		t.Fatalf("status = %s, want approved", decided.Status)
	}
}

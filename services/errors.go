package services

import "errors"

// Engine validation failures. All are returned to the caller and are
// retryable after correcting the precondition; none are fatal.
var (
	// ErrNotFound covers any unknown id on any operation.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is an illegal status change, e.g. approving an
	// account that is not pending or deciding a non-pending request.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyCompleted rejects re-submission after a passing completion.
	ErrAlreadyCompleted = errors.New("quiz already completed")

	// ErrQuizLocked rejects submission before the quiz's unlock day or while
	// the account is not approved.
	ErrQuizLocked = errors.New("quiz is locked")

	// ErrInvalidQuiz rejects submission against an inactive or zero-question quiz.
	ErrInvalidQuiz = errors.New("quiz is not submittable")

	// ErrQuizContentLocked rejects structural edits to a quiz once any attempt
	// has been recorded against it.
	ErrQuizContentLocked = errors.New("quiz content is locked by recorded attempts")

	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	ErrInsufficientBalance    = errors.New("amount exceeds withdrawable balance")

	// ErrReferralCapReached is informational: the referral row stays unpaid,
	// nothing else fails.
	ErrReferralCapReached = errors.New("referrer reached referral cap")

	// ErrCodeGenerationExhausted surfaces after the bounded referral-code
	// uniqueness retry loop runs out of attempts.
	ErrCodeGenerationExhausted = errors.New("referral code generation exhausted")

	ErrUnderage   = errors.New("registrant must be at least 18 years old")
	ErrEmailTaken = errors.New("email already registered")

	ErrMissionsIncomplete   = errors.New("quiz program not completed")
	ErrAppointmentsDisabled = errors.New("appointments are disabled")
)

package quizService

import "errors"

// Engine errors. Controllers map these onto HTTP statuses; every state
// machine precondition failure has its own value so clients get specific
// guidance instead of a generic failure.
var (
	// not found
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")

	// eligibility
	ErrQuizInactive      = errors.New("quiz is not active")
	ErrAttemptsExhausted = errors.New("maximum attempts reached")

	// authorization
	ErrOwnershipMismatch = errors.New("attempt belongs to another user")

	// state
	ErrAttemptExpired       = errors.New("attempt time is up")
	ErrAttemptNotInProgress = errors.New("attempt is not in progress")
	ErrAlreadyCompleted     = errors.New("attempt is already completed")
	ErrQuestionNotInQuiz    = errors.New("question does not belong to this quiz")
	ErrNotCompleted         = errors.New("attempt is not completed")
)

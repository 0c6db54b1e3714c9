package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when no attempt exists for the user.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptInProgress rejects a restart while the attempt is running.
	ErrAttemptInProgress = errors.New("attempt already in progress")
	// ErrAttemptNotStarted rejects navigation or answers outside in_progress.
	ErrAttemptNotStarted = errors.New("attempt not in progress")
	// ErrAttemptNotCompleted is returned when results are read before finish.
	ErrAttemptNotCompleted = errors.New("attempt not completed")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
)

package app

import (
	"context"

	"quiz-attempt-service/internal/domain"
)

// AttemptRepository abstracts how running attempts are stored (in-memory, Redis, etc).
type AttemptRepository interface {
	GetOrCreate(quizID, userID string, create func() *Attempt) *Attempt
	Get(quizID, userID string) (*Attempt, bool)
	Delete(quizID, userID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptService contains the quiz-taking use cases.
type AttemptService struct {
	attempts AttemptRepository
	quizzes  QuizRepository
}

func NewAttemptService(attempts AttemptRepository, quizzes QuizRepository) *AttemptService {
	return &AttemptService{attempts: attempts, quizzes: quizzes}
}

// Start creates (or restarts) the user's attempt on a quiz and returns the
// opening snapshot plus the first question. Users cannot start unknown quizzes.
func (s *AttemptService) Start(ctx context.Context, quizID, userID string) (domain.AttemptSnapshot, domain.QuestionView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, domain.QuestionView{}, err
	}

	attempt := s.attempts.GetOrCreate(quizID, userID, func() *Attempt {
		return NewAttempt(quiz)
	})
	snap, err := attempt.Start()
	if err != nil {
		return domain.AttemptSnapshot{}, domain.QuestionView{}, err
	}
	view, _ := attempt.CurrentQuestion()
	return snap, view, nil
}

// RecordAnswer stores (or, for checkbox questions, toggles) an answer value
// and echoes the stored state back.
func (s *AttemptService) RecordAnswer(_ context.Context, quizID, userID, questionID, value string) (domain.Answer, error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return domain.Answer{}, domain.ErrAttemptNotFound
	}
	return attempt.RecordAnswer(questionID, value)
}

// Advance moves the attempt forward; on the last question it finalizes and
// returns the scored summary.
func (s *AttemptService) Advance(_ context.Context, quizID, userID string) (domain.AttemptSnapshot, *domain.ResultSummary, error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return domain.AttemptSnapshot{}, nil, domain.ErrAttemptNotFound
	}
	return attempt.Advance()
}

// CurrentQuestion returns the sanitized question under the countdown.
func (s *AttemptService) CurrentQuestion(_ context.Context, quizID, userID string) (domain.QuestionView, error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return domain.QuestionView{}, domain.ErrAttemptNotFound
	}
	return attempt.CurrentQuestion()
}

// Results returns the summary of a completed attempt.
func (s *AttemptService) Results(_ context.Context, quizID, userID string) (domain.ResultSummary, error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return domain.ResultSummary{}, domain.ErrAttemptNotFound
	}
	return attempt.Results()
}

// Snapshot returns the current state view of the attempt.
func (s *AttemptService) Snapshot(_ context.Context, quizID, userID string) (domain.AttemptSnapshot, error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return domain.AttemptSnapshot{}, domain.ErrAttemptNotFound
	}
	return attempt.Snapshot(), nil
}

// Subscribe returns a channel that receives snapshot updates for the attempt.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *AttemptService) Subscribe(_ context.Context, quizID, userID string) (<-chan domain.AttemptSnapshot, func(), error) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return nil, nil, domain.ErrAttemptNotFound
	}
	ch, cancel := attempt.Subscribe()
	return ch, cancel, nil
}

// Abandon cancels any pending countdown and drops the stored attempt.
func (s *AttemptService) Abandon(_ context.Context, quizID, userID string) {
	attempt, ok := s.attempts.Get(quizID, userID)
	if !ok {
		return
	}
	attempt.Close()
	s.attempts.Delete(quizID, userID)
}

package memory

import (
	"sync"

	"quiz-attempt-service/internal/app"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository,
// keyed by (quizID, userID).
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[attemptKey]*app.Attempt
}

type attemptKey struct {
	quizID string
	userID string
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[attemptKey]*app.Attempt),
	}
}

func (s *AttemptStore) GetOrCreate(quizID, userID string, create func() *app.Attempt) *app.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attemptKey{quizID: quizID, userID: userID}
	if attempt, ok := s.attempts[key]; ok {
		return attempt
	}
	attempt := create()
	s.attempts[key] = attempt
	return attempt
}

func (s *AttemptStore) Get(quizID, userID string) (*app.Attempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptKey{quizID: quizID, userID: userID}]
	return attempt, ok
}

func (s *AttemptStore) Delete(quizID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptKey{quizID: quizID, userID: userID})
}

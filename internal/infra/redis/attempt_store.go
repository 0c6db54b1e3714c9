package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"quiz-attempt-service/internal/app"
)

// AttemptStore is a Redis-aware implementation of app.AttemptRepository.
// Notes:
//   - It still keeps a local in-memory map of attempts to reuse the existing
//     in-process countdown and broadcast logic.
//   - Redis marks attempt liveness (and could be extended to share answer
//     maps or route cross-instance pub/sub).
//   - For sticky-session deployments the liveness keys double as a cheap
//     "who is mid-attempt" inventory.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[attemptKey]*app.Attempt
}

type attemptKey struct {
	quizID string
	userID string
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(quizID, userID), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(quizID, userID)).Err()
}

func (s *AttemptStore) key(quizID, userID string) string {
	return "attempt:" + quizID + ":" + userID
}

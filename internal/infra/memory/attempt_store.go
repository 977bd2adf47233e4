package memory

import (
	"context"
	"sync"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
)

// AttemptStore keeps completed attempts in memory, per content id.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string][]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string][]domain.Attempt)}
}

func (s *AttemptStore) RecordAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ContentID] = append(s.attempts[attempt.ContentID], attempt)
	return nil
}

// Overall aggregates the recorded attempts of contentID into leaderboard records.
func (s *AttemptStore) Overall(_ context.Context, contentID string) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	attempts := append([]domain.Attempt(nil), s.attempts[contentID]...)
	s.mu.RUnlock()
	return app.AggregateAttempts(attempts), nil
}

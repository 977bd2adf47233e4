package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore appends completed attempts to a Redis list per content:
// RPUSH attempts:{contentID} {json attempt}
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

func (s *AttemptStore) RecordAttempt(ctx context.Context, attempt domain.Attempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(attempt.ContentID), raw).Err(); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Overall(ctx context.Context, contentID string) ([]domain.LeaderboardEntry, error) {
	items, err := s.client.LRange(ctx, s.key(contentID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	attempts := make([]domain.Attempt, 0, len(items))
	for _, item := range items {
		var a domain.Attempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("decode attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return app.AggregateAttempts(attempts), nil
}

func (s *AttemptStore) key(contentID string) string {
	return "attempts:" + contentID
}

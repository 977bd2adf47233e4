package postgres

import (
	"context"
	"fmt"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists completed attempts in the attempts table.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) RecordAttempt(ctx context.Context, a domain.Attempt) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attempts (id, content_id, session_id, user_id, user_name, score, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), a.ContentID, a.SessionID, a.UserID, a.UserName, a.Score, a.AttemptedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Overall(ctx context.Context, contentID string) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, user_id, user_name, score, attempted_at
		 FROM attempts WHERE content_id=$1 ORDER BY attempted_at, id`, contentID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		a := domain.Attempt{ContentID: contentID}
		if err := rows.Scan(&a.SessionID, &a.UserID, &a.UserName, &a.Score, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read attempts: %w", err)
	}
	return app.AggregateAttempts(attempts), nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adaptive-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, contentID string) (domain.QuestionBank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT pools FROM question_banks WHERE content_id=$1`, contentID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionBank{}, fmt.Errorf("load bank %s: %w", contentID, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load bank: %w", err)
	}
	pools, err := decodePools(raw)
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return domain.QuestionBank{ContentID: contentID, Pools: pools}, nil
}

// SaveBank upserts a bank; used to seed content.
func (l *BankLoader) SaveBank(ctx context.Context, bank domain.QuestionBank) error {
	raw, err := json.Marshal(bank.Pools)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO question_banks (content_id, pools) VALUES ($1, $2::jsonb)
		 ON CONFLICT (content_id) DO UPDATE SET pools=EXCLUDED.pools, updated_at=now()`,
		bank.ContentID, string(raw))
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}

func decodePools(raw []byte) (map[domain.Difficulty][]domain.Question, error) {
	var byName map[string][]domain.Question
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("unmarshal bank: %w", err)
	}
	pools := make(map[domain.Difficulty][]domain.Question, len(byName))
	for name, pool := range byName {
		d, err := domain.ParseDifficulty(name)
		if err != nil {
			return nil, fmt.Errorf("bank tier %q: %w", name, err)
		}
		for i := range pool {
			if pool[i].Difficulty == "" {
				pool[i].Difficulty = d
			}
		}
		pools[d] = pool
	}
	return pools, nil
}

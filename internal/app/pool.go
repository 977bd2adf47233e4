package app

import (
	"fmt"
	"math/rand"

	"adaptive-quiz-service/internal/domain"
)

// PoolSelector draws questions of a requested tier from a bank.
type PoolSelector struct {
	bank domain.QuestionBank
	rnd  *rand.Rand
}

// NewPoolSelector builds a selector; rnd must not be shared across goroutines.
func NewPoolSelector(bank domain.QuestionBank, rnd *rand.Rand) *PoolSelector {
	return &PoolSelector{bank: bank, rnd: rnd}
}

// First returns the first question of a tier.
func (s *PoolSelector) First(d domain.Difficulty) (domain.Question, error) {
	pool := s.bank.Pool(d)
	if len(pool) == 0 {
		return domain.Question{}, fmt.Errorf("%s: %w", d, domain.ErrPoolEmpty)
	}
	return pool[0], nil
}

// Select picks uniformly among the tier's questions not in usedIDs. When every question
// of the tier was already used, the first one is repeated.
func (s *PoolSelector) Select(d domain.Difficulty, usedIDs []string) (domain.Question, error) {
	pool := s.bank.Pool(d)
	if len(pool) == 0 {
		return domain.Question{}, fmt.Errorf("%s: %w", d, domain.ErrPoolEmpty)
	}

	used := make(map[string]struct{}, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = struct{}{}
	}
	available := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := used[q.ID]; !ok {
			available = append(available, q)
		}
	}
	if len(available) == 0 {
		return pool[0], nil
	}
	return available[s.rnd.Intn(len(available))], nil
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankRepository caches question banks in Redis and falls back to a loader on cache miss.
// Pools are stored as: HSET bank:{contentID} {difficulty} {json questions}
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, contentID string) (domain.QuestionBank, error) {
	key := r.key(contentID)
	if bank, ok := r.fromCache(ctx, contentID, key); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(contentID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, contentID, key); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, contentID)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		fields := make(map[string]interface{}, len(bank.Pools))
		for d, pool := range bank.Pools {
			raw, err := json.Marshal(pool)
			if err != nil {
				return domain.QuestionBank{}, fmt.Errorf("encode %s pool: %w", d, err)
			}
			fields[string(d)] = raw
		}
		if len(fields) > 0 {
			ttl := r.ttlWithJitter()
			pipe := r.client.Pipeline()
			pipe.HSet(ctx, key, fields)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			_, _ = pipe.Exec(ctx)
		}
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *BankRepository) fromCache(ctx context.Context, contentID, key string) (domain.QuestionBank, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.QuestionBank{}, false
	}
	bank := domain.QuestionBank{ContentID: contentID, Pools: make(map[domain.Difficulty][]domain.Question, len(fields))}
	for field, raw := range fields {
		d, err := domain.ParseDifficulty(field)
		if err != nil {
			return domain.QuestionBank{}, false
		}
		var pool []domain.Question
		if err := json.Unmarshal([]byte(raw), &pool); err != nil {
			return domain.QuestionBank{}, false
		}
		bank.Pools[d] = pool
	}
	return bank, true
}

func (r *BankRepository) key(contentID string) string {
	return "bank:" + contentID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

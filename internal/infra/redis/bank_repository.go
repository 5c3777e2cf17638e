package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
)

// BankLoader fetches a dataset from its backing store (files, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, datasetID string) (*bank.Bank, error)
}

// BankRepository caches parsed banks in Redis and falls back to a loader on cache miss.
// A bank is stored as a JSON array of questions: SET logicquest:bank:{datasetID} [...]
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, datasetID string) (*bank.Bank, error) {
	if b, ok := r.cached(ctx, datasetID); ok {
		return b, nil
	}

	result, err, _ := r.sf.Do(datasetID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if b, ok := r.cached(ctx, datasetID); ok {
			return b, nil
		}

		b, err := r.loader.LoadBank(ctx, datasetID)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(b.Questions())
		if err != nil {
			return nil, err
		}
		_ = r.client.Set(ctx, r.key(datasetID), raw, r.ttlWithJitter()).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*bank.Bank), nil
}

// cached treats unreadable or invalid entries as a miss so the loader repairs them.
func (r *BankRepository) cached(ctx context.Context, datasetID string) (*bank.Bank, bool) {
	raw, err := r.client.Get(ctx, r.key(datasetID)).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	b, err := bank.New(questions)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Invalidate drops the cached bank for datasetID.
func (r *BankRepository) Invalidate(datasetID string) {
	// best-effort: a stale entry still expires with its TTL
	_ = r.client.Del(context.Background(), r.key(datasetID)).Err()
}

func (r *BankRepository) key(datasetID string) string {
	return keyPrefix + "bank:" + datasetID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

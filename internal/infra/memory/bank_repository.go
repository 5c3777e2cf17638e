package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"logicquest/internal/bank"
	"logicquest/internal/domain"
)

// BankLoader fetches and parses a dataset from its backing store (files, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, datasetID string) (*bank.Bank, error)
}

// BankRepository caches parsed banks with a TTL so screens can restart sessions cheaply.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      *bank.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, datasetID string) (*bank.Bank, error) {
	if b, ok := r.lookup(datasetID); ok {
		return b, nil
	}

	result, err, _ := r.sf.Do(datasetID, func() (interface{}, error) {
		if b, ok := r.lookup(datasetID); ok {
			return b, nil
		}
		b, err := r.loader.LoadBank(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		ttl := r.ttlWithJitter()
		if ttl > 0 {
			r.mu.Lock()
			r.cache[datasetID] = cachedBank{bank: b, expiresAt: r.clock().Add(ttl)}
			r.mu.Unlock()
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*bank.Bank), nil
}

func (r *BankRepository) lookup(datasetID string) (*bank.Bank, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[datasetID]; ok && entry.expiresAt.After(now) {
		return entry.bank, true
	}
	return nil, false
}

// Invalidate drops the cached bank for datasetID.
func (r *BankRepository) Invalidate(datasetID string) {
	r.mu.Lock()
	delete(r.cache, datasetID)
	r.mu.Unlock()
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves prebuilt banks (tests and demos).
type StaticBankLoader struct {
	banks map[string]*bank.Bank
}

func NewStaticBankLoader(banks map[string]*bank.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, datasetID string) (*bank.Bank, error) {
	if b, ok := l.banks[datasetID]; ok {
		return b, nil
	}
	return nil, domain.ErrDatasetNotFound
}

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/models"
)

// rateLimitSweepInterval bounds how often expired rate limit entries are evicted.
const rateLimitSweepInterval = time.Minute

type MemoryGatewayStore struct {
	responses  sync.Map
	rateLimits sync.Map
	generation atomic.Int64
	lastSweep  atomic.Int64
	now        func() time.Time
}

func NewMemoryGatewayStore() *MemoryGatewayStore {
	return &MemoryGatewayStore{now: time.Now}
}

type responseEntry struct {
	resp      *models.CachedResponse
	expiresAt time.Time
}

func (r *MemoryGatewayStore) GetResponse(ctx context.Context, key string) (*models.CachedResponse, error) {
	val, ok := r.responses.Load(key)
	if !ok {
		return nil, nil
	}
	entry := val.(*responseEntry)
	if !r.now().Before(entry.expiresAt) {
		r.responses.Delete(key)
		return nil, nil
	}
	return entry.resp, nil
}

func (r *MemoryGatewayStore) SetResponse(ctx context.Context, key string, resp *models.CachedResponse, ttl time.Duration) error {
	r.responses.Store(key, &responseEntry{resp: resp, expiresAt: r.now().Add(ttl)})
	return nil
}

func (r *MemoryGatewayStore) CacheGeneration(ctx context.Context) (int64, error) {
	return r.generation.Load(), nil
}

// BumpCacheGeneration also drops every stored response since old
// generations can no longer be addressed.
func (r *MemoryGatewayStore) BumpCacheGeneration(ctx context.Context) error {
	r.generation.Add(1)
	r.responses.Range(func(k, _ any) bool {
		r.responses.Delete(k)
		return true
	})
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
	evicted   bool
}

func (r *MemoryGatewayStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now()
	r.sweepRateLimits(now)

	for {
		val, _ := r.rateLimits.LoadOrStore(key, &rateLimitEntry{expiresAt: now.Add(window)})
		entry := val.(*rateLimitEntry)

		entry.mu.Lock()
		if entry.evicted {
			entry.mu.Unlock()
			continue
		}
		if now.After(entry.expiresAt) {
			entry.count = 0
			entry.expiresAt = now.Add(window)
		}
		entry.count++
		allowed := entry.count <= limit
		entry.mu.Unlock()
		return allowed, nil
	}
}

// sweepRateLimits evicts expired entries, at most once per rateLimitSweepInterval.
func (r *MemoryGatewayStore) sweepRateLimits(now time.Time) {
	last := r.lastSweep.Load()
	if now.UnixNano()-last < int64(rateLimitSweepInterval) {
		return
	}
	if !r.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	r.rateLimits.Range(func(k, v any) bool {
		entry := v.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.expiresAt) {
			entry.evicted = true
			r.rateLimits.Delete(k)
		}
		entry.mu.Unlock()
		return true
	})
}

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const recoveryInterval = time.Minute

// FailoverGatewayStore uses primary until it errors, then serves from
// fallback and retries primary once per recoveryInterval.
type FailoverGatewayStore struct {
	primary  domain.GatewayStore
	fallback domain.GatewayStore
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverGatewayStore(primary, fallback domain.GatewayStore, logger *zerolog.Logger) *FailoverGatewayStore {
	return &FailoverGatewayStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should go to primary.
func (r *FailoverGatewayStore) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.now().Sub(r.lastCheck) > recoveryInterval {
		r.lastCheck = r.now()
		return true
	}
	return false
}

// observe records the outcome of a primary call.
func (r *FailoverGatewayStore) observe(err error) {
	if err == nil {
		if r.isDown.CompareAndSwap(true, false) {
			r.logger.Info().Msg("Primary gateway store recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary gateway store failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = r.now()
	r.mu.Unlock()
}

func (r *FailoverGatewayStore) GetResponse(ctx context.Context, key string) (*models.CachedResponse, error) {
	if r.usePrimary() {
		resp, err := r.primary.GetResponse(ctx, key)
		r.observe(err)
		if err == nil {
			return resp, nil
		}
	}
	return r.fallback.GetResponse(ctx, key)
}

func (r *FailoverGatewayStore) SetResponse(ctx context.Context, key string, resp *models.CachedResponse, ttl time.Duration) error {
	if r.usePrimary() {
		err := r.primary.SetResponse(ctx, key, resp, ttl)
		r.observe(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.SetResponse(ctx, key, resp, ttl)
}

func (r *FailoverGatewayStore) CacheGeneration(ctx context.Context) (int64, error) {
	if r.usePrimary() {
		gen, err := r.primary.CacheGeneration(ctx)
		r.observe(err)
		if err == nil {
			return gen, nil
		}
	}
	return r.fallback.CacheGeneration(ctx)
}

// BumpCacheGeneration bumps both stores so neither serves stale entries
// after a switch.
func (r *FailoverGatewayStore) BumpCacheGeneration(ctx context.Context) error {
	if r.usePrimary() {
		r.observe(r.primary.BumpCacheGeneration(ctx))
	}
	return r.fallback.BumpCacheGeneration(ctx)
}

func (r *FailoverGatewayStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		r.observe(err)
		if err == nil {
			return allowed, nil
		}
	}
	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}

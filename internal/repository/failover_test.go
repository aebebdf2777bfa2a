package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shareit/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetResponse(ctx context.Context, key string) (*models.CachedResponse, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedResponse), args.Error(1)
}

func (m *mockStore) SetResponse(ctx context.Context, key string, resp *models.CachedResponse, ttl time.Duration) error {
	return m.Called(ctx, key, resp, ttl).Error(0)
}

func (m *mockStore) CacheGeneration(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) BumpCacheGeneration(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestFailoverGatewayStore(t *testing.T) {
	primary := new(mockStore)
	fallback := new(mockStore)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverGatewayStore(primary, fallback, &logger)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		resp := &models.CachedResponse{Status: 200}
		primary.On("GetResponse", ctx, "k1").Return(resp, nil).Once()

		got, err := repo.GetResponse(ctx, "k1")
		assert.NoError(t, err)
		assert.Equal(t, resp, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		resp := &models.CachedResponse{Status: 200}
		primary.On("GetResponse", ctx, "k2").Return(nil, errors.New("fail")).Once()
		fallback.On("GetResponse", ctx, "k2").Return(resp, nil).Once()

		got, err := repo.GetResponse(ctx, "k2")
		assert.NoError(t, err)
		assert.Equal(t, resp, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("AlreadyDownSkipsPrimary", func(t *testing.T) {
		fallback.On("CheckRateLimit", ctx, "66", 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "66", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		fallback.AssertExpectations(t)
		primary.AssertNotCalled(t, "CheckRateLimit", ctx, "66", 10, time.Minute)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)
		primary.On("CacheGeneration", ctx).Return(int64(4), nil).Once()

		gen, err := repo.CacheGeneration(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), gen)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)
		primary.On("CacheGeneration", ctx).Return(int64(0), errors.New("still fail")).Once()
		fallback.On("CacheGeneration", ctx).Return(int64(1), nil).Once()

		gen, err := repo.CacheGeneration(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), gen)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetResponseFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		resp := &models.CachedResponse{Status: 200}
		primary.On("SetResponse", ctx, "k3", resp, time.Minute).Return(errors.New("fail")).Once()
		fallback.On("SetResponse", ctx, "k3", resp, time.Minute).Return(nil).Once()

		assert.NoError(t, repo.SetResponse(ctx, "k3", resp, time.Minute))
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("BumpReachesBothStores", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("BumpCacheGeneration", ctx).Return(nil).Once()
		fallback.On("BumpCacheGeneration", ctx).Return(nil).Once()

		assert.NoError(t, repo.BumpCacheGeneration(ctx))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("CheckRateLimitFailover", func(t *testing.T) {
		repo.isDown.Store(false)
		primary.On("CheckRateLimit", ctx, "6", 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "6", 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "6", 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}

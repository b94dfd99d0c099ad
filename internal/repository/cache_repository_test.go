package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheRepository(client, "scholarhub:", nil), mr
}

func TestCacheRoundTrip(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	stats := models.PlatformStats{TotalUsers: 3, TotalFeesCollected: 30}
	require.NoError(t, repo.Set(ctx, "analytics:platform-stats", stats, time.Minute))
	assert.True(t, mr.Exists("scholarhub:analytics:platform-stats"))

	var got models.PlatformStats
	require.NoError(t, repo.Get(ctx, "analytics:platform-stats", &got))
	assert.Equal(t, 3, got.TotalUsers)
	assert.Equal(t, 30.0, got.TotalFeesCollected)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "analytics:platform-stats", &got), appErrors.ErrCacheMiss)
}

func TestCacheDeleteByPattern(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "analytics:a", 1, 0))
	require.NoError(t, repo.Set(ctx, "analytics:b", 2, 0))
	require.NoError(t, repo.Set(ctx, "other", 3, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "analytics:*"))
	assert.False(t, mr.Exists("scholarhub:analytics:a"))
	assert.False(t, mr.Exists("scholarhub:analytics:b"))
	assert.True(t, mr.Exists("scholarhub:other"))
}

func TestCacheWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "", nil)
	var dest int
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", 1, time.Second))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
}

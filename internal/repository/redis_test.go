package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisSessionRepository) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return s, NewRedisSessionRepository(client, time.Hour)
}

func TestRedisSessionRepository(t *testing.T) {
	s, repo := setupRedis(t)
	ctx := context.Background()

	t.Run("SetAndGetReplyTarget", func(t *testing.T) {
		require.NoError(t, repo.SetReplyTarget(ctx, 1, 42))

		target, err := repo.GetReplyTarget(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), target)
	})

	t.Run("GetMissingTarget", func(t *testing.T) {
		target, err := repo.GetReplyTarget(ctx, 999)
		require.NoError(t, err)
		assert.Zero(t, target)
	})

	t.Run("ClearReplyTarget", func(t *testing.T) {
		require.NoError(t, repo.SetReplyTarget(ctx, 2, 7))
		require.NoError(t, repo.ClearReplyTarget(ctx, 2))

		target, err := repo.GetReplyTarget(ctx, 2)
		require.NoError(t, err)
		assert.Zero(t, target)
	})

	t.Run("RateLimit", func(t *testing.T) {
		allowed, err := repo.CheckRateLimit(ctx, 42, 1, 3*time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, 42, 1, 3*time.Second)
		require.NoError(t, err)
		assert.False(t, allowed)

		// The window expires and the counter resets
		s.FastForward(3 * time.Second)

		allowed, err = repo.CheckRateLimit(ctx, 42, 1, 3*time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisSessionRepository_NilClient(t *testing.T) {
	repo := NewRedisSessionRepository(nil, time.Hour)
	ctx := context.Background()

	_, err := repo.GetReplyTarget(ctx, 1)
	assert.Error(t, err)

	assert.Error(t, repo.SetReplyTarget(ctx, 1, 2))

	_, err = repo.CheckRateLimit(ctx, 1, 1, time.Second)
	assert.Error(t, err)
}

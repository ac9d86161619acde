package redis_test

import (
	"context"
	"testing"
	"time"

	redisadapter "cityscope/internal/adapters/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_FixedWindow(t *testing.T) {
	mr, client := newRedis(t)
	limiter := redisadapter.NewRateLimiterRedis(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "like", "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "like", "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other users and resources have their own counters
	ok, err = limiter.Allow(ctx, "like", "user-2")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = limiter.Allow(ctx, "comment", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = limiter.Allow(ctx, "like", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_Errors(t *testing.T) {
	_, err := redisadapter.NewRateLimiterRedis(nil, 3, time.Minute).Allow(context.Background(), "like", "u")
	assert.Error(t, err)

	mr, client := newRedis(t)
	limiter := redisadapter.NewRateLimiterRedis(client, 3, time.Minute)
	mr.Close()
	_, err = limiter.Allow(context.Background(), "like", "u")
	assert.Error(t, err)
}

package kv_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/restorehq/control-plane/internal/adapter/kv"
)

func newTestRedisLimiter(t *testing.T, buckets map[string]kv.BucketConfig) (*kv.RedisLimiter, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := kv.NewRedisLimiter(rdb, buckets)
	return limiter, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestRedisLimiter_UnknownScopeAllowsUnconditionally(t *testing.T) {
	limiter, cleanup := newTestRedisLimiter(t, nil)
	defer cleanup()

	allowed, _, _, _, err := limiter.Allow(context.Background(), "unknown", "principal-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_RespectsCapacity(t *testing.T) {
	buckets := map[string]kv.BucketConfig{
		"user": {Capacity: 2, Window: time.Minute},
	}
	limiter, cleanup := newTestRedisLimiter(t, buckets)
	defer cleanup()
	ctx := context.Background()

	allowed, remaining, capacity, _, err := limiter.Allow(ctx, "user", "owner-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(2), capacity)
	assert.Equal(t, int64(1), remaining)

	allowed, remaining, _, _, err = limiter.Allow(ctx, "user", "owner-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(0), remaining)

	allowed, _, _, _, err = limiter.Allow(ctx, "user", "owner-1")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisLimiter_RemainingDoesNotClimbMidWindow(t *testing.T) {
	buckets := map[string]kv.BucketConfig{
		"user": {Capacity: 3, Window: time.Hour},
	}
	limiter, cleanup := newTestRedisLimiter(t, buckets)
	defer cleanup()
	ctx := context.Background()

	_, first, _, firstReset, err := limiter.Allow(ctx, "user", "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), first)

	_, second, _, secondReset, err := limiter.Allow(ctx, "user", "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), second)
	assert.True(t, second < first, "remaining must decrease monotonically within a window")
	assert.Equal(t, firstReset, secondReset, "reset instant is fixed for the whole window")
}

func TestRedisLimiter_ScopesAreIndependentPerPrincipal(t *testing.T) {
	buckets := map[string]kv.BucketConfig{
		"user": {Capacity: 1, Window: time.Minute},
	}
	limiter, cleanup := newTestRedisLimiter(t, buckets)
	defer cleanup()
	ctx := context.Background()

	allowed, _, _, _, err := limiter.Allow(ctx, "user", "owner-a")
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, _, err = limiter.Allow(ctx, "user", "owner-b")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestNewBucketConfigFromPerMinute(t *testing.T) {
	cfg := kv.NewBucketConfigFromPerMinute(60)
	assert.Equal(t, int64(60), cfg.Capacity)
	assert.Equal(t, time.Minute, cfg.Window)

	assert.Equal(t, kv.BucketConfig{}, kv.NewBucketConfigFromPerMinute(0))
}

func TestInProcessLimiter_RespectsCapacity(t *testing.T) {
	buckets := map[string]kv.BucketConfig{"ip": {Capacity: 1, Window: time.Minute}}
	limiter := kv.NewInProcessLimiter(buckets)
	ctx := context.Background()

	allowed, _, _, _, err := limiter.Allow(ctx, "ip", "1.2.3.4")
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, _, err = limiter.Allow(ctx, "ip", "1.2.3.4")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestInProcessLimiter_UnknownScopeAllows(t *testing.T) {
	limiter := kv.NewInProcessLimiter(nil)
	allowed, _, _, _, err := limiter.Allow(context.Background(), "missing", "p")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_FallsBackToInProcessOnRedisFailure(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	buckets := map[string]kv.BucketConfig{"user": {Capacity: 5, Window: time.Minute}}
	limiter := kv.NewRedisLimiter(rdb, buckets)

	mr.Close()
	_ = rdb.Close()

	allowed, _, _, _, err := limiter.Allow(context.Background(), "user", "owner-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

package kv

import (
	"context"
	"sync"
	"time"
)

// InProcessLimiter is a single-process fixed-window limiter used only when
// Redis is unreachable, identical in admission semantics to RedisLimiter's
// Lua script (spec §4.4). It does not coordinate across replicas, so its
// limits are advisory under that failure condition rather than a
// correctness guarantee.
type InProcessLimiter struct {
	mu      sync.Mutex
	buckets map[string]BucketConfig
	state   map[string]*bucketState
}

type bucketState struct {
	remaining int64
	reset     time.Time
}

// NewInProcessLimiter builds a fallback limiter sharing the same bucket
// configuration as the Redis-backed limiter it backstops.
func NewInProcessLimiter(buckets map[string]BucketConfig) *InProcessLimiter {
	return &InProcessLimiter{
		buckets: buckets,
		state:   make(map[string]*bucketState),
	}
}

// Allow implements the same signature as domain.RateLimiter.Allow so that
// RedisLimiter can delegate to it directly on Redis failure.
func (l *InProcessLimiter) Allow(_ context.Context, scope, principal string) (bool, int64, int64, time.Time, error) {
	cfg, ok := l.buckets[scope]
	if !ok || cfg.Capacity <= 0 || cfg.Window <= 0 {
		return true, 0, 0, time.Time{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := scope + ":" + principal
	now := time.Now()
	st, ok := l.state[key]
	if !ok || !st.reset.After(now) {
		st = &bucketState{remaining: cfg.Capacity - 1, reset: now.Add(cfg.Window)}
		l.state[key] = st
		return true, st.remaining, cfg.Capacity, st.reset, nil
	}

	if st.remaining <= 0 {
		return false, 0, cfg.Capacity, st.reset, nil
	}

	st.remaining--
	return true, st.remaining, cfg.Capacity, st.reset, nil
}

// Package kv implements the Redis-backed atomic counters that back the
// rate limiter, the idempotency store, and the credit ledger. Every
// compound check-then-mutate operation is expressed as a single Lua
// script so the round trip to Redis is atomic, per the token-bucket
// pattern this package is adapted from.
package kv

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restorehq/control-plane/internal/domain"
)

// BucketConfig describes a fixed-window bucket's capacity and window size
// (spec §4.4: "token bucket with fixed window size").
type BucketConfig struct {
	Capacity int64
	Window   time.Duration
}

// NewBucketConfigFromPerMinute builds a bucket that admits perMinute
// requests per fixed one-minute window.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity: int64(perMinute),
		Window:   time.Minute,
	}
}

// RedisLimiter is the canonical rate limiter implementation (spec §4.4).
// It chains two scopes — per-user and per-source-IP — and rejects as soon
// as either bucket is exhausted. On Redis error it falls back to the
// in-process limiter rather than hard-failing the request.
type RedisLimiter struct {
	rdb      *redis.Client
	script   *redis.Script
	buckets  map[string]BucketConfig
	fallback *InProcessLimiter
}

// NewRedisLimiter constructs a limiter bound to the given per-scope buckets.
// scope keys are e.g. "user", "ip".
func NewRedisLimiter(rdb *redis.Client, buckets map[string]BucketConfig) *RedisLimiter {
	return &RedisLimiter{
		rdb:      rdb,
		script:   redis.NewScript(luaFixedWindowScript),
		buckets:  buckets,
		fallback: NewInProcessLimiter(buckets),
	}
}

// luaFixedWindowScript implements spec §4.4's admission rule exactly: read
// {remaining, reset}; if missing or the window has rolled over, reset the
// counter to capacity-1 and set reset := now + window; otherwise deny once
// remaining is exhausted, else decrement. remaining only ever counts down
// within a window (spec §8's monotonic-decrease invariant) — it never climbs
// back up before reset, unlike a continuously-refilling token bucket.
const luaFixedWindowScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "remaining", "reset")
local remaining = tonumber(data[1])
local reset = tonumber(data[2])

if remaining == nil or reset == nil or reset <= now then
  remaining = capacity - 1
  reset = now + window
  redis.call("HMSET", key, "remaining", remaining, "reset", reset)
  redis.call("EXPIRE", key, math.ceil(window) + 1)
  return { 1, remaining, reset, capacity }
end

if remaining <= 0 then
  return { 0, 0, reset, capacity }
end

remaining = remaining - 1
redis.call("HSET", key, "remaining", remaining)
return { 1, remaining, reset, capacity }
`

// Allow implements domain.RateLimiter. scope is a bucket class ("user",
// "ip"); principal is the identifier within that class.
func (l *RedisLimiter) Allow(ctx context.Context, scope, principal string) (bool, int64, int64, time.Time, error) {
	cfg, ok := l.buckets[scope]
	if !ok || cfg.Capacity <= 0 || cfg.Window <= 0 {
		return true, 0, 0, time.Time{}, nil
	}

	now := time.Now()
	nowSec := float64(now.UnixNano()) / 1e9
	windowSec := cfg.Window.Seconds()
	redisKey := "ratelimit:" + scope + ":" + principal

	res, err := l.script.Run(ctx, l.rdb, []string{redisKey}, cfg.Capacity, windowSec, nowSec).Result()
	if err != nil {
		slog.Error("redis rate limiter unavailable, using in-process fallback",
			slog.String("scope", scope), slog.Any("error", err))
		return l.fallback.Allow(ctx, scope, principal)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 4 {
		slog.Error("redis rate limiter unexpected script result", slog.Any("result", res))
		return true, cfg.Capacity, cfg.Capacity, time.Time{}, nil
	}

	allowed := toInt64(vals[0]) == 1
	remaining := toInt64(vals[1])
	resetSec := toFloat64(vals[2])
	resetAt := time.Unix(0, int64(resetSec*float64(time.Second)))
	return allowed, remaining, cfg.Capacity, resetAt, nil
}

var _ domain.RateLimiter = (*RedisLimiter)(nil)

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	default:
		return math.NaN()
	}
}

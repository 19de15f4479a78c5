package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restorehq/control-plane/internal/domain"
)

// RedisIdempotencyStore backs SUBMIT_JOB's replay contract (spec §4.3): the
// first response for a given (owner, Idempotency-Key) is cached verbatim
// for a bounded TTL and replayed on every subsequent identical request.
type RedisIdempotencyStore struct {
	rdb        *redis.Client
	putScript  *redis.Script
}

// NewRedisIdempotencyStore constructs the store.
func NewRedisIdempotencyStore(rdb *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		rdb:       rdb,
		putScript: redis.NewScript(luaIdempotencyPutScript),
	}
}

type storedEntry struct {
	Fingerprint string            `json:"fingerprint"`
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers"`
	Body        []byte            `json:"body"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, ownerID, key string) (domain.IdempotencyEntry, bool, error) {
	raw, err := s.rdb.Get(ctx, redisKeyFor(ownerID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.IdempotencyEntry{}, false, nil
	}
	if err != nil {
		return domain.IdempotencyEntry{}, false, err
	}
	var se storedEntry
	if err := json.Unmarshal(raw, &se); err != nil {
		return domain.IdempotencyEntry{}, false, err
	}
	return domain.IdempotencyEntry{
		Fingerprint: se.Fingerprint,
		Status:      se.Status,
		Headers:     se.Headers,
		Body:        se.Body,
		CreatedAt:   se.CreatedAt,
	}, true, nil
}

// luaIdempotencyPutScript stores the entry only if absent, atomically
// guarding against a concurrent duplicate submission racing the same key.
const luaIdempotencyPutScript = `
local key = KEYS[1]
local value = ARGV[1]
local ttl_seconds = tonumber(ARGV[2])
local existing = redis.call("GET", key)
if existing then
  return existing
end
redis.call("SET", key, value, "EX", ttl_seconds)
return value
`

func (s *RedisIdempotencyStore) PutWithTTL(ctx context.Context, ownerID, key string, e domain.IdempotencyEntry, ttl time.Duration) error {
	se := storedEntry{
		Fingerprint: e.Fingerprint,
		Status:      e.Status,
		Headers:     e.Headers,
		Body:        e.Body,
		CreatedAt:   e.CreatedAt,
	}
	raw, err := json.Marshal(se)
	if err != nil {
		return err
	}
	return s.putScript.Run(ctx, s.rdb, []string{redisKeyFor(ownerID, key)}, raw, int64(ttl.Seconds())).Err()
}

func redisKeyFor(ownerID, key string) string {
	return "idempotency:" + ownerID + ":" + key
}

var _ domain.IdempotencyStore = (*RedisIdempotencyStore)(nil)

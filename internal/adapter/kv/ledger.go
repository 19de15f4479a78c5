package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restorehq/control-plane/internal/domain"
)

// RedisCreditLedger implements the atomic check-and-deduct / refund
// contract (spec §3, §4.2). Both operations are single Lua scripts so a
// concurrent submission or a concurrent refund cannot race the same
// counter, resolving the non-atomic-compound-refund open question as one
// round trip rather than a read-then-write pair.
type RedisCreditLedger struct {
	rdb            *redis.Client
	deductScript   *redis.Script
	refundScript   *redis.Script
	freeDailyLimit int64
	debitMarkerTTL time.Duration
}

// NewRedisCreditLedger constructs the ledger adapter.
func NewRedisCreditLedger(rdb *redis.Client, freeDailyLimit int64) *RedisCreditLedger {
	return &RedisCreditLedger{
		rdb:            rdb,
		deductScript:   redis.NewScript(luaCheckAndDeductScript),
		refundScript:   redis.NewScript(luaRefundScript),
		freeDailyLimit: freeDailyLimit,
		debitMarkerTTL: 30 * 24 * time.Hour,
	}
}

// luaCheckAndDeductScript rolls the free-tier daily counter forward when the
// stored day differs from today, then prefers the free allotment over the
// paid balance. It records a one-shot debit marker so Refund can reverse
// exactly this debit, exactly once.
const luaCheckAndDeductScript = `
local credits_key = KEYS[1]
local marker_key = KEYS[2]
local today = ARGV[1]
local free_limit = tonumber(ARGV[2])
local amount = tonumber(ARGV[3])
local marker_ttl = tonumber(ARGV[4])

local data = redis.call("HMGET", credits_key, "free_day", "free_counter", "paid_balance")
local free_day = data[1]
local free_counter = tonumber(data[2]) or 0
local paid_balance = tonumber(data[3]) or 0

if free_day ~= today then
  free_day = today
  free_counter = 0
end

local allowed = 0
local kind = ""

if free_counter + amount <= free_limit then
  free_counter = free_counter + amount
  kind = "free"
  allowed = 1
elseif paid_balance >= amount then
  paid_balance = paid_balance - amount
  kind = "paid"
  allowed = 1
end

if allowed == 1 then
  redis.call("HMSET", credits_key, "free_day", free_day, "free_counter", free_counter, "paid_balance", paid_balance)
  redis.call("SET", marker_key, kind .. "|" .. free_day, "EX", marker_ttl)
end

local remaining = free_limit - free_counter
if kind == "paid" then
  remaining = paid_balance
end

return { allowed, kind, remaining }
`

func (l *RedisCreditLedger) CheckAndDeduct(ctx context.Context, ownerID string, amount int64, jobID string) (bool, domain.CreditKind, int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	res, err := l.deductScript.Run(ctx, l.rdb,
		[]string{creditsKey(ownerID), debitMarkerKey(jobID)},
		today, l.freeDailyLimit, amount, int64(l.debitMarkerTTL.Seconds()),
	).Result()
	if err != nil {
		return false, "", 0, err
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) < 3 {
		return false, "", 0, errors.New("kv: unexpected check_and_deduct result shape")
	}
	allowed := toInt64(vals[0]) == 1
	kindStr, _ := vals[1].(string)
	remaining := toInt64(vals[2])
	if !allowed {
		return false, "", remaining, nil
	}
	return true, domain.CreditKind(kindStr), remaining, nil
}

// luaRefundScript reverses exactly one debit. A free-tier debit is reversed
// by decrementing the free counter only if the stored day still matches the
// debit's day; if the free day has since rolled over, the original counter
// no longer reflects that debit, so the refund is credited to the paid
// balance instead (documented trade-off: the owner is made whole in
// aggregate credits, not necessarily in the same bucket they were debited
// from).
const luaRefundScript = `
local credits_key = KEYS[1]
local marker_key = KEYS[2]
local amount = tonumber(ARGV[1])

local marker = redis.call("GET", marker_key)
if not marker or marker == "refunded" then
  return 0
end

local sep = string.find(marker, "|")
local kind = marker
local debit_day = nil
if sep then
  kind = string.sub(marker, 1, sep - 1)
  debit_day = string.sub(marker, sep + 1)
end

local data = redis.call("HMGET", credits_key, "free_day", "free_counter", "paid_balance")
local free_day = data[1]
local free_counter = tonumber(data[2]) or 0
local paid_balance = tonumber(data[3]) or 0

if kind == "free" and debit_day == free_day then
  free_counter = free_counter - amount
  if free_counter < 0 then free_counter = 0 end
  redis.call("HSET", credits_key, "free_counter", free_counter)
else
  paid_balance = paid_balance + amount
  redis.call("HSET", credits_key, "paid_balance", paid_balance)
end

redis.call("SET", marker_key, "refunded", "KEEPTTL")
return 1
`

func (l *RedisCreditLedger) Refund(ctx context.Context, ownerID, jobID string, amount int64, reason string) error {
	res, err := l.refundScript.Run(ctx, l.rdb,
		[]string{creditsKey(ownerID), debitMarkerKey(jobID)},
		amount,
	).Result()
	if err != nil {
		return err
	}
	if toInt64(res) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func creditsKey(ownerID string) string      { return "credits:" + ownerID }
func debitMarkerKey(jobID string) string    { return "debit:" + jobID }

var _ domain.CreditLedger = (*RedisCreditLedger)(nil)

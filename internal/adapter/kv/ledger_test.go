package kv_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/restorehq/control-plane/internal/adapter/kv"
	"github.com/restorehq/control-plane/internal/domain"
)

func newTestCreditLedger(t *testing.T, freeDailyLimit int64) (*kv.RedisCreditLedger, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ledger := kv.NewRedisCreditLedger(rdb, freeDailyLimit)
	return ledger, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func TestRedisCreditLedger_FreeTierThenExhausted(t *testing.T) {
	ledger, cleanup := newTestCreditLedger(t, 2)
	defer cleanup()
	ctx := context.Background()

	allowed, kind, remaining, err := ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-1")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, domain.CreditFree, kind)
	assert.Equal(t, int64(1), remaining)

	allowed, kind, remaining, err = ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-2")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, domain.CreditFree, kind)
	assert.Equal(t, int64(0), remaining)

	allowed, _, _, err = ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-3")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisCreditLedger_RefundReversesDebit(t *testing.T) {
	ledger, cleanup := newTestCreditLedger(t, 1)
	defer cleanup()
	ctx := context.Background()

	allowed, _, _, err := ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-1")
	assert.NoError(t, err)
	assert.True(t, allowed)

	assert.NoError(t, ledger.Refund(ctx, "owner-1", "job-1", 1, "provider failure"))

	allowed, kind, remaining, err := ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-2")
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, domain.CreditFree, kind)
	assert.Equal(t, int64(0), remaining)
}

func TestRedisCreditLedger_RefundWithoutDebitIsNotFound(t *testing.T) {
	ledger, cleanup := newTestCreditLedger(t, 3)
	defer cleanup()

	err := ledger.Refund(context.Background(), "owner-1", "never-debited", 1, "n/a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisCreditLedger_RefundIsOneShot(t *testing.T) {
	ledger, cleanup := newTestCreditLedger(t, 1)
	defer cleanup()
	ctx := context.Background()

	_, _, _, err := ledger.CheckAndDeduct(ctx, "owner-1", 1, "job-1")
	assert.NoError(t, err)

	assert.NoError(t, ledger.Refund(ctx, "owner-1", "job-1", 1, "first refund"))
	err = ledger.Refund(ctx, "owner-1", "job-1", 1, "second refund attempt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

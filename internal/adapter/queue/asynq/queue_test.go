package asynqadp_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	asynqadp "github.com/restorehq/control-plane/internal/adapter/queue/asynq"
	"github.com/restorehq/control-plane/internal/domain"
)

func newTestQueue(t *testing.T, defaultMaxRetry int) (*asynqadp.Queue, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	q, err := asynqadp.New("redis://"+mr.Addr(), defaultMaxRetry)
	require.NoError(t, err)
	return q, mr.Close
}

func TestQueue_Enqueue_ReturnsTaskID(t *testing.T) {
	q, cleanup := newTestQueue(t, 5)
	defer cleanup()

	id, err := q.Enqueue(context.Background(), domain.RestoreTaskPayload{JobID: "job-1", OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
}

func TestQueue_EnqueueWithOptions_HighPriority(t *testing.T) {
	q, cleanup := newTestQueue(t, 5)
	defer cleanup()

	id, err := q.EnqueueWithOptions(context.Background(),
		domain.RestoreTaskPayload{JobID: "job-2", OwnerID: "owner-1"},
		domain.EnqueueOptions{MaxAttempts: 1, Priority: "high"},
	)
	require.NoError(t, err)
	assert.Equal(t, "job-2", id)
}

func TestNew_InvalidRedisURL(t *testing.T) {
	_, err := asynqadp.New("not-a-redis-url", 3)
	assert.Error(t, err)
}

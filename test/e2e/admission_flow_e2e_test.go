//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/adapter/kv"
	"github.com/restorehq/control-plane/internal/adapter/repo/postgres"
	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/domain/mocks"
	"github.com/restorehq/control-plane/internal/usecase"
)

func sampleJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// TestE2E_SubmitJob_PersistsAcrossRealStorage drives SUBMIT_JOB and GET_JOB
// against real Postgres and Redis instances, with only the outbound
// collaborators (blob storage, moderation, the task queue) mocked — those
// are exercised by their own adapter-level tests against httptest/presigned
// URLs and don't need a container here.
func TestE2E_SubmitJob_PersistsAcrossRealStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	pgContainer, dsn := startPostgres(t)
	defer terminate(t, pgContainer)
	redisContainer, redisURL := startRedis(t)
	defer terminate(t, redisContainer)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, postgres.Migrate(ctx, dsn))

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	redisOpt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()

	jobs := postgres.NewJobRepo(pool)
	ledger := postgres.NewLedgerRepo(pool)
	idempotency := kv.NewRedisIdempotencyStore(rdb)
	credits := kv.NewRedisCreditLedger(rdb, 3)

	blob := mocks.NewBlobStore()
	blob.EXPECT().Upload(mock.Anything, "owner-1", mock.AnythingOfType("string"), mock.Anything, "image/jpeg").Return(nil)
	blob.EXPECT().IssueDownloadURL(mock.Anything, "owner-1", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return("https://blob.example/owner-1/result.jpg", time.Now().Add(15*time.Minute), nil)
	moderator := mocks.NewModerator()
	moderator.EXPECT().Moderate(mock.Anything, mock.Anything, mock.Anything).Return(domain.ModerationVerdict{Allowed: true}, nil)
	queue := mocks.NewQueue()
	queue.EXPECT().Enqueue(mock.Anything, mock.Anything).Return("queued-task-1", nil)

	admission := &usecase.AdmissionService{
		Jobs: jobs, Blob: blob, Moderator: moderator, Queue: queue,
		Credits: credits, Ledger: ledger, Idempotency: idempotency,
		IdempotencyTTL: time.Hour, CreditsPerJob: 1,
	}
	status := &usecase.StatusService{Jobs: jobs, Blob: blob}

	result, err := admission.Submit(ctx, usecase.SubmitRequest{
		OwnerID: "owner-1", IdempotencyKey: "11111111111111111111111111111111",
		Method: "POST", Path: "/v1/jobs", Prompt: "restore this old photo",
		InlineImage: sampleJPEG(t),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, result.Status)
	assert.False(t, result.Replay)

	projection, err := status.Project(ctx, "owner-1", result.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, projection.Status)
	assert.Equal(t, "restore this old photo", projection.Prompt)

	require.NoError(t, jobs.MarkSucceeded(ctx, result.JobID,
		domain.Timings{TotalMS: 1200}, result.JobID+".restored.jpg", "restore this old photo, deoldified",
		map[string]float64{"noise": 0.4}, domain.ProviderMetadata{RequestID: "req-1"}))

	projection, err = status.Project(ctx, "owner-1", result.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobSucceeded, projection.Status)
	assert.NotEmpty(t, projection.DownloadURL)
}

// TestE2E_SubmitJob_ReplaysOnRepeatedIdempotencyKey exercises the
// idempotent-resubmission path (spec §4.1 step 7): the same key and
// fingerprint must short-circuit to a replay rather than creating a
// second job or debiting credits twice.
func TestE2E_SubmitJob_ReplaysOnRepeatedIdempotencyKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	pgContainer, dsn := startPostgres(t)
	defer terminate(t, pgContainer)
	redisContainer, redisURL := startRedis(t)
	defer terminate(t, redisContainer)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, postgres.Migrate(ctx, dsn))

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	redisOpt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()

	jobs := postgres.NewJobRepo(pool)
	ledger := postgres.NewLedgerRepo(pool)
	idempotency := kv.NewRedisIdempotencyStore(rdb)
	credits := kv.NewRedisCreditLedger(rdb, 3)

	blob := mocks.NewBlobStore()
	blob.EXPECT().Upload(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	moderator := mocks.NewModerator()
	moderator.EXPECT().Moderate(mock.Anything, mock.Anything, mock.Anything).Return(domain.ModerationVerdict{Allowed: true}, nil)
	queue := mocks.NewQueue()
	queue.EXPECT().Enqueue(mock.Anything, mock.Anything).Return("queued-task-1", nil).Once()

	admission := &usecase.AdmissionService{
		Jobs: jobs, Blob: blob, Moderator: moderator, Queue: queue,
		Credits: credits, Ledger: ledger, Idempotency: idempotency,
		IdempotencyTTL: time.Hour, CreditsPerJob: 1,
	}

	req := usecase.SubmitRequest{
		OwnerID: "owner-2", IdempotencyKey: "22222222222222222222222222222222",
		Method: "POST", Path: "/v1/jobs", Prompt: "fix the scratches",
		InlineImage: sampleJPEG(t),
	}

	first, err := admission.Submit(ctx, req)
	require.NoError(t, err)

	_, err = admission.Submit(ctx, req)
	entry, isReplay := usecase.AsReplay(err)
	require.True(t, isReplay, "second submission with the same idempotency key should replay, got err=%v", err)
	assert.Equal(t, 202, entry.Status)
	assert.Contains(t, string(entry.Body), first.JobID)

	blob.AssertExpectations(t)
	queue.AssertExpectations(t)
}

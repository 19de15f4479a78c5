//go:build e2e

package e2e_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	asynqadp "github.com/restorehq/control-plane/internal/adapter/queue/asynq"
	"github.com/restorehq/control-plane/internal/adapter/repo/postgres"
	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/domain/mocks"
	"github.com/restorehq/control-plane/internal/worker"
)

type fakeClassifier struct{}

func (fakeClassifier) Classify(image []byte) (map[string]float64, error) {
	return map[string]float64{"noise": 0.2}, nil
}

type fakeEnhancer struct{}

func (fakeEnhancer) Enhance(classification map[string]float64, userPrompt string) string {
	return "restore: " + userPrompt
}

// TestE2E_WorkerProcessesEnqueuedTask drives a task from a real asynq
// Queue through a real asynq Server into the restoration pipeline, with
// the job record held in a real Postgres instance; only the blob and
// provider collaborators are mocked (already covered at the adapter
// level in internal/adapter/blob and internal/adapter/provider).
func TestE2E_WorkerProcessesEnqueuedTask(t *testing.T) {
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

	jobs := postgres.NewJobRepo(pool)
	deadLetters := postgres.NewDeadLetterRepo(pool)

	jobID, err := jobs.Create(ctx, domain.Job{
		ID: "worker-e2e-job", OwnerID: "owner-3", Status: domain.JobQueued,
		Prompt: "bring back the colors",
		Debit:  domain.CreditDebit{Amount: 1, Kind: domain.CreditFree},
	})
	require.NoError(t, err)

	blob := mocks.NewBlobStore()
	blob.EXPECT().Download(mock.Anything, "owner-3", "worker-e2e-job.src").Return([]byte("source-bytes"), nil).Maybe()
	blob.EXPECT().Upload(mock.Anything, "owner-3", "worker-e2e-job.src.restored", mock.Anything, "image/jpeg").Return(nil).Maybe()

	provider := mocks.NewProvider()
	provider.EXPECT().Restore(mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("restored-bytes"), domain.ProviderMetadata{RequestID: "req-e2e"}, nil).Maybe()

	pipeline := &worker.Pipeline{
		Jobs: jobs, Blob: blob, Provider: provider,
		Classifier: fakeClassifier{}, Enhancer: fakeEnhancer{},
	}
	credits := mocks.NewCreditLedger()

	queue, err := asynqadp.New(redisURL, 3)
	require.NoError(t, err)

	srv, err := asynqadp.NewServer(asynqadp.ServerConfig{
		RedisURL: redisURL, Concurrency: 2,
		MinBackoff: 10 * time.Millisecond, MaxBackoff: 100 * time.Millisecond,
	}, pipeline, deadLetters, credits, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	defer srv.Shutdown()

	_, err = queue.Enqueue(ctx, domain.RestoreTaskPayload{
		JobID: jobID, OwnerID: "owner-3", Prompt: "bring back the colors", ObjectName: "worker-e2e-job.src",
		Debit: domain.CreditDebit{Amount: 1, Kind: domain.CreditFree},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		job, err := jobs.Get(ctx, "owner-3", jobID)
		return err == nil && job.Status == domain.JobSucceeded
	}, 10*time.Second, 100*time.Millisecond, "worker should process the task to completion")

	job, err := jobs.Get(ctx, "owner-3", jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobSucceeded, job.Status)
}

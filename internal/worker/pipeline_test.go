package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/restorehq/control-plane/internal/domain"
	domainmocks "github.com/restorehq/control-plane/internal/domain/mocks"
	"github.com/restorehq/control-plane/internal/worker"
)

type stubClassifier struct {
	result map[string]float64
	err    error
}

func (s stubClassifier) Classify(image []byte) (map[string]float64, error) { return s.result, s.err }

type stubEnhancer struct{ prompt string }

func (s stubEnhancer) Enhance(classification map[string]float64, userPrompt string) string {
	return s.prompt
}

func TestPipeline_Process_Success(t *testing.T) {
	jobs := domainmocks.NewJobRepository()
	blob := domainmocks.NewBlobStore()
	provider := domainmocks.NewProvider()

	payload := domain.RestoreTaskPayload{JobID: "job-1", OwnerID: "owner-1", ObjectName: "job-1.jpg", Prompt: "restore"}

	jobs.EXPECT().MarkRunning(mock.Anything, "job-1", 1).Return(nil)
	blob.EXPECT().Download(mock.Anything, "owner-1", "job-1.jpg").Return([]byte("source-bytes"), nil)
	provider.EXPECT().Restore(mock.Anything, "enhanced prompt", []byte("source-bytes")).
		Return([]byte("restored-bytes"), domain.ProviderMetadata{BilledUnits: 1}, nil)
	blob.EXPECT().Upload(mock.Anything, "owner-1", "job-1.jpg.restored", []byte("restored-bytes"), "image/jpeg").Return(nil)
	jobs.EXPECT().MarkSucceeded(mock.Anything, "job-1", mock.Anything, "job-1.jpg.restored", "enhanced prompt", mock.Anything, mock.Anything).Return(nil)

	p := &worker.Pipeline{
		Jobs: jobs, Blob: blob, Provider: provider,
		Classifier: stubClassifier{result: map[string]float64{"blur": 0.1}},
		Enhancer:   stubEnhancer{prompt: "enhanced prompt"},
	}

	err := p.Process(context.Background(), payload, 1)
	assert.NoError(t, err)
}

func TestPipeline_Process_ClassifyErrorNeverMarksFailed(t *testing.T) {
	jobs := domainmocks.NewJobRepository()
	blob := domainmocks.NewBlobStore()
	provider := domainmocks.NewProvider()

	payload := domain.RestoreTaskPayload{JobID: "job-1", OwnerID: "owner-1", ObjectName: "job-1.jpg"}

	jobs.EXPECT().MarkRunning(mock.Anything, "job-1", 1).Return(nil)
	blob.EXPECT().Download(mock.Anything, "owner-1", "job-1.jpg").Return([]byte("source-bytes"), nil)

	p := &worker.Pipeline{
		Jobs: jobs, Blob: blob, Provider: provider,
		Classifier: stubClassifier{err: errors.New("decode failure")},
		Enhancer:   stubEnhancer{},
	}

	err := p.Process(context.Background(), payload, 1)
	assert.Error(t, err)
	jobs.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	jobs.AssertNotCalled(t, "MarkSucceeded", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_Process_ProviderErrorPropagates(t *testing.T) {
	jobs := domainmocks.NewJobRepository()
	blob := domainmocks.NewBlobStore()
	provider := domainmocks.NewProvider()

	payload := domain.RestoreTaskPayload{JobID: "job-1", OwnerID: "owner-1", ObjectName: "job-1.jpg"}

	jobs.EXPECT().MarkRunning(mock.Anything, "job-1", 2).Return(nil)
	blob.EXPECT().Download(mock.Anything, "owner-1", "job-1.jpg").Return([]byte("source-bytes"), nil)
	provider.EXPECT().Restore(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ProviderMetadata{}, errors.New("provider unavailable"))

	p := &worker.Pipeline{
		Jobs: jobs, Blob: blob, Provider: provider,
		Classifier: stubClassifier{result: map[string]float64{}},
		Enhancer:   stubEnhancer{},
	}

	err := p.Process(context.Background(), payload, 2)
	assert.Error(t, err)
}

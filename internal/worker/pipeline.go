// Package worker implements the restoration pipeline: classify the
// degradation present in the source image, compose an enhanced prompt,
// call the generative provider, and persist the result. Each stage is
// timed independently (spec §4.7) and the pipeline is driven by whichever
// queue adapter dequeues a domain.RestoreTaskPayload.
package worker

import (
	"fmt"
	"time"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/observability"
)

// Pipeline processes a single restoration task end to end. Moderation runs
// once at admission time (internal/usecase), not per worker attempt, so it
// has no field here.
type Pipeline struct {
	Jobs       domain.JobRepository
	Blob       domain.BlobStore
	Provider   domain.Provider
	Classifier Classifier
	Enhancer   PromptEnhancer
}

// Classifier scores an image's degradation characteristics (spec §4.7.1).
type Classifier interface {
	Classify(image []byte) (map[string]float64, error)
}

// PromptEnhancer composes a bounded-length restoration instruction from the
// classification and the caller-supplied prompt (spec §4.7.2).
type PromptEnhancer interface {
	Enhance(classification map[string]float64, userPrompt string) string
}

// Process runs one restoration task. A returned error is always retryable
// by the caller's queue adapter; Process never marks the job failed itself,
// since only the caller knows whether this was the task's final attempt.
func (p *Pipeline) Process(ctx domain.Context, payload domain.RestoreTaskPayload, attempt int) error {
	start := time.Now()
	if err := p.Jobs.MarkRunning(ctx, payload.JobID, attempt); err != nil {
		return fmt.Errorf("op=pipeline.mark_running: %w", err)
	}
	observability.JobsProcessing.Inc()
	defer observability.JobsProcessing.Dec()

	image, err := p.Blob.Download(ctx, payload.OwnerID, payload.ObjectName)
	if err != nil {
		return fmt.Errorf("op=pipeline.download: %w", err)
	}

	classifyStart := time.Now()
	classification, err := p.Classifier.Classify(image)
	if err != nil {
		return fmt.Errorf("op=pipeline.classify: %w", err)
	}
	classifyMS := time.Since(classifyStart).Milliseconds()
	observability.RecordJobStage("classify", time.Since(classifyStart))

	promptStart := time.Now()
	enhancedPrompt := p.Enhancer.Enhance(classification, payload.Prompt)
	promptMS := time.Since(promptStart).Milliseconds()
	observability.RecordJobStage("prompt", time.Since(promptStart))

	restoreStart := time.Now()
	restored, meta, err := p.Provider.Restore(ctx, enhancedPrompt, image)
	if err != nil {
		observability.RecordProviderCall("restore", "error", time.Since(restoreStart))
		return fmt.Errorf("op=pipeline.restore: %w", err)
	}
	observability.RecordProviderCall("restore", "ok", time.Since(restoreStart))
	restoreMS := time.Since(restoreStart).Milliseconds()

	resultObjectName := payload.ObjectName + ".restored"
	if err := p.Blob.Upload(ctx, payload.OwnerID, resultObjectName, restored, "image/jpeg"); err != nil {
		return fmt.Errorf("op=pipeline.upload_result: %w", err)
	}

	timings := domain.Timings{
		ClassifyMS: classifyMS,
		PromptMS:   promptMS,
		RestoreMS:  restoreMS,
		TotalMS:    time.Since(start).Milliseconds(),
	}
	if err := p.Jobs.MarkSucceeded(ctx, payload.JobID, timings, resultObjectName, enhancedPrompt, classification, meta); err != nil {
		return fmt.Errorf("op=pipeline.mark_succeeded: %w", err)
	}
	observability.JobsCompletedTotal.Inc()
	observability.ProviderBilledUnits.WithLabelValues("default").Add(float64(meta.BilledUnits))
	return nil
}

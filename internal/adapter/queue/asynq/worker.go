package asynqadp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hibiken/asynq"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/observability"
	"github.com/restorehq/control-plane/internal/worker"
)

// Server runs the restoration pipeline against tasks dequeued from asynq.
// Stalled-task recovery and per-task lease expiry are handled internally by
// asynq (no hand-rolled visibility-timeout scanner); this adapter only
// supplies the retry-delay shape and the terminal-failure bridge into the
// Postgres dead-letter archive.
type Server struct {
	srv         *asynq.Server
	pipeline    *worker.Pipeline
	deadLetters domain.DeadLetterRepository
	credits     domain.CreditLedger
	logger      *slog.Logger
}

// ServerConfig configures queue concurrency and retry/backoff bounds.
type ServerConfig struct {
	RedisURL    string
	Concurrency int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// NewServer constructs a Server bound to the given Redis instance.
func NewServer(cfg ServerConfig, pipeline *worker.Pipeline, deadLetters domain.DeadLetterRepository, credits domain.CreditLedger, logger *slog.Logger) (*Server, error) {
	opt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("op=worker.new_server: %w", err)
	}
	s := &Server{pipeline: pipeline, deadLetters: deadLetters, credits: credits, logger: logger}
	s.srv = asynq.NewServer(opt, asynq.Config{
		Concurrency:    cfg.Concurrency,
		Queues:         map[string]int{"high": 6, "default": 3},
		RetryDelayFunc: jitteredBackoff(cfg.MinBackoff, cfg.MaxBackoff),
		ErrorHandler:   asynq.ErrorHandlerFunc(s.handleError),
	})
	return s, nil
}

// Run blocks serving tasks until the process receives a shutdown signal
// (asynq installs its own SIGINT/SIGTERM handling via Run).
func (s *Server) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRestore, s.handleRestore)
	return s.srv.Run(mux)
}

// Shutdown stops accepting new tasks and waits for in-flight ones to drain.
func (s *Server) Shutdown() { s.srv.Shutdown() }

func (s *Server) handleRestore(ctx domain.Context, t *asynq.Task) error {
	var payload domain.RestoreTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A malformed payload can never succeed on retry; returning
		// asynq.SkipRetry lets asynq archive it immediately instead of
		// burning the full retry budget on a task that will never parse.
		return fmt.Errorf("op=worker.unmarshal_payload: %v: %w", err, asynq.SkipRetry)
	}

	retried, _ := asynq.GetRetryCount(ctx)
	attempt := retried + 1

	err := s.pipeline.Process(ctx, payload, attempt)
	if err == nil {
		return nil
	}

	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried < maxRetry {
		// Attempts remain: let asynq redeliver with its own lease/backoff.
		return err
	}
	return s.archiveFinalFailure(ctx, payload, attempt, err)
}

// archiveFinalFailure runs once a task has exhausted its retry budget: it
// records the failure on the job, refunds the owner's debit, and writes a
// dead-letter entry for operator replay (spec §4.6, §4.7 step 9). Returning
// nil here (rather than the original error) keeps asynq from separately
// archiving the task, since terminal bookkeeping is already durable in
// Postgres at this point.
func (s *Server) archiveFinalFailure(ctx domain.Context, payload domain.RestoreTaskPayload, attempts int, cause error) error {
	errRec := domain.ErrorRecord{Kind: "pipeline_failure", Message: cause.Error()}

	if err := s.credits.Refund(ctx, payload.OwnerID, payload.JobID, payload.Debit.Amount, "job_failed"); err != nil {
		s.logger.Error("refund on terminal failure did not complete", "job_id", payload.JobID, "err", err)
	} else {
		observability.CreditRefundsTotal.Inc()
	}

	entry := domain.DeadLetterEntry{
		JobID:    payload.JobID,
		OwnerID:  payload.OwnerID,
		Payload:  payload,
		Failure:  errRec,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	if err := s.deadLetters.Put(ctx, entry); err != nil {
		s.logger.Error("failed to archive dead letter", "job_id", payload.JobID, "err", err)
		return fmt.Errorf("op=worker.archive_dead_letter: %w", err)
	}
	observability.DeadLetterTotal.Inc()

	// MarkFailed guards against overwriting an already-terminal status
	// (e.g. a concurrent replay that already succeeded); a conflict here
	// is expected and not itself a processing error.
	if err := s.pipeline.Jobs.MarkFailed(ctx, payload.JobID, errRec); err != nil {
		s.logger.Error("failed to mark job failed", "job_id", payload.JobID, "err", err)
	}
	observability.JobsFailedTotal.Inc()
	return nil
}

// handleError logs every failed attempt, transient or final; terminal
// bookkeeping itself happens in archiveFinalFailure, not here.
func (s *Server) handleError(ctx domain.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	s.logger.Warn("restoration task attempt failed",
		"task_type", task.Type(),
		"attempt", retried+1,
		"max_attempts", maxRetry+1,
		"err", err,
	)
}

// jitteredBackoff returns an asynq.RetryDelayFunc computing an exponential
// delay bounded by [min, max] with +/-30% jitter, matching the jitter
// fraction spec §4.7 specifies for provider-call retries.
func jitteredBackoff(min, max time.Duration) asynq.RetryDelayFunc {
	return func(n int, err error, task *asynq.Task) time.Duration {
		base := float64(min) * math.Pow(2, float64(n))
		jitter := 1 + (rand.Float64()*0.6 - 0.3) // [0.7, 1.3]
		delay := base * jitter
		if delay >= float64(max) {
			return max
		}
		d := time.Duration(delay)
		if d < min {
			d = min
		}
		return d
	}
}

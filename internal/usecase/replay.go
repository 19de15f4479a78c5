package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/restorehq/control-plane/internal/domain"
)

// ReplayService implements the dead-letter replay operation (spec §4.6),
// driven by cmd/jobsctl.
type ReplayService struct {
	Jobs        domain.JobRepository
	DeadLetters domain.DeadLetterRepository
	Ledger      domain.LedgerRepository
	Queue       domain.Queue
}

// ErrAlreadySucceeded is returned when replay is attempted against a job
// that already reached its succeeded terminal state.
var ErrAlreadySucceeded = errors.New("job already succeeded")

// Replay re-enqueues a dead-lettered job (spec §4.6 Replay operation).
// Credits are never re-debited here: a refund already returned them to the
// user, who must resubmit if they want to pay for a fresh attempt; this
// call only gives the original task another shot at the provider.
func (s *ReplayService) Replay(ctx domain.Context, deadLetterID, operatorID, reason string, opts domain.EnqueueOptions) error {
	entry, err := s.DeadLetters.Get(ctx, deadLetterID)
	if err != nil {
		return fmt.Errorf("op=replay.get_dead_letter: %w", err)
	}

	job, err := s.Jobs.GetAny(ctx, entry.JobID)
	if err != nil {
		return fmt.Errorf("op=replay.get_job: %w", err)
	}
	if job.Status == domain.JobSucceeded {
		return fmt.Errorf("op=replay: %w", ErrAlreadySucceeded)
	}

	refunded, err := s.Ledger.RefundExists(ctx, entry.JobID)
	if err != nil {
		return fmt.Errorf("op=replay.check_refund: %w", err)
	}

	payload := entry.Payload
	payload.ReplayOf = &domain.ReplayMarker{
		OriginalJobID:    entry.JobID,
		DeadLetterID:     entry.ID,
		PreviousAttempts: entry.Attempts,
		Reason:           reason,
	}

	if _, err := s.Queue.EnqueueWithOptions(ctx, payload, opts); err != nil {
		return fmt.Errorf("op=replay.enqueue: %w", err)
	}

	if err := s.DeadLetters.Remove(ctx, entry.ID); err != nil {
		return fmt.Errorf("op=replay.remove_dead_letter: %w", err)
	}

	if err := s.DeadLetters.AppendReplayAudit(ctx, domain.ReplayAudit{
		DeadLetterID: entry.ID,
		JobID:        entry.JobID,
		OperatorID:   operatorID,
		Reason:       reason,
		Refunded:     refunded,
		At:           time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("op=replay.audit: %w", err)
	}
	return nil
}

// ReplayAll replays every dead-letter entry currently stored, stopping at
// the first hard error but recording per-entry outcomes so the caller (the
// CLI) can report a full summary rather than aborting silently partway.
func (s *ReplayService) ReplayAll(ctx domain.Context, operatorID string) (succeeded, failed []string, err error) {
	const pageSize = 100
	offset := 0
	for {
		entries, err := s.DeadLetters.List(ctx, offset, pageSize)
		if err != nil {
			return succeeded, failed, fmt.Errorf("op=replay.replay_all.list: %w", err)
		}
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			if replayErr := s.Replay(ctx, e.ID, operatorID, "bulk_replay", domain.EnqueueOptions{}); replayErr != nil {
				failed = append(failed, e.ID)
			} else {
				succeeded = append(succeeded, e.ID)
			}
		}
		if len(entries) < pageSize {
			break
		}
		offset += pageSize
	}
	return succeeded, failed, nil
}

// ReplayUser replays every dead-letter entry owned by ownerID.
func (s *ReplayService) ReplayUser(ctx domain.Context, ownerID, operatorID string) (succeeded, failed []string, err error) {
	entries, err := s.DeadLetters.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("op=replay.replay_user.list: %w", err)
	}
	for _, e := range entries {
		if replayErr := s.Replay(ctx, e.ID, operatorID, "user_replay", domain.EnqueueOptions{}); replayErr != nil {
			failed = append(failed, e.ID)
		} else {
			succeeded = append(succeeded, e.ID)
		}
	}
	return succeeded, failed, nil
}

package usecase

import (
	"fmt"
	"time"

	"github.com/restorehq/control-plane/internal/domain"
)

// StatusService implements GET_JOB's point lookup (spec §4.8). STREAM_JOB's
// polling loop lives in internal/adapter/httpserver, which calls Project
// repeatedly; this keeps the projection rule itself in one place shared by
// both operations.
type StatusService struct {
	Jobs domain.JobRepository
	Blob domain.BlobStore
}

// Project loads a job scoped to its owner and builds the externally visible
// view, minting a fresh download URL only when the job has succeeded (spec
// §4.8). Foreign or missing jobs both surface as domain.ErrNotFound so a
// caller cannot distinguish "not yours" from "doesn't exist".
func (s *StatusService) Project(ctx domain.Context, ownerID, jobID string) (domain.Projection, error) {
	job, err := s.Jobs.Get(ctx, ownerID, jobID)
	if err != nil {
		return domain.Projection{}, fmt.Errorf("op=status.project: %w", err)
	}
	return s.toProjection(ctx, job)
}

func (s *StatusService) toProjection(ctx domain.Context, job domain.Job) (domain.Projection, error) {
	p := domain.Projection{
		ID:        job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
		Credit:    job.Debit,
		Prompt:    job.Prompt,
		Error:     job.Error,
	}
	if job.Status.IsTerminal() {
		p.Timings = &job.Timings
	}
	mod := job.Moderation
	p.Moderation = &mod
	if job.Status == domain.JobSucceeded && job.ResultObjectName != "" {
		url, expiresAt, err := s.Blob.IssueDownloadURL(ctx, job.OwnerID, job.ResultObjectName, job.ID+".jpg")
		if err != nil {
			return domain.Projection{}, fmt.Errorf("op=status.project.download_url: %w", err)
		}
		p.DownloadURL = url
		exp := expiresAt
		p.ExpiresAt = &exp
	}
	return p, nil
}

// Changed reports whether b is a meaningfully different projection from a,
// used by STREAM_JOB's polling loop to decide whether to emit a new event
// (spec §4.8 "emits one status event per observed record change").
func Changed(a, b domain.Projection) bool {
	if a.Status != b.Status {
		return true
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return true
	}
	return false
}

// PollInterval is the default STREAM_JOB polling cadence; short enough that
// the observed latency to a status change stays well under the heartbeat
// interval, long enough not to hammer Postgres per open connection.
const PollInterval = 1500 * time.Millisecond

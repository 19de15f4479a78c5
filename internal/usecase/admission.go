// Package usecase orchestrates the control plane's business operations —
// admission, status projection, and dead-letter replay — against the domain
// ports. It holds no transport or storage concerns of its own; those live
// in internal/adapter and internal/worker.
package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/imaging"
	"github.com/restorehq/control-plane/internal/observability"
)

const maxInlineImageBytes = 10 << 20 // 10 MiB, spec §4.1 step 4

var idempotencyKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AdmissionService implements ISSUE_UPLOAD_TARGET and SUBMIT_JOB (spec §4.1).
type AdmissionService struct {
	Jobs         domain.JobRepository
	Blob         domain.BlobStore
	Moderator    domain.Moderator
	Queue        domain.Queue
	Credits      domain.CreditLedger
	Ledger       domain.LedgerRepository
	Idempotency  domain.IdempotencyStore
	IdempotencyTTL time.Duration
	CreditsPerJob  int64
}

// UploadTarget is the ISSUE_UPLOAD_TARGET result.
type UploadTarget struct {
	URL        string
	ObjectName string
	ExpiresAt  time.Time
}

// IssueUploadTarget validates the declared content type and mints a
// presigned upload URL (spec §4.1 ISSUE_UPLOAD_TARGET).
func (s *AdmissionService) IssueUploadTarget(ctx domain.Context, ownerID, contentType string) (UploadTarget, error) {
	if !allowedImageMIMEs[contentType] {
		return UploadTarget{}, fmt.Errorf("op=admission.issue_upload_target: %w: %s", domain.ErrUnsupportedMedia, contentType)
	}
	url, objectName, expiresAt, err := s.Blob.IssueUploadURL(ctx, ownerID, contentType)
	if err != nil {
		return UploadTarget{}, fmt.Errorf("op=admission.issue_upload_target: %w", err)
	}
	return UploadTarget{URL: url, ObjectName: objectName, ExpiresAt: expiresAt}, nil
}

// SubmitRequest carries either an inline image buffer or a reference to a
// previously uploaded blob object, never both (spec §4.1 step 4).
type SubmitRequest struct {
	OwnerID        string
	IdempotencyKey string
	Method         string
	Path           string
	Prompt         string
	InlineImage    []byte
	ObjectName     string
	Traceparent    string
	Tracestate     string
}

// SubmitResult is what the handler serializes as the 202 body (spec §4.1).
type SubmitResult struct {
	JobID  string
	Status domain.JobStatus
	Credit domain.CreditDebit
	Replay bool
}

// Submit runs the SUBMIT_JOB admission algorithm (spec §4.1), steps 3–11;
// the caller (internal/adapter/httpserver) has already resolved the owner
// id (step 1) and applied rate limiting (step 2).
func (s *AdmissionService) Submit(ctx domain.Context, req SubmitRequest) (SubmitResult, error) {
	if req.IdempotencyKey == "" {
		return SubmitResult{}, fmt.Errorf("op=admission.submit: %w", domain.ErrIdempotencyKeyMissing)
	}
	if !idempotencyKeyPattern.MatchString(req.IdempotencyKey) {
		return SubmitResult{}, fmt.Errorf("op=admission.submit: %w", domain.ErrIdempotencyKeyInvalid)
	}

	image, err := s.materializeImage(ctx, req)
	if err != nil {
		return SubmitResult{}, err
	}
	prompt := strings.TrimSpace(req.Prompt)

	preprocessed, preprocessRec, err := imaging.Preprocess(image)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("op=admission.submit.preprocess: %w", domain.ErrInvalidPayload)
	}

	verdict, err := s.Moderator.Moderate(ctx, preprocessed, "image-restoration-submission")
	if err != nil {
		return SubmitResult{}, fmt.Errorf("op=admission.submit.moderate: %w: %v", domain.ErrModerationRejected, err)
	}
	if !verdict.Allowed {
		return SubmitResult{}, fmt.Errorf("op=admission.submit: %w: %s", domain.ErrModerationRejected, verdict.Rejection)
	}

	fingerprint := computeFingerprint(req.Method, req.Path, preprocessed, prompt)
	if entry, hit, err := s.Idempotency.Get(ctx, req.OwnerID, req.IdempotencyKey); err == nil && hit {
		if entry.Fingerprint != fingerprint {
			return SubmitResult{}, fmt.Errorf("op=admission.submit: %w", domain.ErrIdempotencyConflict)
		}
		return SubmitResult{}, errReplay{entry: entry}
	}

	amount := s.CreditsPerJob
	if amount <= 0 {
		amount = 1
	}
	jobID := uuid.New().String()
	allowed, kind, remaining, err := s.Credits.CheckAndDeduct(ctx, req.OwnerID, amount, jobID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("op=admission.submit.debit: %w", err)
	}
	if !allowed {
		return SubmitResult{}, fmt.Errorf("op=admission.submit: %w: remaining=%d", domain.ErrInsufficientCredits, remaining)
	}
	observability.CreditDebitsTotal.WithLabelValues(string(kind)).Inc()
	debit := domain.CreditDebit{Amount: amount, Kind: kind}

	objectName := req.ObjectName
	if objectName == "" {
		objectName = jobID + ".src"
		if err := s.Blob.Upload(ctx, req.OwnerID, objectName, preprocessed, "image/jpeg"); err != nil {
			s.refundOnFailure(ctx, req.OwnerID, jobID, amount, "upload_failed")
			return SubmitResult{}, fmt.Errorf("op=admission.submit.upload: %w", domain.ErrInternal)
		}
	}

	job := domain.Job{
		ID:         jobID,
		OwnerID:    req.OwnerID,
		Status:     domain.JobQueued,
		Prompt:     prompt,
		Debit:      debit,
		Preprocess: preprocessRec,
		Moderation: verdict,
	}
	createdID, err := s.Jobs.Create(ctx, job)
	if err != nil {
		s.refundOnFailure(ctx, req.OwnerID, jobID, amount, "job_create_failed")
		return SubmitResult{}, fmt.Errorf("op=admission.submit.create: %w", domain.ErrInternal)
	}

	payload := domain.RestoreTaskPayload{
		JobID:       createdID,
		OwnerID:     req.OwnerID,
		Prompt:      prompt,
		ObjectName:  objectName,
		Debit:       debit,
		Traceparent: req.Traceparent,
		Tracestate:  req.Tracestate,
	}
	if _, err := s.Queue.Enqueue(ctx, payload); err != nil {
		s.refundOnFailure(ctx, req.OwnerID, createdID, amount, "enqueue_failed")
		if markErr := s.Jobs.MarkFailed(ctx, createdID, domain.ErrorRecord{Kind: "enqueue_failed", Message: err.Error()}); markErr == nil {
			observability.JobsFailedTotal.Inc()
		}
		return SubmitResult{}, fmt.Errorf("op=admission.submit.enqueue: %w", domain.ErrServiceUnavailable)
	}
	observability.JobsEnqueuedTotal.Inc()

	if err := s.Ledger.Append(ctx, domain.LedgerEntry{
		ID: uuid.New().String(), OwnerID: req.OwnerID, JobID: createdID,
		Amount: -amount, Kind: kind, Reason: "job_submission", CreatedAt: time.Now().UTC(),
	}); err != nil {
		observability.LoggerFromContext(ctx).Error("ledger mirror write failed", "job_id", createdID, "err", err)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"job_id": createdID,
		"status": domain.JobQueued,
		"credit": debit,
	})
	entry := domain.IdempotencyEntry{
		Fingerprint: fingerprint,
		Status:      202,
		Headers:     map[string]string{"Location": "/jobs/" + createdID},
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.Idempotency.PutWithTTL(ctx, req.OwnerID, req.IdempotencyKey, entry, ttl); err != nil {
		return SubmitResult{}, fmt.Errorf("op=admission.submit.idempotency_put: %w", domain.ErrInternal)
	}

	return SubmitResult{JobID: createdID, Status: domain.JobQueued, Credit: debit}, nil
}

// materializeImage resolves the two admission shapes of spec §4.1 step 4:
// an inline multipart buffer sniffed by magic bytes, or a reference to a
// blob object that must already belong to the caller.
func (s *AdmissionService) materializeImage(ctx domain.Context, req SubmitRequest) ([]byte, error) {
	if len(req.InlineImage) > 0 {
		if len(req.InlineImage) > maxInlineImageBytes {
			return nil, fmt.Errorf("op=admission.submit.materialize: %w", domain.ErrFileTooLarge)
		}
		detected := mimetype.Detect(req.InlineImage)
		if !allowedImageMIMEs[detected.String()] {
			return nil, fmt.Errorf("op=admission.submit.materialize: %w: %s", domain.ErrUnsupportedMedia, detected.String())
		}
		return req.InlineImage, nil
	}
	if req.ObjectName != "" {
		data, err := s.Blob.Download(ctx, req.OwnerID, req.ObjectName)
		if err != nil {
			return nil, fmt.Errorf("op=admission.submit.materialize: %w", domain.ErrInvalidPayload)
		}
		return data, nil
	}
	return nil, fmt.Errorf("op=admission.submit.materialize: %w: no image supplied", domain.ErrInvalidPayload)
}

// refundOnFailure reverses a just-applied debit when a later admission step
// fails before the job is durably queued (spec §4.1 step 10). A failed
// refund is logged here, not swallowed silently, but admission still
// surfaces the original error.
func (s *AdmissionService) refundOnFailure(ctx domain.Context, ownerID, jobID string, amount int64, reason string) {
	if err := s.Credits.Refund(ctx, ownerID, jobID, amount, reason); err != nil {
		observability.LoggerFromContext(ctx).Error("refund after admission failure did not complete", "job_id", jobID, "reason", reason, "err", err)
		return
	}
	observability.CreditRefundsTotal.Inc()
}

func computeFingerprint(method, path string, body []byte, prompt string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// errReplay signals the caller that a canonical prior response must be
// replayed verbatim rather than a fresh job created (spec §4.1 step 7).
type errReplay struct{ entry domain.IdempotencyEntry }

func (e errReplay) Error() string { return "idempotent replay" }

// AsReplay extracts the cached entry from an error returned by Submit, if
// that error represents a replay rather than a genuine failure.
func AsReplay(err error) (domain.IdempotencyEntry, bool) {
	r, ok := err.(errReplay)
	if !ok {
		return domain.IdempotencyEntry{}, false
	}
	return r.entry, true
}

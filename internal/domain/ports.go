package domain

import "time"

// JobRepository persists and loads job records (owned by the control plane
// for the job's entire lifecycle; workers mutate only via merge writes).
type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	Get(ctx Context, ownerID, id string) (Job, error)
	GetAny(ctx Context, id string) (Job, error)
	MarkRunning(ctx Context, id string, attempt int) error
	MarkSucceeded(ctx Context, id string, timings Timings, resultObjectName, enhancedPrompt string, classification map[string]float64, prov ProviderMetadata) error
	MarkFailed(ctx Context, id string, errRec ErrorRecord) error
	List(ctx Context, offset, limit int, status JobStatus) ([]Job, error)
	Count(ctx Context) (int64, error)
	CountByStatus(ctx Context, status JobStatus) (int64, error)
	AverageTotalMS(ctx Context) (float64, error)
}

// LedgerRepository is the append-only audit trail mirrored from the shared
// key-value store's atomic counters (spec §3, §4.2).
type LedgerRepository interface {
	Append(ctx Context, e LedgerEntry) error
	LatestDebitForJob(ctx Context, jobID string) (LedgerEntry, error)
	RefundExists(ctx Context, jobID string) (bool, error)
}

// DeadLetterRepository persists dead-letter entries for a bounded window
// and supports operator replay tooling (spec §4.6).
type DeadLetterRepository interface {
	Put(ctx Context, e DeadLetterEntry) error
	Get(ctx Context, id string) (DeadLetterEntry, error)
	Remove(ctx Context, id string) error
	List(ctx Context, offset, limit int) ([]DeadLetterEntry, error)
	ListByOwner(ctx Context, ownerID string) ([]DeadLetterEntry, error)
	Stats(ctx Context) (total int64, oldestAge time.Duration, err error)
	AppendReplayAudit(ctx Context, a ReplayAudit) error
}

// ReplayAudit records who replayed a dead-lettered job, when, and why.
type ReplayAudit struct {
	DeadLetterID string
	JobID        string
	OperatorID   string
	Reason       string
	Refunded     bool
	At           time.Time
}

// Queue enqueues restoration tasks durably (spec §4.5). Enqueue must
// not return success unless the task is recoverable across process restart.
type Queue interface {
	Enqueue(ctx Context, payload RestoreTaskPayload) (taskID string, err error)
	EnqueueWithOptions(ctx Context, payload RestoreTaskPayload, opts EnqueueOptions) (taskID string, err error)
}

// EnqueueOptions overrides queue defaults, used by the replay tool (spec §4.6).
type EnqueueOptions struct {
	MaxAttempts int
	Priority    string
}

// BlobStore is the out-of-core blob collaborator (spec §6).
type BlobStore interface {
	IssueUploadURL(ctx Context, ownerID, contentType string) (url, objectName string, expiresAt time.Time, err error)
	IssueDownloadURL(ctx Context, ownerID, objectName, filename string) (url string, expiresAt time.Time, err error)
	Download(ctx Context, ownerID, objectName string) ([]byte, error)
	Upload(ctx Context, ownerID, objectName string, data []byte, contentType string) error
}

// Moderator is the out-of-core content moderation collaborator (spec §6).
// Fail-closed: callers treat a returned error as a rejection.
type Moderator interface {
	Moderate(ctx Context, data []byte, context string) (ModerationVerdict, error)
}

// Provider is the out-of-core generative image provider (spec §6).
type Provider interface {
	Restore(ctx Context, prompt string, image []byte) (restored []byte, meta ProviderMetadata, err error)
}

// TokenVerifier is the out-of-core identity collaborator (spec §6).
type TokenVerifier interface {
	Verify(ctx Context, bearer string) (userID string, err error)
}

// RateLimiter implements the token-bucket admission contract (spec §4.4).
type RateLimiter interface {
	Allow(ctx Context, scope, principal string) (admitted bool, remaining int64, limit int64, resetAt time.Time, err error)
}

// IdempotencyStore maps (owner, key) to the canonical first response for a
// bounded window (spec §4.3).
type IdempotencyStore interface {
	Get(ctx Context, ownerID, key string) (IdempotencyEntry, bool, error)
	PutWithTTL(ctx Context, ownerID, key string, e IdempotencyEntry, ttl time.Duration) error
}

// IdempotencyEntry is the stored replay payload for SUBMIT_JOB (spec §3).
type IdempotencyEntry struct {
	Fingerprint string
	Status      int
	Headers     map[string]string
	Body        []byte
	CreatedAt   time.Time
}

// CreditLedger is the atomic check-and-deduct / refund contract (spec §4.2).
type CreditLedger interface {
	CheckAndDeduct(ctx Context, ownerID string, amount int64, jobID string) (allowed bool, kind CreditKind, remaining int64, err error)
	Refund(ctx Context, ownerID, jobID string, amount int64, reason string) error
}

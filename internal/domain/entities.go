// Package domain defines core entities, ports, and domain-specific errors
// for the restoration control plane.
package domain

import (
	"context"
	"errors"
	"time"
)

// Context is a type alias to stdlib context.Context for convenience across layers.
type Context = context.Context

// Error taxonomy (sentinels). Adapters map these to transport-specific
// status codes via errors.Is; never branch on concrete error types.
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrUnsupportedMedia      = errors.New("unsupported media type")
	ErrIdempotencyKeyMissing = errors.New("idempotency key missing")
	ErrIdempotencyKeyInvalid = errors.New("idempotency key invalid")
	ErrIdempotencyConflict   = errors.New("idempotency conflict")
	ErrFileTooLarge          = errors.New("file too large")
	ErrModerationRejected    = errors.New("moderation rejected")
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrNotImplemented        = errors.New("not implemented")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrInternal              = errors.New("internal error")
)

//go:generate mockery --name=JobRepository --with-expecter --filename=job_repository_mock.go
//go:generate mockery --name=LedgerRepository --with-expecter --filename=ledger_repository_mock.go
//go:generate mockery --name=DeadLetterRepository --with-expecter --filename=dead_letter_repository_mock.go
//go:generate mockery --name=Queue --with-expecter --filename=queue_mock.go
//go:generate mockery --name=BlobStore --with-expecter --filename=blob_store_mock.go
//go:generate mockery --name=Moderator --with-expecter --filename=moderator_mock.go
//go:generate mockery --name=Provider --with-expecter --filename=provider_mock.go
//go:generate mockery --name=TokenVerifier --with-expecter --filename=token_verifier_mock.go
//go:generate mockery --name=RateLimiter --with-expecter --filename=rate_limiter_mock.go
//go:generate mockery --name=IdempotencyStore --with-expecter --filename=idempotency_store_mock.go
//go:generate mockery --name=CreditLedger --with-expecter --filename=credit_ledger_mock.go

// JobStatus captures the lifecycle state of a restoration job.
type JobStatus string

// Job status values. Terminal states never transition further.
const (
	JobQueued     JobStatus = "queued"
	JobRunning    JobStatus = "running"
	JobSucceeded  JobStatus = "succeeded"
	JobFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status allows no further transitions.
func (s JobStatus) IsTerminal() bool { return s == JobSucceeded || s == JobFailed }

// CreditKind distinguishes free daily slots from paid balance.
type CreditKind string

// Credit kinds recorded on a job's debit and in ledger entries.
const (
	CreditFree    CreditKind = "free"
	CreditPaid    CreditKind = "paid"
	CreditRefund  CreditKind = "refund"
	CreditPurchase CreditKind = "purchase"
)

// CreditDebit records the amount and kind debited from a user for a job.
type CreditDebit struct {
	Amount int64
	Kind   CreditKind
}

// ErrorRecord captures a terminal failure reason attached to a job.
type ErrorRecord struct {
	Kind    string
	Message string
}

// Timings holds per-stage worker durations in milliseconds.
type Timings struct {
	ClassifyMS int64 `json:"classify_ms"`
	PromptMS   int64 `json:"prompt_ms"`
	RestoreMS  int64 `json:"restore_ms"`
	TotalMS    int64 `json:"total_ms"`
}

// ImageSource is either a stored blob object reference or a small inline
// buffer accepted only during admission; queue tasks never carry inline
// bytes (spec §9 open question on inline base64 payloads).
type ImageSource struct {
	ObjectName string
	Inline     []byte
}

// PreprocessRecord documents the operations applied to an admitted image.
type PreprocessRecord struct {
	SourceFormat         string  `json:"source_format,omitempty"`
	AutoOriented         bool    `json:"auto_oriented"`
	ResizedTo            [2]int  `json:"resized_to"` // width, height after longest-side resize
	ReencodedJPEGQuality int     `json:"reencoded_jpeg_quality"`
	StrippedMetadata     bool    `json:"stripped_metadata"`
	ColorProfile         string  `json:"color_profile"`
	Operations           []string `json:"operations,omitempty"`
}

// ModerationVerdict is the outcome of the moderation collaborator.
type ModerationVerdict struct {
	Allowed bool
	Flags   []string
	Rejection string
}

// ProviderMetadata is returned by the generative provider alongside bytes.
type ProviderMetadata struct {
	RequestID      string
	BilledUnits    int64
	EstimatedCost  float64
}

// Job is the durable record tracked through the queued/running/terminal
// lifecycle (spec §3, §4.7 state machine).
type Job struct {
	ID        string
	OwnerID   string
	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	Timings Timings

	Classification map[string]float64
	EnhancedPrompt string
	Moderation     ModerationVerdict

	Debit CreditDebit

	ResultObjectName string
	Error            *ErrorRecord

	AttemptCount int

	Prompt string
	Preprocess PreprocessRecord
	Provider ProviderMetadata
}

// Projection is the externally visible view of a Job (spec §4.8).
type Projection struct {
	ID          string             `json:"job_id"`
	Status      JobStatus          `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Credit      CreditDebit        `json:"credit"`
	Timings     *Timings           `json:"timings,omitempty"`
	Prompt      string             `json:"prompt,omitempty"`
	Moderation  *ModerationVerdict `json:"moderation,omitempty"`
	Error       *ErrorRecord       `json:"error,omitempty"`
	DownloadURL string             `json:"download_url,omitempty"`
	ExpiresAt   *time.Time         `json:"download_expires_at,omitempty"`
}

// RestoreTaskPayload is carried by the queue; it never carries inline image
// bytes, only a blob object reference (spec §9).
type RestoreTaskPayload struct {
	JobID        string
	OwnerID      string
	Prompt       string
	ObjectName   string
	Debit        CreditDebit
	Traceparent  string
	Tracestate   string
	ReplayOf     *ReplayMarker `json:"replay_of,omitempty"`
}

// ReplayMarker is attached to a task re-enqueued from the dead-letter store.
type ReplayMarker struct {
	OriginalJobID   string
	DeadLetterID    string
	PreviousAttempts int
	Reason          string
}

// DeadLetterEntry archives an exhausted task for inspection and replay
// (spec §4.6).
type DeadLetterEntry struct {
	ID              string
	JobID           string
	OwnerID         string
	Payload         RestoreTaskPayload
	Failure         ErrorRecord
	Attempts        int
	FailedAt        time.Time
}

// LedgerEntry is an append-only credit audit record (spec §3).
type LedgerEntry struct {
	ID         string
	OwnerID    string
	JobID      string
	Amount     int64
	Kind       CreditKind
	Reason     string
	CreatedAt  time.Time
	RefundOf   *string
}

// User holds per-owner credit state (spec §3). Storage for these fields
// lives in the shared key-value store; this struct is the durable mirror.
type User struct {
	ID           string
	PaidBalance  int64
	FreeCounter  int64
	FreeDay      string
	UpdatedAt    time.Time
}

func ptr[T any](v T) *T { return &v }

package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/restorehq/control-plane/internal/domain"
)

// JobRepo persists and loads restoration jobs from PostgreSQL.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create inserts a new queued job and returns its id.
func (r *JobRepo) Create(ctx domain.Context, j domain.Job) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "jobs"),
	)

	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	debit, err := json.Marshal(j.Debit)
	if err != nil {
		return "", fmt.Errorf("op=job.create.marshal_debit: %w", err)
	}
	moderation, err := json.Marshal(j.Moderation)
	if err != nil {
		return "", fmt.Errorf("op=job.create.marshal_moderation: %w", err)
	}

	q := `INSERT INTO jobs (id, owner_id, status, created_at, updated_at, attempt_count, prompt, moderation, debit, result_object_name)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err = r.Pool.Exec(ctx, q, id, j.OwnerID, domain.JobQueued, now, now, 0, j.Prompt, moderation, debit, "")
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// Get loads a job scoped to its owner, so one owner can never read another's job.
func (r *JobRepo) Get(ctx domain.Context, ownerID, id string) (domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "jobs"),
	)
	row := r.Pool.QueryRow(ctx, selectJobQuery+` WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return scanJob(row)
}

// GetAny loads a job by id regardless of owner, used by the worker pipeline
// and operator tooling where ownership scoping does not apply.
func (r *JobRepo) GetAny(ctx domain.Context, id string) (domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.GetAny")
	defer span.End()
	row := r.Pool.QueryRow(ctx, selectJobQuery+` WHERE id=$1`, id)
	return scanJob(row)
}

const selectJobQuery = `SELECT id, owner_id, status, created_at, updated_at, attempt_count, prompt,
	enhanced_prompt, classification, moderation, debit, result_object_name,
	error_kind, error_message, preprocess, provider, timings FROM jobs`

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	var classification, moderation, debit, preprocess, provider, timings []byte
	var errKind, errMsg *string

	if err := row.Scan(&j.ID, &j.OwnerID, &j.Status, &j.CreatedAt, &j.UpdatedAt, &j.AttemptCount,
		&j.Prompt, &j.EnhancedPrompt, &classification, &moderation, &debit, &j.ResultObjectName,
		&errKind, &errMsg, &preprocess, &provider, &timings); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Job{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("op=job.get: %w", err)
	}

	_ = json.Unmarshal(classification, &j.Classification)
	_ = json.Unmarshal(moderation, &j.Moderation)
	_ = json.Unmarshal(debit, &j.Debit)
	_ = json.Unmarshal(preprocess, &j.Preprocess)
	_ = json.Unmarshal(provider, &j.Provider)
	_ = json.Unmarshal(timings, &j.Timings)

	if errKind != nil {
		j.Error = &domain.ErrorRecord{Kind: *errKind, Message: deref(errMsg)}
	}
	return j, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MarkRunning transitions a job to running and records the attempt count,
// using an explicit read-committed transaction so a concurrent stalled-job
// recovery scan cannot double-claim the same attempt.
func (r *JobRepo) MarkRunning(ctx domain.Context, id string, attempt int) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.MarkRunning")
	defer span.End()

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("op=job.mark_running.begin_tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	q := `UPDATE jobs SET status=$2, attempt_count=$3, updated_at=$4 WHERE id=$1 AND status <> $5`
	tag, err := tx.Exec(ctx, q, id, domain.JobRunning, attempt, time.Now().UTC(), domain.JobSucceeded)
	if err != nil {
		return fmt.Errorf("op=job.mark_running.exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=job.mark_running: %w", domain.ErrNotFound)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=job.mark_running.commit: %w", err)
	}
	committed = true
	return nil
}

// MarkSucceeded transitions a job to its terminal succeeded state. The
// transition is a no-op (not an error) if the job is already terminal,
// since a duplicate delivery of the same successful task must not flip a
// failed job back to succeeded or vice versa.
func (r *JobRepo) MarkSucceeded(ctx domain.Context, id string, timings domain.Timings, resultObjectName, enhancedPrompt string, classification map[string]float64, prov domain.ProviderMetadata) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.MarkSucceeded")
	defer span.End()

	timingsJSON, _ := json.Marshal(timings)
	provJSON, _ := json.Marshal(prov)
	classificationJSON, _ := json.Marshal(classification)

	q := `UPDATE jobs SET status=$2, result_object_name=$3, enhanced_prompt=$4, classification=$5, timings=$6, provider=$7, updated_at=$8
	      WHERE id=$1 AND status NOT IN ($9, $10)`
	_, err := r.Pool.Exec(ctx, q, id, domain.JobSucceeded, resultObjectName, enhancedPrompt, classificationJSON, timingsJSON, provJSON,
		time.Now().UTC(), domain.JobSucceeded, domain.JobFailed)
	if err != nil {
		return fmt.Errorf("op=job.mark_succeeded: %w", err)
	}
	return nil
}

// MarkFailed transitions a job to its terminal failed state, same
// terminal-state guard as MarkSucceeded.
func (r *JobRepo) MarkFailed(ctx domain.Context, id string, errRec domain.ErrorRecord) error {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.MarkFailed")
	defer span.End()

	q := `UPDATE jobs SET status=$2, error_kind=$3, error_message=$4, updated_at=$5
	      WHERE id=$1 AND status NOT IN ($6, $7)`
	_, err := r.Pool.Exec(ctx, q, id, domain.JobFailed, errRec.Kind, errRec.Message,
		time.Now().UTC(), domain.JobSucceeded, domain.JobFailed)
	if err != nil {
		return fmt.Errorf("op=job.mark_failed: %w", err)
	}
	return nil
}

// List returns a page of jobs, optionally filtered by status (empty status
// matches all). Used by the CLI operator surface (spec's supplemented
// paginated job listing).
func (r *JobRepo) List(ctx domain.Context, offset, limit int, status domain.JobStatus) ([]domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.List")
	defer span.End()

	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = r.Pool.Query(ctx, selectJobQuery+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		rows, err = r.Pool.Query(ctx, selectJobQuery+` WHERE status=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("op=job.list: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("op=job.list_scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=job.list_rows: %w", err)
	}
	return jobs, nil
}

// Count returns the total number of jobs.
func (r *JobRepo) Count(ctx domain.Context) (int64, error) {
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=job.count: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of jobs in the given status.
func (r *JobRepo) CountByStatus(ctx domain.Context, status domain.JobStatus) (int64, error) {
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE status=$1`, status)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=job.count_by_status: %w", err)
	}
	return count, nil
}

// AverageTotalMS returns the average recorded total duration, in
// milliseconds, across succeeded jobs. Backs the operator stats surface.
func (r *JobRepo) AverageTotalMS(ctx domain.Context) (float64, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT AVG((timings->>'total_ms')::double precision) FROM jobs WHERE status=$1`, domain.JobSucceeded)
	var avg *float64
	if err := row.Scan(&avg); err != nil {
		return 0, fmt.Errorf("op=job.avg_total_ms: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

var _ domain.JobRepository = (*JobRepo)(nil)

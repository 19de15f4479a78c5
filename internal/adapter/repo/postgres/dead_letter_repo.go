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

// DeadLetterRepo archives exhausted restoration tasks for operator
// inspection and replay (spec §4.6).
type DeadLetterRepo struct{ Pool PgxPool }

// NewDeadLetterRepo constructs a DeadLetterRepo with the given pool.
func NewDeadLetterRepo(p PgxPool) *DeadLetterRepo { return &DeadLetterRepo{Pool: p} }

// Put archives a dead-lettered task.
func (r *DeadLetterRepo) Put(ctx domain.Context, e domain.DeadLetterEntry) error {
	tracer := otel.Tracer("repo.dead_letters")
	ctx, span := tracer.Start(ctx, "dead_letters.Put")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "dead_letters"),
	)

	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("op=dead_letter.put.marshal: %w", err)
	}
	failedAt := e.FailedAt
	if failedAt.IsZero() {
		failedAt = time.Now().UTC()
	}

	q := `INSERT INTO dead_letters (id, job_id, owner_id, payload, failure_kind, failure_message, attempts, failed_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.Pool.Exec(ctx, q, id, e.JobID, e.OwnerID, payload, e.Failure.Kind, e.Failure.Message, e.Attempts, failedAt)
	if err != nil {
		return fmt.Errorf("op=dead_letter.put: %w", err)
	}
	return nil
}

const selectDeadLetterQuery = `SELECT id, job_id, owner_id, payload, failure_kind, failure_message, attempts, failed_at FROM dead_letters`

func scanDeadLetter(row pgx.Row) (domain.DeadLetterEntry, error) {
	var e domain.DeadLetterEntry
	var payload []byte
	if err := row.Scan(&e.ID, &e.JobID, &e.OwnerID, &payload, &e.Failure.Kind, &e.Failure.Message, &e.Attempts, &e.FailedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.DeadLetterEntry{}, fmt.Errorf("op=dead_letter.get: %w", domain.ErrNotFound)
		}
		return domain.DeadLetterEntry{}, fmt.Errorf("op=dead_letter.get: %w", err)
	}
	_ = json.Unmarshal(payload, &e.Payload)
	return e, nil
}

// Get loads a single dead-letter entry by id.
func (r *DeadLetterRepo) Get(ctx domain.Context, id string) (domain.DeadLetterEntry, error) {
	row := r.Pool.QueryRow(ctx, selectDeadLetterQuery+` WHERE id=$1`, id)
	return scanDeadLetter(row)
}

// Remove deletes a dead-letter entry, used once it has been replayed.
func (r *DeadLetterRepo) Remove(ctx domain.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM dead_letters WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("op=dead_letter.remove: %w", err)
	}
	return nil
}

// List returns a page of dead-letter entries ordered oldest-first, the
// order an operator works a backlog in.
func (r *DeadLetterRepo) List(ctx domain.Context, offset, limit int) ([]domain.DeadLetterEntry, error) {
	rows, err := r.Pool.Query(ctx, selectDeadLetterQuery+` ORDER BY failed_at ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=dead_letter.list: %w", err)
	}
	defer rows.Close()
	return collectDeadLetters(rows)
}

// ListByOwner returns all dead-letter entries for a single owner, backing
// the `jobsctl replay-user` operator command.
func (r *DeadLetterRepo) ListByOwner(ctx domain.Context, ownerID string) ([]domain.DeadLetterEntry, error) {
	rows, err := r.Pool.Query(ctx, selectDeadLetterQuery+` WHERE owner_id=$1 ORDER BY failed_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=dead_letter.list_by_owner: %w", err)
	}
	defer rows.Close()
	return collectDeadLetters(rows)
}

func collectDeadLetters(rows pgx.Rows) ([]domain.DeadLetterEntry, error) {
	var entries []domain.DeadLetterEntry
	for rows.Next() {
		e, err := scanDeadLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("op=dead_letter.scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=dead_letter.rows: %w", err)
	}
	return entries, nil
}

// Stats returns the total dead-letter count and the age of the oldest
// entry, surfaced on the `GET /internal/stats` operator endpoint.
func (r *DeadLetterRepo) Stats(ctx domain.Context) (int64, time.Duration, error) {
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*), MIN(failed_at) FROM dead_letters`)
	var total int64
	var oldest *time.Time
	if err := row.Scan(&total, &oldest); err != nil {
		return 0, 0, fmt.Errorf("op=dead_letter.stats: %w", err)
	}
	if oldest == nil {
		return total, 0, nil
	}
	return total, time.Since(*oldest), nil
}

// AppendReplayAudit records who replayed a dead-letter entry, when, and why.
func (r *DeadLetterRepo) AppendReplayAudit(ctx domain.Context, a domain.ReplayAudit) error {
	at := a.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	q := `INSERT INTO dead_letter_replays (dead_letter_id, job_id, operator_id, reason, refunded, replayed_at) VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.Pool.Exec(ctx, q, a.DeadLetterID, a.JobID, a.OperatorID, a.Reason, a.Refunded, at)
	if err != nil {
		return fmt.Errorf("op=dead_letter.append_replay_audit: %w", err)
	}
	return nil
}

var _ domain.DeadLetterRepository = (*DeadLetterRepo)(nil)

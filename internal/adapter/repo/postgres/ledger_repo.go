package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/restorehq/control-plane/internal/domain"
)

// LedgerRepo is the append-only Postgres mirror of the Redis-backed credit
// ledger (spec §3). It is written after the Redis Lua script commits, so it
// is eventually consistent with the authoritative counters, never the
// source of truth for admission decisions.
type LedgerRepo struct{ Pool PgxPool }

// NewLedgerRepo constructs a LedgerRepo with the given pool.
func NewLedgerRepo(p PgxPool) *LedgerRepo { return &LedgerRepo{Pool: p} }

// Append writes one audit row. Never mutated once written.
func (r *LedgerRepo) Append(ctx domain.Context, e domain.LedgerEntry) error {
	tracer := otel.Tracer("repo.ledger")
	ctx, span := tracer.Start(ctx, "ledger.Append")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "ledger_entries"),
	)

	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	q := `INSERT INTO ledger_entries (id, owner_id, job_id, amount, kind, reason, created_at, refund_of)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.Pool.Exec(ctx, q, id, e.OwnerID, e.JobID, e.Amount, e.Kind, e.Reason, createdAt, e.RefundOf)
	if err != nil {
		return fmt.Errorf("op=ledger.append: %w", err)
	}
	return nil
}

// LatestDebitForJob returns the most recent non-refund entry for a job,
// used to recover the original debit amount/kind when issuing a refund.
func (r *LedgerRepo) LatestDebitForJob(ctx domain.Context, jobID string) (domain.LedgerEntry, error) {
	tracer := otel.Tracer("repo.ledger")
	ctx, span := tracer.Start(ctx, "ledger.LatestDebitForJob")
	defer span.End()

	q := `SELECT id, owner_id, job_id, amount, kind, reason, created_at, refund_of
	      FROM ledger_entries WHERE job_id=$1 AND kind <> $2 ORDER BY created_at DESC LIMIT 1`
	row := r.Pool.QueryRow(ctx, q, jobID, domain.CreditRefund)
	var e domain.LedgerEntry
	if err := row.Scan(&e.ID, &e.OwnerID, &e.JobID, &e.Amount, &e.Kind, &e.Reason, &e.CreatedAt, &e.RefundOf); err != nil {
		if err == pgx.ErrNoRows {
			return domain.LedgerEntry{}, fmt.Errorf("op=ledger.latest_debit: %w", domain.ErrNotFound)
		}
		return domain.LedgerEntry{}, fmt.Errorf("op=ledger.latest_debit: %w", err)
	}
	return e, nil
}

// RefundExists reports whether a refund row already exists for the given
// job id, used as a defensive secondary check alongside the Redis
// debit-marker guard before writing a second refund audit row.
func (r *LedgerRepo) RefundExists(ctx domain.Context, jobID string) (bool, error) {
	row := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE job_id=$1 AND refund_of IS NOT NULL)`, jobID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("op=ledger.refund_exists: %w", err)
	}
	return exists, nil
}

var _ domain.LedgerRepository = (*LedgerRepo)(nil)

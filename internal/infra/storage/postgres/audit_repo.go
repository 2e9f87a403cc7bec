package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/janhicken/cloud-bigtable-client/internal/admin"
	"github.com/janhicken/cloud-bigtable-client/internal/metrics"
)

// AuditRow is one persisted operation record.
type AuditRow struct {
	ID         uuid.UUID `db:"id"`
	Method     string    `db:"method"`
	TableID    string    `db:"table_id"`
	Attempts   int       `db:"attempts"`
	Outcome    string    `db:"outcome"`
	DurationMS int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// AuditRepo implements admin.Auditor on PostgreSQL. Writes are best
// effort: a failed insert is counted and logged, never surfaced to the
// operation that triggered it.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a PostgreSQL audit repository.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record inserts one audit row.
func (r *AuditRepo) Record(ctx context.Context, entry admin.AuditEntry) {
	query := `
		INSERT INTO call_audit (id, method, table_id, attempts, outcome, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Method,
		entry.TableID,
		entry.Attempts,
		entry.Outcome,
		entry.Duration.Milliseconds(),
		time.Now().UTC(),
	)
	if err != nil {
		metrics.AuditErrors.Inc()
		slog.Warn("audit write failed", "method", entry.Method, "error", err)
	}
}

// Recent returns the newest audit rows, most recent first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]AuditRow, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, method, table_id, attempts, outcome, duration_ms, created_at
		FROM call_audit
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []AuditRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

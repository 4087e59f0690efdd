package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/reseed/internal/database"
)

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
	ListByCommand(ctx context.Context, command string, limit int) ([]AuditEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// Open creates or opens the audit repository at the default path.
func Open(ctx context.Context) (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(ctx, path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate(ctx context.Context) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS audit_log (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp   TEXT    NOT NULL,
            command     TEXT    NOT NULL,
            args        TEXT    NOT NULL DEFAULT '',
            provider    TEXT    NOT NULL DEFAULT '',
            region      TEXT    NOT NULL DEFAULT '',
            image       TEXT    NOT NULL DEFAULT '',
            terminated  TEXT    NOT NULL DEFAULT '',
            launched    TEXT    NOT NULL DEFAULT '',
            outcome     TEXT    NOT NULL DEFAULT '',
            failed_step TEXT    NOT NULL DEFAULT '',
            detail      TEXT    NOT NULL DEFAULT '',
            duration_ms INTEGER NOT NULL DEFAULT 0
        );
        CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
        CREATE INDEX IF NOT EXISTS idx_audit_log_command ON audit_log(command);
    `
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("auditlog: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new audit entry, assigning its ID and, when unset, its
// timestamp.
func (r *SQLiteRepository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO audit_log (timestamp, command, args, provider, region, image, terminated, launched,
                               outcome, failed_step, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(time.RFC3339Nano), entry.Command, entry.Args, entry.Provider,
		entry.Region, entry.Image, joinIDs(entry.Terminated), joinIDs(entry.Launched),
		entry.Outcome, entry.FailedStep, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

const selectColumns = `SELECT id, timestamp, command, args, provider, region, image, terminated, launched,
               outcome, failed_step, detail, duration_ms
        FROM audit_log`

// List returns the most recent n audit entries.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByCommand returns the most recent n audit entries for a command.
func (r *SQLiteRepository) ListByCommand(ctx context.Context, command string, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE command = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, command, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var (
			entry                AuditEntry
			timestamp            string
			terminated, launched string
		)
		err := rows.Scan(
			&entry.ID, &timestamp, &entry.Command, &entry.Args, &entry.Provider,
			&entry.Region, &entry.Image, &terminated, &launched,
			&entry.Outcome, &entry.FailedStep, &entry.Detail, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		entry.Terminated = splitIDs(terminated)
		entry.Launched = splitIDs(launched)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mbb-tracker/internal/errors"
)

const currentVersion = 1

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := migrateV1(db); err != nil {
			return err
		}
	}

	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func migrateV1(db *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS categories (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		label       TEXT NOT NULL UNIQUE,
		hourly_rate REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'todo',
		position    INTEGER NOT NULL DEFAULT 0,
		category_id INTEGER REFERENCES categories(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status, position);

	CREATE TABLE IF NOT EXISTS sessions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id          INTEGER NOT NULL REFERENCES tasks(id),
		category_rate    REAL NOT NULL DEFAULT 0,
		started_at       TEXT NOT NULL,
		ended_at         TEXT,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		earnings_usd     REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_task    ON sessions(task_id);
	`
	_, err := db.Exec(ddl)
	return err
}

// formatTime formats a time.Time value as RFC3339 for consistent storage
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr formats a *time.Time as RFC3339, returning nil for nil pointers
func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// execReturningID executes an insert and returns the new row ID
func execReturningID(ctx context.Context, db *sql.DB, query string, args ...interface{}) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewStorageError("execute query", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewStorageError("get last insert ID", err)
	}

	return id, nil
}

// execAffecting executes a statement and fails with not-found if no rows changed
func execAffecting(ctx context.Context, db *sql.DB, query string, entityType string, id string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewStorageError("execute query", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewStorageError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(entityType, id)
	}
	return nil
}

// scanner is the shared scanning seam for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// querySingle executes a query expected to return one row and scans it
func querySingle[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(scanner) (*T, error), entityType string, id string, args ...interface{}) (*T, error) {
	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError(entityType, id)
		}
		return nil, errors.NewStorageError("scan "+entityType, err)
	}
	return result, nil
}

// queryMultiple executes a query returning many rows and scans them all
func queryMultiple[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(scanner) (*T, error), entityType string, args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError("query "+entityType, err)
	}
	defer rows.Close()

	var results []*T
	for rows.Next() {
		item, scanErr := scanFunc(rows)
		if scanErr != nil {
			return nil, errors.NewStorageError("scan "+entityType, scanErr)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate "+entityType, err)
	}

	return results, nil
}

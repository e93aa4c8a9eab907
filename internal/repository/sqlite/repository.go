package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mbb-tracker/internal/errors"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for record store operations
type Repository interface {
	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, category *Category) error

	// Task operations
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	ListTasksByStatus(ctx context.Context, status string) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	MoveTask(ctx context.Context, id int64, status string, position int) error
	ReorderTasks(ctx context.Context, status string, orderedIDs []int64) error
	DeleteTask(ctx context.Context, id int64) error

	// Session operations (append-only: sessions are never updated)
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id int64) (*Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations
func New(dbPath string) (*SQLiteRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, errors.NewStorageError("create db directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.NewStorageError(fmt.Sprintf("exec pragma %q", p), err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// NewMemory creates an in-memory repository for testing
func NewMemory() (*SQLiteRepository, error) {
	return New(":memory:")
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateCategory creates a new category
func (r *SQLiteRepository) CreateCategory(ctx context.Context, category *Category) error {
	query := `INSERT INTO categories (label, hourly_rate) VALUES (?, ?)`
	id, err := execReturningID(ctx, r.db, query, category.Label, category.HourlyRate)
	if err != nil {
		return err
	}
	category.ID = id
	return nil
}

// GetCategory retrieves a category by ID. This is the timer-start rate
// source: the engine reads it once and captures a snapshot.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	query := `SELECT id, label, hourly_rate FROM categories WHERE id = ?`
	return querySingle(ctx, r.db, query, scanCategory, "category", fmt.Sprintf("%d", id), id)
}

// ListCategories retrieves all categories
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	query := `SELECT id, label, hourly_rate FROM categories ORDER BY label ASC`
	return queryMultiple(ctx, r.db, query, scanCategory, "categories")
}

// UpdateCategory updates an existing category
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, category *Category) error {
	query := `UPDATE categories SET label = ?, hourly_rate = ? WHERE id = ?`
	return execAffecting(ctx, r.db, query, "category", fmt.Sprintf("%d", category.ID), category.Label, category.HourlyRate, category.ID)
}

// CreateTask creates a new task, appending it to its status column
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	if task.Position == 0 {
		var maxPos sql.NullInt64
		err := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM tasks WHERE status = ?`, task.Status).Scan(&maxPos)
		if err != nil && err != sql.ErrNoRows {
			return errors.NewStorageError("query max position", err)
		}
		if maxPos.Valid {
			task.Position = int(maxPos.Int64) + 1
		}
	}

	query := `INSERT INTO tasks (title, status, position, category_id) VALUES (?, ?, ?, ?)`
	id, err := execReturningID(ctx, r.db, query, task.Title, task.Status, task.Position, nullableID(task.CategoryID))
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT id, title, status, position, category_id FROM tasks WHERE id = ?`
	return querySingle(ctx, r.db, query, scanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks ordered by column and position
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `SELECT id, title, status, position, category_id FROM tasks ORDER BY status ASC, position ASC`
	return queryMultiple(ctx, r.db, query, scanTask, "tasks")
}

// ListTasksByStatus retrieves the tasks of one column in board order. This
// ordering is the authoritative server-side view consumed by reconciliation.
func (r *SQLiteRepository) ListTasksByStatus(ctx context.Context, status string) ([]*Task, error) {
	query := `SELECT id, title, status, position, category_id FROM tasks WHERE status = ? ORDER BY position ASC, id ASC`
	return queryMultiple(ctx, r.db, query, scanTask, "tasks", status)
}

// UpdateTask updates an existing task
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	query := `UPDATE tasks SET title = ?, status = ?, position = ?, category_id = ? WHERE id = ?`
	return execAffecting(ctx, r.db, query, "task", fmt.Sprintf("%d", task.ID), task.Title, task.Status, task.Position, nullableID(task.CategoryID), task.ID)
}

// MoveTask changes a task's column and position
func (r *SQLiteRepository) MoveTask(ctx context.Context, id int64, status string, position int) error {
	query := `UPDATE tasks SET status = ?, position = ? WHERE id = ?`
	return execAffecting(ctx, r.db, query, "task", fmt.Sprintf("%d", id), status, position, id)
}

// ReorderTasks rewrites the positions of a column to match orderedIDs.
// The update is transactional: either the whole new ordering lands or none
// of it does.
func (r *SQLiteRepository) ReorderTasks(ctx context.Context, status string, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("begin reorder", err)
	}

	for pos, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = ?, position = ? WHERE id = ?`, status, pos, id); err != nil {
			tx.Rollback()
			return errors.NewStorageError("reorder tasks", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("commit reorder", err)
	}
	return nil
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`
	return execAffecting(ctx, r.db, query, "task", fmt.Sprintf("%d", id), id)
}

// CreateSession appends a completed session record
func (r *SQLiteRepository) CreateSession(ctx context.Context, session *Session) error {
	query := `
	INSERT INTO sessions (task_id, category_rate, started_at, ended_at, duration_seconds, earnings_usd)
	VALUES (?, ?, ?, ?, ?, ?)`

	id, err := execReturningID(ctx, r.db, query,
		session.TaskID,
		session.CategoryRate,
		formatTime(session.StartedAt),
		formatTimePtr(session.EndedAt),
		session.DurationSeconds,
		session.EarningsUSD,
	)
	if err != nil {
		return err
	}
	session.ID = id
	return nil
}

// GetSession retrieves a session by ID
func (r *SQLiteRepository) GetSession(ctx context.Context, id int64) (*Session, error) {
	query := `
	SELECT id, task_id, category_rate, started_at, ended_at, duration_seconds, earnings_usd
	FROM sessions WHERE id = ?`
	return querySingle(ctx, r.db, query, scanSession, "session", fmt.Sprintf("%d", id), id)
}

// ListSessions retrieves sessions matching the filter, ordered by start time
func (r *SQLiteRepository) ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error) {
	var conditions []string
	var args []interface{}

	if filter.TaskID != nil {
		conditions = append(conditions, "task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if filter.StartedAfter != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, formatTime(*filter.StartedAfter))
	}
	if filter.CompletedOnly {
		conditions = append(conditions, "ended_at IS NOT NULL")
	}

	query := `
	SELECT id, task_id, category_rate, started_at, ended_at, duration_seconds, earnings_usd
	FROM sessions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at ASC"

	return queryMultiple(ctx, r.db, query, scanSession, "sessions", args...)
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

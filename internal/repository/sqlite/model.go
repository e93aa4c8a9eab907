package sqlite

import "time"

// Category represents a task category with its hourly rate
type Category struct {
	ID         int64
	Label      string
	HourlyRate float64
}

// Task represents a kanban board task
type Task struct {
	ID         int64
	Title      string
	Status     string
	Position   int
	CategoryID *int64 // pointer to allow NULL values
}

// Session represents a completed time tracking record
type Session struct {
	ID              int64
	TaskID          int64
	CategoryRate    float64
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds int64
	EarningsUSD     float64
}

// SessionFilter contains the session list query parameters
type SessionFilter struct {
	TaskID        *int64
	StartedAfter  *time.Time
	CompletedOnly bool
}

package domain

// Status identifies a kanban board column.
type Status string

const (
	StatusBacklog Status = "backlog"
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
)

// Statuses lists the board columns in display order.
func Statuses() []Status {
	return []Status{StatusBacklog, StatusTodo, StatusDoing, StatusDone}
}

// IsValid reports whether s names a known board column.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Task represents a task on the kanban board. Position orders tasks within
// their status column.
type Task struct {
	ID         int64
	Title      string
	Status     Status
	Position   int
	CategoryID *int64
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.Title != "" && t.Status.IsValid()
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// Category groups tasks and carries the hourly rate used for earnings.
type Category struct {
	ID         int64
	Label      string
	HourlyRate float64
}

// Snapshot captures the category's rate and label for a starting timer.
func (c Category) Snapshot() CategorySnapshot {
	return CategorySnapshot{
		CategoryID: c.ID,
		Label:      c.Label,
		HourlyRate: c.HourlyRate,
	}
}

package domain

import (
	"time"
)

// CategorySnapshot is the hourly rate and label captured when a timer starts.
// Rate changes made while the timer runs do not alter an in-progress timer.
type CategorySnapshot struct {
	CategoryID int64
	Label      string
	HourlyRate float64
}

// ActiveTimer represents an in-progress or paused unit of work tracking.
// Elapsed accumulates active (non-paused) running time only; while the timer
// is running, the live figure is Elapsed plus the wall-clock delta since
// StartedAt, so missed ticks and background suspension never lose time.
type ActiveTimer struct {
	TaskID    int64
	TaskTitle string
	Category  CategorySnapshot
	Elapsed   time.Duration
	IsRunning bool
	IsPaused  bool
	StartedAt time.Time
}

// LiveElapsed returns the total elapsed active time as of now, including the
// wall-clock delta since the last start/resume if the timer is advancing.
// Negative deltas from clock skew are clamped to zero.
func (t ActiveTimer) LiveElapsed(now time.Time) time.Duration {
	elapsed := t.Elapsed
	if t.IsRunning && !t.IsPaused {
		delta := now.Sub(t.StartedAt)
		if delta > 0 {
			elapsed += delta
		}
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// LiveEarnings returns the unrounded earnings accrued as of now.
func (t ActiveTimer) LiveEarnings(now time.Time) float64 {
	return Earnings(t.LiveElapsed(now), t.Category.HourlyRate)
}

// IsAdvancing reports whether the timer is accumulating time.
func (t ActiveTimer) IsAdvancing() bool {
	return t.IsRunning && !t.IsPaused
}

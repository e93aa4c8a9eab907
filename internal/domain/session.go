package domain

import (
	"time"
)

// TimeSession is an immutable completed work record. Sessions are created
// exactly once, at stop-time, and never mutated afterwards.
// Invariant: EarningsUSD == RoundUSD(DurationSeconds/3600 * CategoryRate).
type TimeSession struct {
	ID              int64
	TaskID          int64
	CategoryRate    float64
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds int64
	EarningsUSD     float64
}

// NewTimeSession builds a completed session from a finalized timer span,
// applying the 2-decimal earnings rounding required at persistence time.
func NewTimeSession(taskID int64, rate float64, startedAt, endedAt time.Time, elapsed time.Duration) TimeSession {
	if elapsed < 0 {
		elapsed = 0
	}
	seconds := int64(elapsed.Seconds())
	return TimeSession{
		TaskID:          taskID,
		CategoryRate:    rate,
		StartedAt:       startedAt,
		EndedAt:         &endedAt,
		DurationSeconds: seconds,
		EarningsUSD:     RoundUSD(EarningsForSeconds(seconds, rate)),
	}
}

// IsCompleted reports whether the session has ended. Only completed sessions
// are ever included in aggregation windows.
func (s TimeSession) IsCompleted() bool {
	return s.EndedAt != nil
}

// Hours returns the session duration in fractional hours.
func (s TimeSession) Hours() float64 {
	return float64(s.DurationSeconds) / 3600
}

// IsValid checks if the session has valid data.
func (s TimeSession) IsValid() bool {
	if s.TaskID <= 0 {
		return false
	}
	if s.StartedAt.IsZero() {
		return false
	}
	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		return false
	}
	return s.DurationSeconds >= 0
}

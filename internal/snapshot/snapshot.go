// Package snapshot makes the active-timer set durable across process
// restarts. The serialized format is a JSON array of timer entries; restore
// quarantines individually malformed entries rather than failing the whole
// set, and recomputes elapsed time for timers that were left running.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"mbb-tracker/internal/domain"
)

// DefaultStaleAfter is the cutoff beyond which a saved running timer is
// presumed abandoned and not restored.
const DefaultStaleAfter = 24 * time.Hour

// savedTimer is the wire form of one active timer. Pointer fields let
// restore distinguish a missing or wrong-typed field from a zero value.
type savedTimer struct {
	TaskID         *int64   `json:"task_id"`
	Task           *string  `json:"task"`
	CategoryID     int64    `json:"category_id"`
	CategoryLabel  string   `json:"category_label"`
	HourlyRate     float64  `json:"hourly_rate"`
	ElapsedSeconds *float64 `json:"elapsed_seconds"`
	IsRunning      *bool    `json:"is_running"`
	IsPaused       *bool    `json:"is_paused"`
	StartedAt      *string  `json:"started_at"`
}

// Store serializes and restores the active-timer set through a Slot.
type Store struct {
	slot       Slot
	staleAfter time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStore creates a snapshot store. A non-positive staleAfter falls back to
// DefaultStaleAfter.
func NewStore(slot Slot, staleAfter time.Duration, logger zerolog.Logger) *Store {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Store{
		slot:       slot,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// SaveTimers serializes the full active-timer set to the slot. Called on
// every engine mutation; the caller's in-memory state stays authoritative
// when the write fails.
func (s *Store) SaveTimers(ctx context.Context, timers []domain.ActiveTimer) error {
	entries := make([]savedTimer, len(timers))
	for i, t := range timers {
		taskID := t.TaskID
		title := t.TaskTitle
		elapsed := t.Elapsed.Seconds()
		running := t.IsRunning
		paused := t.IsPaused
		startedAt := t.StartedAt.UTC().Format(time.RFC3339)

		entries[i] = savedTimer{
			TaskID:         &taskID,
			Task:           &title,
			CategoryID:     t.Category.CategoryID,
			CategoryLabel:  t.Category.Label,
			HourlyRate:     t.Category.HourlyRate,
			ElapsedSeconds: &elapsed,
			IsRunning:      &running,
			IsPaused:       &paused,
			StartedAt:      &startedAt,
		}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.slot.Write(ctx, payload)
}

// RestoreTimers reads the slot and rebuilds the active-timer set.
// Per entry:
//   - entries with missing or wrong-typed required fields, or an unparsable
//     started_at, are discarded individually;
//   - entries older than the staleness cutoff are discarded;
//   - running, unpaused timers are credited with the wall-clock time since
//     started_at, and started_at resets to now;
//   - paused timers restore elapsed as-is.
//
// A malformed top-level payload yields an empty set, never an error.
func (s *Store) RestoreTimers(ctx context.Context) ([]domain.ActiveTimer, error) {
	payload, ok, err := s.slot.Read(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || len(payload) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot payload malformed, restoring empty timer set")
		return nil, nil
	}

	now := s.now()
	var timers []domain.ActiveTimer
	for i, entry := range raw {
		timer, ok := s.restoreEntry(entry, now)
		if !ok {
			s.logger.Warn().Int("entry", i).Msg("discarding malformed or stale snapshot entry")
			continue
		}
		timers = append(timers, timer)
	}
	return timers, nil
}

func (s *Store) restoreEntry(raw json.RawMessage, now time.Time) (domain.ActiveTimer, bool) {
	var saved savedTimer
	if err := json.Unmarshal(raw, &saved); err != nil {
		return domain.ActiveTimer{}, false
	}
	if saved.TaskID == nil || saved.Task == nil || saved.ElapsedSeconds == nil ||
		saved.IsRunning == nil || saved.IsPaused == nil || saved.StartedAt == nil {
		return domain.ActiveTimer{}, false
	}

	startedAt, err := time.Parse(time.RFC3339, *saved.StartedAt)
	if err != nil {
		return domain.ActiveTimer{}, false
	}
	if now.Sub(startedAt) > s.staleAfter {
		return domain.ActiveTimer{}, false
	}

	elapsed := time.Duration(*saved.ElapsedSeconds * float64(time.Second))
	if elapsed < 0 {
		elapsed = 0
	}

	timer := domain.ActiveTimer{
		TaskID:    *saved.TaskID,
		TaskTitle: *saved.Task,
		Category: domain.CategorySnapshot{
			CategoryID: saved.CategoryID,
			Label:      saved.CategoryLabel,
			HourlyRate: saved.HourlyRate,
		},
		Elapsed:   elapsed,
		IsRunning: *saved.IsRunning,
		IsPaused:  *saved.IsPaused,
		StartedAt: startedAt,
	}

	// Credit time spent away from the app while the timer was advancing.
	if timer.IsRunning && !timer.IsPaused {
		if delta := now.Sub(startedAt); delta > 0 {
			timer.Elapsed += delta
		}
		timer.StartedAt = now
	}

	return timer, true
}

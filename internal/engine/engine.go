// Package engine owns the set of active per-task timers. All mutation of the
// shared timer set funnels through Engine's operations; live elapsed time and
// earnings are always recomputed from wall-clock deltas rather than trusting
// an in-memory counter.
package engine

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/errors"
)

// SessionRecorder is the Time Record Store boundary. Implementations append
// one completed session per stopped timer.
type SessionRecorder interface {
	RecordSession(ctx context.Context, session domain.TimeSession) (int64, error)
}

// SnapshotWriter persists the active-timer set after each mutation.
type SnapshotWriter interface {
	SaveTimers(ctx context.Context, timers []domain.ActiveTimer) error
}

// View is the read-only live state of one timer, computed at call time.
type View struct {
	TaskID         int64
	TaskTitle      string
	Category       domain.CategorySnapshot
	ElapsedSeconds float64
	Earnings       float64
	IsRunning      bool
	IsPaused       bool
}

// Engine maintains the active-timer set and transitions timer states.
type Engine struct {
	mu        sync.Mutex
	timers    map[int64]*domain.ActiveTimer
	recorder  SessionRecorder
	snapshots SnapshotWriter
	logger    zerolog.Logger

	// now is swapped out in tests
	now func() time.Time
}

// New creates an engine. snapshots may be nil when no durable slot is
// configured.
func New(recorder SessionRecorder, snapshots SnapshotWriter, logger zerolog.Logger) *Engine {
	return &Engine{
		timers:    make(map[int64]*domain.ActiveTimer),
		recorder:  recorder,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Load installs a restored timer set. Intended for initialization only;
// existing timers with the same task IDs are replaced.
func (e *Engine) Load(timers []domain.ActiveTimer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range timers {
		timer := t
		e.timers[timer.TaskID] = &timer
	}
}

// Start begins tracking taskID at the rate captured in category. Starting a
// task that is already running is a no-op, never a duplicate; starting a
// paused task resumes it.
func (e *Engine) Start(ctx context.Context, taskID int64, title string, category domain.CategorySnapshot) (View, error) {
	if taskID <= 0 {
		return View{}, errors.NewInvalidInputError("taskID", taskID, "must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	timer, exists := e.timers[taskID]
	switch {
	case exists && timer.IsRunning && !timer.IsPaused:
		// Idempotent start: guards against duplicate-start races.
		return e.view(timer, now), nil
	case exists && timer.IsPaused:
		timer.IsPaused = false
		timer.IsRunning = true
		timer.StartedAt = now
	default:
		timer = &domain.ActiveTimer{
			TaskID:    taskID,
			TaskTitle: title,
			Category:  category,
			IsRunning: true,
			StartedAt: now,
		}
		e.timers[taskID] = timer
	}

	e.persist(ctx)
	return e.view(timer, now), nil
}

// Pause holds a running timer, folding the wall-clock delta into the
// authoritative elapsed figure. Pausing an absent, paused, or stopped timer
// is a no-op; the returned bool reports whether a timer changed state.
func (e *Engine) Pause(ctx context.Context, taskID int64) (View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	timer, exists := e.timers[taskID]
	if !exists || !timer.IsRunning || timer.IsPaused {
		if exists {
			return e.view(timer, now), false
		}
		return View{}, false
	}

	e.pauseLocked(timer, now)
	e.persist(ctx)
	return e.view(timer, now), true
}

// Resume restarts a paused timer. A no-op unless the timer is paused.
func (e *Engine) Resume(ctx context.Context, taskID int64) (View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	timer, exists := e.timers[taskID]
	if !exists || !timer.IsPaused {
		if exists {
			return e.view(timer, now), false
		}
		return View{}, false
	}

	timer.IsPaused = false
	timer.IsRunning = true
	timer.StartedAt = now
	e.persist(ctx)
	return e.view(timer, now), true
}

// Stop finalizes the timer and hands a completed session to the record
// store. The timer leaves the active set even when recording fails, so a
// storage outage can never wedge the running set; the error is returned for
// the caller to surface or retry.
func (e *Engine) Stop(ctx context.Context, taskID int64) (*domain.TimeSession, error) {
	e.mu.Lock()

	timer, exists := e.timers[taskID]
	if !exists {
		e.mu.Unlock()
		return nil, nil
	}

	now := e.now()
	e.pauseLocked(timer, now)

	session := domain.NewTimeSession(
		timer.TaskID,
		timer.Category.HourlyRate,
		now.Add(-timer.Elapsed),
		now,
		timer.Elapsed,
	)

	delete(e.timers, taskID)
	e.persist(ctx)
	e.mu.Unlock()

	// Finalization above is ordered before submission: the session fields
	// are immutable by the time the store sees them.
	id, err := e.recorder.RecordSession(ctx, session)
	if err != nil {
		e.logger.Error().Err(err).Int64("task_id", taskID).Msg("failed to record session")
		return &session, err
	}
	session.ID = id

	e.logger.Info().
		Int64("task_id", taskID).
		Int64("duration_seconds", session.DurationSeconds).
		Float64("earnings_usd", session.EarningsUSD).
		Msg("session recorded")
	return &session, nil
}

// Reset zeroes a timer's accumulated time and earnings without stopping or
// removing it.
func (e *Engine) Reset(ctx context.Context, taskID int64) (View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	timer, exists := e.timers[taskID]
	if !exists {
		return View{}, false
	}

	timer.Elapsed = 0
	if timer.IsAdvancing() {
		timer.StartedAt = now
	}
	e.persist(ctx)
	return e.view(timer, now), true
}

// Delete removes a timer without creating a session (explicit discard).
func (e *Engine) Delete(ctx context.Context, taskID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.timers[taskID]; !exists {
		return false
	}
	delete(e.timers, taskID)
	e.persist(ctx)
	return true
}

// PauseAll pauses every advancing timer.
func (e *Engine) PauseAll(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	changed := 0
	for _, timer := range e.timers {
		if timer.IsAdvancing() {
			e.pauseLocked(timer, now)
			changed++
		}
	}
	if changed > 0 {
		e.persist(ctx)
	}
	return changed
}

// ResumeAll resumes every paused timer.
func (e *Engine) ResumeAll(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	changed := 0
	for _, timer := range e.timers {
		if timer.IsPaused {
			timer.IsPaused = false
			timer.IsRunning = true
			timer.StartedAt = now
			changed++
		}
	}
	if changed > 0 {
		e.persist(ctx)
	}
	return changed
}

// StopAll stops every timer, persisting one session per timer. Recording
// failures are joined and returned after every timer has been processed.
func (e *Engine) StopAll(ctx context.Context) ([]domain.TimeSession, error) {
	ids := e.taskIDs()

	var sessions []domain.TimeSession
	var errs []error
	for _, id := range ids {
		session, err := e.Stop(ctx, id)
		if err != nil {
			errs = append(errs, err)
		}
		if session != nil {
			sessions = append(sessions, *session)
		}
	}
	return sessions, stderrors.Join(errs...)
}

// ResetAll zeroes every timer.
func (e *Engine) ResetAll(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for _, timer := range e.timers {
		timer.Elapsed = 0
		if timer.IsAdvancing() {
			timer.StartedAt = now
		}
	}
	if len(e.timers) > 0 {
		e.persist(ctx)
	}
	return len(e.timers)
}

// DeleteAll discards every timer without recording sessions.
func (e *Engine) DeleteAll(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := len(e.timers)
	e.timers = make(map[int64]*domain.ActiveTimer)
	if count > 0 {
		e.persist(ctx)
	}
	return count
}

// View returns the live state of one timer.
func (e *Engine) View(taskID int64) (View, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	timer, exists := e.timers[taskID]
	if !exists {
		return View{}, false
	}
	return e.view(timer, e.now()), true
}

// Views returns the live state of every timer, ordered by task ID.
func (e *Engine) Views() []View {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	views := make([]View, 0, len(e.timers))
	for _, timer := range e.timers {
		views = append(views, e.view(timer, now))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].TaskID < views[j].TaskID })
	return views
}

// ActiveTimers returns a copy of the current timer set, for aggregation
// with live figures and for snapshotting.
func (e *Engine) ActiveTimers() []domain.ActiveTimer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeTimersLocked()
}

// Tick refreshes the durable snapshot and returns the live views. Intended
// for periodic callers such as a watch loop; reads are already live, so the
// only state Tick touches is the snapshot slot.
func (e *Engine) Tick(ctx context.Context) []View {
	e.mu.Lock()
	e.persist(ctx)
	e.mu.Unlock()
	return e.Views()
}

// pauseLocked folds the current wall-clock delta into elapsed and marks the
// timer paused. Caller holds e.mu.
func (e *Engine) pauseLocked(timer *domain.ActiveTimer, now time.Time) {
	if timer.IsAdvancing() {
		if delta := now.Sub(timer.StartedAt); delta > 0 {
			timer.Elapsed += delta
		}
	}
	timer.IsPaused = true
}

func (e *Engine) view(timer *domain.ActiveTimer, now time.Time) View {
	elapsed := timer.LiveElapsed(now)
	return View{
		TaskID:         timer.TaskID,
		TaskTitle:      timer.TaskTitle,
		Category:       timer.Category,
		ElapsedSeconds: elapsed.Seconds(),
		Earnings:       domain.Earnings(elapsed, timer.Category.HourlyRate),
		IsRunning:      timer.IsRunning,
		IsPaused:       timer.IsPaused,
	}
}

func (e *Engine) activeTimersLocked() []domain.ActiveTimer {
	timers := make([]domain.ActiveTimer, 0, len(e.timers))
	for _, timer := range e.timers {
		timers = append(timers, *timer)
	}
	sort.Slice(timers, func(i, j int) bool { return timers[i].TaskID < timers[j].TaskID })
	return timers
}

// persist snapshots the timer set. Failures are logged, never propagated:
// in-memory state stays authoritative for the current session and a thrown
// error mid-operation would freeze every running timer. Caller holds e.mu.
func (e *Engine) persist(ctx context.Context) {
	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.SaveTimers(ctx, e.activeTimersLocked()); err != nil {
		e.logger.Warn().Err(err).Msg("failed to snapshot active timers")
	}
}

func (e *Engine) taskIDs() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.timers))
	for id := range e.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

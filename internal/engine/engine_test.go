package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbb-tracker/internal/domain"
	"mbb-tracker/internal/logging"
)

type fakeRecorder struct {
	sessions []domain.TimeSession
	err      error
}

func (f *fakeRecorder) RecordSession(ctx context.Context, session domain.TimeSession) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sessions = append(f.sessions, session)
	return int64(len(f.sessions)), nil
}

type fakeSnapshots struct {
	saved [][]domain.ActiveTimer
	err   error
}

func (f *fakeSnapshots) SaveTimers(ctx context.Context, timers []domain.ActiveTimer) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, timers)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeRecorder, *fakeSnapshots) {
	t.Helper()
	recorder := &fakeRecorder{}
	snapshots := &fakeSnapshots{}
	e := New(recorder, snapshots, logging.Nop())
	return e, recorder, snapshots
}

func deepWork(rate float64) domain.CategorySnapshot {
	return domain.CategorySnapshot{CategoryID: 1, Label: "Deep Work", HourlyRate: rate}
}

func TestStartCreatesRunningTimer(t *testing.T) {
	e, _, snapshots := newTestEngine(t)

	view, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	assert.Equal(t, int64(1), view.TaskID)
	assert.Equal(t, "Write report", view.TaskTitle)
	assert.True(t, view.IsRunning)
	assert.False(t, view.IsPaused)
	assert.Equal(t, float64(0), view.ElapsedSeconds)
	require.Len(t, snapshots.saved, 1)
}

func TestStartRejectsNonPositiveTaskID(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Start(context.Background(), 0, "bad", deepWork(100))
	assert.Error(t, err)

	_, err = e.Start(context.Background(), -5, "bad", deepWork(100))
	assert.Error(t, err)
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	e, _, snapshots := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }

	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)
	savedBefore := len(snapshots.saved)

	// Second start an hour later must not reset accrued time or duplicate
	// the timer.
	e.now = func() time.Time { return base.Add(time.Hour) }
	view, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	assert.InDelta(t, 3600, view.ElapsedSeconds, 0.001)
	assert.Len(t, e.Views(), 1)
	assert.Equal(t, savedBefore, len(snapshots.saved), "idempotent start should not re-snapshot")
}

func TestStartResumesPausedTimer(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	e.now = func() time.Time { return base.Add(30 * time.Minute) }
	_, changed := e.Pause(context.Background(), 1)
	require.True(t, changed)

	e.now = func() time.Time { return base.Add(time.Hour) }
	view, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	assert.True(t, view.IsRunning)
	assert.False(t, view.IsPaused)
	assert.InDelta(t, 1800, view.ElapsedSeconds, 0.001)
}

func TestPauseFoldsWallClockDelta(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(120))
	require.NoError(t, err)

	e.now = func() time.Time { return base.Add(30 * time.Minute) }
	view, changed := e.Pause(context.Background(), 1)
	require.True(t, changed)
	assert.True(t, view.IsPaused)
	assert.InDelta(t, 1800, view.ElapsedSeconds, 0.001)

	// A paused timer must not keep accruing.
	e.now = func() time.Time { return base.Add(2 * time.Hour) }
	got, ok := e.View(1)
	require.True(t, ok)
	assert.InDelta(t, 1800, got.ElapsedSeconds, 0.001)
}

func TestPauseResumeConservesElapsed(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(100))
	require.NoError(t, err)

	// Run 10 minutes, pause for an hour, run 20 more minutes.
	e.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, changed := e.Pause(context.Background(), 1)
	require.True(t, changed)

	e.now = func() time.Time { return base.Add(70 * time.Minute) }
	_, changed = e.Resume(context.Background(), 1)
	require.True(t, changed)

	e.now = func() time.Time { return base.Add(90 * time.Minute) }
	view, ok := e.View(1)
	require.True(t, ok)
	assert.InDelta(t, float64(30*60), view.ElapsedSeconds, 0.001)
}

func TestPauseNoopCases(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, changed := e.Pause(context.Background(), 42)
	assert.False(t, changed, "pausing an absent timer")

	_, err := e.Start(context.Background(), 1, "Write report", deepWork(100))
	require.NoError(t, err)
	_, changed = e.Pause(context.Background(), 1)
	require.True(t, changed)
	_, changed = e.Pause(context.Background(), 1)
	assert.False(t, changed, "pausing an already paused timer")
}

func TestResumeNoopUnlessPaused(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, changed := e.Resume(context.Background(), 42)
	assert.False(t, changed, "resuming an absent timer")

	_, err := e.Start(context.Background(), 1, "Write report", deepWork(100))
	require.NoError(t, err)
	_, changed = e.Resume(context.Background(), 1)
	assert.False(t, changed, "resuming a running timer")
}

func TestStopRecordsSession(t *testing.T) {
	e, recorder, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	e.now = func() time.Time { return base.Add(time.Hour) }
	session, err := e.Stop(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, int64(1), session.TaskID)
	assert.Equal(t, float64(150), session.CategoryRate)
	assert.Equal(t, int64(3600), session.DurationSeconds)
	assert.Equal(t, 150.00, session.EarningsUSD)
	require.NotNil(t, session.EndedAt)
	assert.Equal(t, base.Add(time.Hour), *session.EndedAt)
	assert.Equal(t, base, session.StartedAt)

	require.Len(t, recorder.sessions, 1)
	assert.Empty(t, e.Views(), "stopped timer must leave the active set")
}

func TestStopEarningsRounding(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		rate     float64
		expected float64
	}{
		{"one hour at 150", time.Hour, 150, 150.00},
		{"half hour at 120", 30 * time.Minute, 120, 60.00},
		{"ten seconds at 100", 10 * time.Second, 100, 0.28},
		{"zero rate", time.Hour, 0, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(t)
			base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
			e.now = func() time.Time { return base }
			_, err := e.Start(context.Background(), 1, "t", deepWork(tt.rate))
			require.NoError(t, err)

			e.now = func() time.Time { return base.Add(tt.elapsed) }
			session, err := e.Stop(context.Background(), 1)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, tt.expected, session.EarningsUSD)
		})
	}
}

func TestStopAbsentTimer(t *testing.T) {
	e, _, _ := newTestEngine(t)

	session, err := e.Stop(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestStopRemovesTimerEvenWhenRecordingFails(t *testing.T) {
	e, recorder, _ := newTestEngine(t)
	recorder.err = fmt.Errorf("disk full")

	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	session, err := e.Stop(context.Background(), 1)
	assert.Error(t, err)
	assert.NotNil(t, session, "session data is still returned for the caller")
	assert.Empty(t, e.Views(), "a storage outage must not wedge the timer set")
}

func TestResetZeroesElapsedKeepsState(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	e.now = func() time.Time { return base.Add(time.Hour) }
	view, found := e.Reset(context.Background(), 1)
	require.True(t, found)
	assert.True(t, view.IsRunning)
	assert.InDelta(t, 0, view.ElapsedSeconds, 0.001)
	assert.InDelta(t, 0, view.Earnings, 0.001)

	_, found = e.Reset(context.Background(), 42)
	assert.False(t, found)
}

func TestDeleteDiscardsWithoutSession(t *testing.T) {
	e, recorder, _ := newTestEngine(t)

	_, err := e.Start(context.Background(), 1, "Write report", deepWork(150))
	require.NoError(t, err)

	assert.True(t, e.Delete(context.Background(), 1))
	assert.False(t, e.Delete(context.Background(), 1))
	assert.Empty(t, recorder.sessions)
}

func TestBulkOperations(t *testing.T) {
	e, recorder, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	for id := int64(1); id <= 3; id++ {
		_, err := e.Start(context.Background(), id, "task", deepWork(100))
		require.NoError(t, err)
	}

	e.now = func() time.Time { return base.Add(time.Hour) }
	assert.Equal(t, 3, e.PauseAll(context.Background()))
	assert.Equal(t, 0, e.PauseAll(context.Background()), "second pause-all finds nothing advancing")
	assert.Equal(t, 3, e.ResumeAll(context.Background()))

	sessions, err := e.StopAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
	assert.Len(t, recorder.sessions, 3)
	assert.Empty(t, e.Views())

	assert.Equal(t, 0, e.DeleteAll(context.Background()))
}

func TestViewsSortedByTaskID(t *testing.T) {
	e, _, _ := newTestEngine(t)

	for _, id := range []int64{3, 1, 2} {
		_, err := e.Start(context.Background(), id, "task", deepWork(100))
		require.NoError(t, err)
	}

	views := e.Views()
	require.Len(t, views, 3)
	assert.Equal(t, int64(1), views[0].TaskID)
	assert.Equal(t, int64(2), views[1].TaskID)
	assert.Equal(t, int64(3), views[2].TaskID)
}

func TestLoadInstallsRestoredTimers(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	e.Load([]domain.ActiveTimer{
		{TaskID: 7, TaskTitle: "Restored", Category: deepWork(200), Elapsed: time.Hour, IsRunning: true, StartedAt: base},
	})

	view, ok := e.View(7)
	require.True(t, ok)
	assert.InDelta(t, 3600, view.ElapsedSeconds, 0.001)
	assert.InDelta(t, 200.00, view.Earnings, 0.001)
}

func TestLiveElapsedClampsClockSkew(t *testing.T) {
	e, _, _ := newTestEngine(t)

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }
	_, err := e.Start(context.Background(), 1, "Write report", deepWork(100))
	require.NoError(t, err)

	// Wall clock jumping backwards must never yield negative elapsed time.
	e.now = func() time.Time { return base.Add(-time.Hour) }
	view, ok := e.View(1)
	require.True(t, ok)
	assert.GreaterOrEqual(t, view.ElapsedSeconds, float64(0))
}

func TestSnapshotFailureDoesNotBlockOperations(t *testing.T) {
	recorder := &fakeRecorder{}
	snapshots := &fakeSnapshots{err: fmt.Errorf("slot unavailable")}
	e := New(recorder, snapshots, logging.Nop())

	view, err := e.Start(context.Background(), 1, "Write report", deepWork(100))
	require.NoError(t, err)
	assert.True(t, view.IsRunning)
}

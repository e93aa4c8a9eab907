// Package analytics aggregates completed time sessions into windowed
// summaries. Aggregation is pure: a session collection plus a reference
// instant in, four window summaries out.
package analytics

import (
	"time"

	"mbb-tracker/internal/domain"
)

// WindowStats summarizes one aggregation window.
type WindowStats struct {
	Earnings    float64
	Hours       float64
	Count       int
	AverageRate float64
}

// Summary holds the four standard windows. Total has no lower bound.
type Summary struct {
	Today WindowStats
	Week  WindowStats
	Month WindowStats
	Total WindowStats
}

// Boundaries computes the UTC window starts for now: midnight of now's date,
// midnight of the Monday on or before now (ISO week start, so a Sunday is 6
// days after the prior Monday), and midnight of the 1st of now's month.
func Boundaries(now time.Time) (todayStart, weekStart, monthStart time.Time) {
	now = now.UTC()
	todayStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart = todayStart.AddDate(0, 0, -daysSinceMonday)

	monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return todayStart, weekStart, monthStart
}

// Aggregate buckets sessions into today/week/month/total windows. Sessions
// are attributed to their start time, never their end time: a session that
// starts before midnight and ends after it belongs to its start date.
// Sessions without an end time are active, and active sessions are excluded
// from every window, including total. AverageRate is duration-weighted by
// construction (earnings and hours are summed before dividing) and is a
// defined 0 when a window has no hours.
func Aggregate(sessions []domain.TimeSession, now time.Time) Summary {
	todayStart, weekStart, monthStart := Boundaries(now)

	var summary Summary
	for _, session := range sessions {
		if !session.IsCompleted() {
			continue
		}

		startedAt := session.StartedAt.UTC()
		addSession(&summary.Total, session)
		if !startedAt.Before(monthStart) {
			addSession(&summary.Month, session)
		}
		if !startedAt.Before(weekStart) {
			addSession(&summary.Week, session)
		}
		if !startedAt.Before(todayStart) {
			addSession(&summary.Today, session)
		}
	}

	finalizeRate(&summary.Today)
	finalizeRate(&summary.Week)
	finalizeRate(&summary.Month)
	finalizeRate(&summary.Total)
	return summary
}

// CombineWithLive adds the live (not yet persisted) accrued earnings and
// elapsed time of active timers to the stored summary. The combined figures
// are computed at render time and never persisted; stored-session counts are
// unchanged. Timers are attributed to windows by their wall-clock start, the
// same rule stored sessions follow.
func CombineWithLive(summary Summary, timers []domain.ActiveTimer, now time.Time) Summary {
	todayStart, weekStart, monthStart := Boundaries(now)

	for _, timer := range timers {
		earnings := timer.LiveEarnings(now)
		hours := timer.LiveElapsed(now).Hours()
		if hours == 0 {
			continue
		}

		startedAt := timer.StartedAt.UTC()
		addLive(&summary.Total, earnings, hours)
		if !startedAt.Before(monthStart) {
			addLive(&summary.Month, earnings, hours)
		}
		if !startedAt.Before(weekStart) {
			addLive(&summary.Week, earnings, hours)
		}
		if !startedAt.Before(todayStart) {
			addLive(&summary.Today, earnings, hours)
		}
	}

	finalizeRate(&summary.Today)
	finalizeRate(&summary.Week)
	finalizeRate(&summary.Month)
	finalizeRate(&summary.Total)
	return summary
}

func addSession(w *WindowStats, session domain.TimeSession) {
	w.Earnings += session.EarningsUSD
	w.Hours += session.Hours()
	w.Count++
}

func addLive(w *WindowStats, earnings, hours float64) {
	w.Earnings += earnings
	w.Hours += hours
}

func finalizeRate(w *WindowStats) {
	if w.Hours > 0 {
		w.AverageRate = w.Earnings / w.Hours
	} else {
		w.AverageRate = 0
	}
}

package stats

import (
	"time"
)

// Window is a named, deterministic date range over which coding time is
// aggregated. Boundaries are a pure function of the current date in the
// configured timezone.
type Window int

const (
	// WindowDay covers today only.
	WindowDay Window = iota
	// WindowWeek covers today and the 6 preceding days.
	WindowWeek
	// WindowMonth covers today and the 29 preceding days.
	WindowMonth
	// WindowYear covers today and the 364 preceding days.
	WindowYear
)

// String returns the window's name.
func (w Window) String() string {
	switch w {
	case WindowDay:
		return "day"
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	case WindowYear:
		return "year"
	default:
		return "unknown"
	}
}

// Days returns the number of calendar days the window spans.
func (w Window) Days() int {
	switch w {
	case WindowDay:
		return 1
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	case WindowYear:
		return 365
	default:
		return 0
	}
}

// Cacheable reports whether leaderboards for this window are cached.
// Day and week aggregation over a handful of users is cheap enough to
// recompute per request; month and year are not.
func (w Window) Cacheable() bool {
	return w == WindowMonth || w == WindowYear
}

// Resolve returns the inclusive [start, end] date range anchored at now.
// Both bounds are truncated to midnight in now's location; end is always
// today and start is Days()-1 calendar days earlier.
func (w Window) Resolve(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -(w.Days() - 1))

	return start, end
}

package widgets

import (
	"time"

	"github.com/david-saint/ductiva/internal/streak"
)

// Entry is one point on a widget timeline.
type Entry struct {
	Date   time.Time       `json:"date"`
	Habits []HabitSnapshot `json:"habits"`
}

// Timeline is a single entry valid until Refresh.
type Timeline struct {
	Entries []Entry   `json:"entries"`
	Refresh time.Time `json:"refresh"`
}

// NextRefresh is the next calendar midnight after now, when streaks and
// status text roll over. An unusable calendar falls back to an hour.
func NextRefresh(cal streak.Calendar, now time.Time) time.Time {
	next, ok := cal.NextMidnight(now)
	if !ok {
		return now.Add(time.Hour)
	}
	return next
}

// BuildTimeline returns the current entry and its refresh policy.
func BuildTimeline(snapshots []HabitSnapshot, cal streak.Calendar, now time.Time) Timeline {
	return Timeline{
		Entries: []Entry{{Date: now, Habits: snapshots}},
		Refresh: NextRefresh(cal, now),
	}
}

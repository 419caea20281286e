// Package streak decides, for a calendar and a reference time, whether a
// habit is scheduled on a day, whether it was completed, how long its
// current streak is and how much of the active completion window remains.
//
// Nothing in this package reads the system clock. When the calendar cannot
// resolve a day or week the operations fail soft: nothing is scheduled or
// completed, streaks are zero and progress is full.
package streak

import (
	"time"

	"github.com/david-saint/ductiva/internal/models"
)

// Emphasis thresholds.
const (
	DailyEmphasisThreshold         = 5
	WeeklyEmphasisThreshold        = 3
	SpecificDaysEmphasisPerWeekday = 3
)

// Snapshot is the derived state of a habit at a point in time.
type Snapshot struct {
	CurrentStreak      int  `json:"current_streak"`
	TotalCompletedDays int  `json:"total_completed_days"`
	EmphasisActive     bool `json:"emphasis_active"`
}

// Engine evaluates schedules and completions against a Calendar.
type Engine struct {
	cal Calendar
}

// NewEngine returns an Engine bound to cal.
func NewEngine(cal Calendar) *Engine {
	return &Engine{cal: cal}
}

// Calendar returns the calendar the engine evaluates against.
func (e *Engine) Calendar() Calendar {
	return e.cal
}

// IsScheduled reports whether schedule includes the day containing date.
func (e *Engine) IsScheduled(date time.Time, schedule models.Schedule) bool {
	day, ok := e.cal.DayOf(date)
	if !ok {
		return false
	}
	return isScheduledOn(day, schedule)
}

// IsScheduledDay is IsScheduled for a civil date.
func (e *Engine) IsScheduledDay(day Day, schedule models.Schedule) bool {
	if !e.cal.Valid() {
		return false
	}
	return isScheduledOn(day, schedule)
}

func isScheduledOn(day Day, schedule models.Schedule) bool {
	switch s := schedule.(type) {
	case models.Daily, models.Weekly:
		return true
	case models.SpecificDays:
		return s.Contains(day.Weekday())
	default:
		return false
	}
}

// NormalizedCompletionDays truncates completions to their calendar day and
// removes duplicates.
func (e *Engine) NormalizedCompletionDays(completions []time.Time) DaySet {
	days := make(DaySet, len(completions))
	if !e.cal.Valid() {
		return days
	}
	for _, c := range completions {
		day, _ := e.cal.DayOf(c)
		days[day] = struct{}{}
	}
	return days
}

// IsCompleted reports whether the day containing date is in days.
func (e *Engine) IsCompleted(date time.Time, days DaySet) bool {
	day, ok := e.cal.DayOf(date)
	if !ok {
		return false
	}
	return days.Has(day)
}

// CurrentStreak counts consecutive scheduled days (or calendar weeks for
// weekly habits) ending at now.
func (e *Engine) CurrentStreak(habit models.Habit, now time.Time) int {
	today, ok := e.cal.DayOf(now)
	if !ok {
		return 0
	}
	created, ok := e.cal.DayOf(habit.CreatedAt)
	if !ok {
		return 0
	}
	days := e.NormalizedCompletionDays(habit.Completions)

	if _, weekly := habit.Schedule.(models.Weekly); weekly {
		return e.weeklyStreak(today, created, days)
	}
	return e.dailyStreak(today, created, days, habit.Schedule)
}

// dailyStreak walks back from today to the creation day. An incomplete
// today does not break the streak; out-of-schedule days are skipped.
func (e *Engine) dailyStreak(today, created Day, days DaySet, schedule models.Schedule) int {
	streak := 0
	if isScheduledOn(today, schedule) && days.Has(today) {
		streak++
	}

	for d := today.AddDays(-1); !d.Before(created); d = d.AddDays(-1) {
		if !isScheduledOn(d, schedule) {
			continue
		}
		if !days.Has(d) {
			break
		}
		streak++
	}
	return streak
}

// weeklyStreak counts calendar weeks with at least one completion. The
// current week is still in progress, so an empty one adds nothing but does
// not end the walk.
func (e *Engine) weeklyStreak(today, created Day, days DaySet) int {
	week, _ := e.cal.WeekStart(today)

	streak := 0
	if weekHasCompletion(week, days) {
		streak++
	}

	for w := week.AddDays(-7); ; w = w.AddDays(-7) {
		if w.AddDays(7).Before(created) {
			break
		}
		if !weekHasCompletion(w, days) {
			break
		}
		streak++
	}
	return streak
}

func weekHasCompletion(start Day, days DaySet) bool {
	for i := 0; i < 7; i++ {
		if days.Has(start.AddDays(i)) {
			return true
		}
	}
	return false
}

// EmphasisActive reports whether a streak is long enough to be highlighted.
func EmphasisActive(schedule models.Schedule, streak int) bool {
	switch s := schedule.(type) {
	case models.Daily:
		return streak >= DailyEmphasisThreshold
	case models.Weekly:
		return streak >= WeeklyEmphasisThreshold
	case models.SpecificDays:
		return streak >= SpecificDaysEmphasisPerWeekday*max(1, s.Len())
	default:
		return false
	}
}

// PeriodProgress returns the fraction of the current completion window
// (the day, or the week for weekly habits) still remaining, in [0, 1].
func (e *Engine) PeriodProgress(schedule models.Schedule, now time.Time) float64 {
	var start, end time.Time
	var ok bool
	if _, weekly := schedule.(models.Weekly); weekly {
		start, end, ok = e.cal.WeekInterval(now)
	} else {
		start, end, ok = e.cal.DayInterval(now)
	}
	if !ok {
		return 1.0
	}

	duration := end.Sub(start)
	if duration <= 0 {
		return 1.0
	}
	elapsed := now.Sub(start)
	remaining := 1 - elapsed.Seconds()/duration.Seconds()
	return min(1, max(0, remaining))
}

// Snapshot derives the streak, lifetime total and emphasis for habit.
func (e *Engine) Snapshot(habit models.Habit, now time.Time) Snapshot {
	streak := e.CurrentStreak(habit, now)
	return Snapshot{
		CurrentStreak:      streak,
		TotalCompletedDays: e.NormalizedCompletionDays(habit.Completions).Len(),
		EmphasisActive:     EmphasisActive(habit.Schedule, streak),
	}
}

// IsCompletedToday reports whether habit has a completion on the day of now.
func (e *Engine) IsCompletedToday(habit models.Habit, now time.Time) bool {
	return e.IsCompleted(now, e.NormalizedCompletionDays(habit.Completions))
}

// Package calendarview builds the month grid shown for a single habit.
package calendarview

import (
	"time"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

// GridSize is six rows of seven days.
const GridSize = 42

// Cell is one day in the month grid.
type Cell struct {
	Date             streak.Day
	InDisplayedMonth bool
	Scheduled        bool
	Completed        bool
	Today            bool
}

// Month is the month view model for one habit.
type Month struct {
	habit  models.Habit
	engine *streak.Engine
	start  streak.Day
	now    time.Time
}

// New shows the month containing now.
func New(habit models.Habit, engine *streak.Engine, now time.Time) Month {
	today, ok := engine.Calendar().DayOf(now)
	if !ok {
		today = streak.DayFromTime(now)
	}
	return Month{
		habit:  habit,
		engine: engine,
		start:  streak.Day{Year: today.Year, Month: today.Month, Day: 1},
		now:    now,
	}
}

// ForMonth shows the month containing day.
func ForMonth(habit models.Habit, engine *streak.Engine, day streak.Day, now time.Time) Month {
	m := New(habit, engine, now)
	m.start = streak.Day{Year: day.Year, Month: day.Month, Day: 1}
	return m
}

// Start is the first day of the displayed month.
func (m Month) Start() streak.Day {
	return m.start
}

// Title renders e.g. "February 2026".
func (m Month) Title() string {
	return time.Date(m.start.Year, m.start.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Previous moves one month back.
func (m Month) Previous() Month {
	m.start = m.start.AddMonths(-1)
	return m
}

// Next moves one month forward.
func (m Month) Next() Month {
	m.start = m.start.AddMonths(1)
	return m
}

// WeekdayHeaders returns the short weekday names in grid column order.
func (m Month) WeekdayHeaders() []string {
	first := m.engine.Calendar().FirstWeekday
	if !first.Valid() {
		first = models.Monday
	}
	headers := make([]string, 7)
	for i := range headers {
		headers[i] = models.Weekday((int(first)-1+i)%7 + 1).Short()
	}
	return headers
}

// Days returns 42 cells starting at the first day of the week containing
// the first of the month.
func (m Month) Days() []Cell {
	cal := m.engine.Calendar()
	gridStart, ok := cal.WeekStart(m.start)
	if !ok {
		gridStart = m.start
	}
	today, _ := cal.DayOf(m.now)
	completed := m.engine.NormalizedCompletionDays(m.habit.Completions)

	cells := make([]Cell, GridSize)
	for i := range cells {
		d := gridStart.AddDays(i)
		cells[i] = Cell{
			Date:             d,
			InDisplayedMonth: d.Year == m.start.Year && d.Month == m.start.Month,
			Scheduled:        m.engine.IsScheduledDay(d, m.habit.Schedule),
			Completed:        completed.Has(d),
			Today:            ok && d == today,
		}
	}
	return cells
}

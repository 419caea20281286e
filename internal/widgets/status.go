package widgets

import (
	"fmt"
	"time"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/deeplink"
	"github.com/david-saint/ductiva/internal/streak"
)

const (
	StatusDone     = "Done"
	StatusOffToday = "Off Today"
)

// dayCutoff is when the daily window is shown as closing.
const dayCutoff = 23*time.Hour + 59*time.Minute

// StatusText is "Done" when completed today, "Off Today" when today is not
// scheduled, and otherwise the time left until 23:59.
func StatusText(s HabitSnapshot, engine *streak.Engine, now time.Time) string {
	habit := s.Habit()
	if engine.IsCompletedToday(habit, now) {
		return StatusDone
	}
	if !engine.IsScheduled(now, habit.Schedule) {
		return StatusOffToday
	}

	start, _, ok := engine.Calendar().DayInterval(now)
	if !ok {
		return StatusOffToday
	}
	return FormatRemaining(start.Add(dayCutoff).Sub(now))
}

// FormatRemaining renders a duration as "Nhr, Mm" or "Mm".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dhr, %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// SlotCounter renders e.g. "2/4 SLOTS ACTIVE".
func SlotCounter(active int) string {
	return fmt.Sprintf(constants.WidgetSlotCounterText, active, constants.MaxHabits)
}

// View is everything a widget host needs to draw one habit.
type View struct {
	Habit          HabitSnapshot `json:"habit"`
	Status         string        `json:"status"`
	Progress       float64       `json:"progress"`
	Urgency        string        `json:"urgency"`
	ScheduledToday bool          `json:"scheduled_today"`
	CompletedToday bool          `json:"completed_today"`
	EmphasisActive bool          `json:"emphasis_active"`
	DeepLink       string        `json:"deep_link"`
}

// Describe derives the view for one snapshot at now.
func Describe(s HabitSnapshot, engine *streak.Engine, now time.Time) View {
	habit := s.Habit()
	progress := engine.PeriodProgress(s.Schedule, now)
	return View{
		Habit:          s,
		Status:         StatusText(s, engine, now),
		Progress:       progress,
		Urgency:        streak.UrgencyFor(progress).String(),
		ScheduledToday: engine.IsScheduled(now, s.Schedule),
		CompletedToday: engine.IsCompletedToday(habit, now),
		EmphasisActive: streak.EmphasisActive(s.Schedule, s.CurrentStreak),
		DeepLink:       deeplink.HabitURLString(s.ID),
	}
}

package habits

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/david-saint/ductiva/internal/calendarview"
	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/widgets"
)

type HabitListCmd struct {
	JSON bool `help:"Print habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	now := ctx.Clock()
	snaps := widgets.Snapshots(habits, engine, now)

	if c.JSON {
		views := make([]widgets.View, 0, len(snaps))
		for _, s := range snaps {
			views = append(views, widgets.Describe(s, engine, now))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(snaps) == 0 {
		fmt.Println("No habits found. Add one with 'ductiva habit add NAME'.")
		return nil
	}

	fmt.Println(widgets.SlotCounter(len(snaps)))
	fmt.Println()
	for _, s := range snaps {
		v := widgets.Describe(s, engine, now)
		fmt.Printf("  %s %-20s %-16s %-12s %s\n",
			marker(v), s.Name, s.Schedule.Description(),
			streakText(s.Schedule, s.CurrentStreak, v.EmphasisActive), v.Status)
	}
	return nil
}

func marker(v widgets.View) string {
	switch {
	case v.CompletedToday:
		return "✓"
	case !v.ScheduledToday:
		return "-"
	default:
		return "○"
	}
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Plain bool   `help:"Print markdown without terminal styling."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	md := report(habit, engine, ctx.Clock())
	if c.Plain {
		fmt.Print(md)
		return nil
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

// report is the markdown body of 'habit show'.
func report(habit models.Habit, engine *streak.Engine, now time.Time) string {
	snap := widgets.NewSnapshot(habit, engine, now)
	view := widgets.Describe(snap, engine, now)
	stats := engine.Snapshot(habit, now)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", habit.Name)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Schedule | %s |\n", habit.Schedule.Description())
	fmt.Fprintf(&b, "| Icon | %s |\n", habit.Icon)
	fmt.Fprintf(&b, "| Created | %s |\n", dayLabel(habit.CreatedAt.In(now.Location())))
	fmt.Fprintf(&b, "| Current streak | %s |\n", streakText(habit.Schedule, stats.CurrentStreak, stats.EmphasisActive))
	fmt.Fprintf(&b, "| Days completed | %d |\n", stats.TotalCompletedDays)
	fmt.Fprintf(&b, "| Today | %s |\n", view.Status)
	fmt.Fprintf(&b, "| Window left | %.0f%% (%s) |\n", view.Progress*100, view.Urgency)
	fmt.Fprintf(&b, "| Link | `%s` |\n", view.DeepLink)

	recent := recentDays(engine, habit, now, 7)
	if len(recent) > 0 {
		b.WriteString("\n## Last 7 days\n\n")
		for _, line := range recent {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}

func recentDays(engine *streak.Engine, habit models.Habit, now time.Time, n int) []string {
	cal := engine.Calendar()
	today, ok := cal.DayOf(now)
	if !ok {
		return nil
	}
	days := engine.NormalizedCompletionDays(habit.Completions)

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		d := today.AddDays(-i)
		status := "missed"
		switch {
		case days.Has(d):
			status = "done"
		case !engine.IsScheduledDay(d, habit.Schedule):
			status = "off"
		case i == 0:
			status = "open"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", d.Weekday().Short(), d, status))
	}
	return lines
}

type HabitCalendarCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *HabitCalendarCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	now := ctx.Clock()
	month := calendarview.New(habit, engine, now)
	if c.Month != "" {
		t, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return fmt.Errorf("invalid month format: %s (expected YYYY-MM)", c.Month)
		}
		month = calendarview.ForMonth(habit, engine, streak.Day{Year: t.Year(), Month: t.Month(), Day: 1}, now)
	}

	fmt.Printf("%s  (%s)\n\n", habit.Name, habit.Schedule.Description())
	fmt.Println(month.Render())
	return nil
}

// markTarget resolves --date to a calendar day and the timestamp recorded
// for it. Today's marks carry the real time; past days are stamped at noon.
func markTarget(cal streak.Calendar, date string, now time.Time) (streak.Day, time.Time, error) {
	today, ok := cal.DayOf(now)
	if !ok {
		return streak.Day{}, time.Time{}, fmt.Errorf("invalid calendar settings")
	}
	if date == "" {
		return today, now, nil
	}

	day, err := streak.ParseDay(date)
	if err != nil {
		return streak.Day{}, time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	if day.After(today) {
		return streak.Day{}, time.Time{}, fmt.Errorf("cannot mark %s: it is in the future", day)
	}
	if day == today {
		return day, now, nil
	}
	return day, day.In(cal.Location).Add(12 * time.Hour), nil
}

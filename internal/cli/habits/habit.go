package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/models"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with streaks and today's status."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit's name, icon or schedule."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Mark     HabitMarkCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	Show     HabitShowCmd     `cmd:"" help:"Show a habit's streak report."`
	Calendar HabitCalendarCmd `cmd:"" help:"Show a month of completions."`
}

type HabitAddCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Icon     string `help:"Icon identifier." default:"circle"`
	Schedule string `help:"Schedule: daily, weekly or days." default:"daily" enum:"daily,weekly,days,specific_days"`
	Days     string `help:"Weekdays for a 'days' schedule, e.g. mon,wed,fri."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	schedule, err := parseSchedule(c.Schedule, c.Days)
	if err != nil {
		return err
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Icon:      c.Icon,
		Schedule:  schedule,
		CreatedAt: ctx.Clock(),
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	ctx.HabitChanged(habit.ID)

	fmt.Printf("✓ Added habit: %s (%s)\n", strings.TrimSpace(c.Name), schedule.Description())
	return nil
}

type HabitEditCmd struct {
	Habit    string  `arg:"" help:"Habit name or ID."`
	Name     *string `help:"New name."`
	Icon     *string `help:"New icon identifier."`
	Schedule string  `help:"New schedule: daily, weekly or days."`
	Days     string  `help:"Weekdays for a 'days' schedule, e.g. mon,wed,fri."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		habit.Name = *c.Name
		updated = true
	}
	if c.Icon != nil {
		habit.Icon = *c.Icon
		updated = true
	}
	if c.Schedule != "" || c.Days != "" {
		kind := c.Schedule
		if kind == "" {
			kind = "days"
		}
		schedule, err := parseSchedule(kind, c.Days)
		if err != nil {
			return err
		}
		habit.Schedule = schedule
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --name, --icon, --schedule or --days.")
		return nil
	}

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	ctx.HabitChanged(habit.ID)

	fmt.Printf("✓ Updated habit: %s (%s)\n", strings.TrimSpace(habit.Name), habit.Schedule.Description())
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its history?", habit.Name)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ctx.HabitChanged(habit.ID)

	fmt.Printf("✓ Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	now := ctx.Clock()
	day, at, err := markTarget(engine.Calendar(), c.Date, now)
	if err != nil {
		return err
	}

	completed, err := ctx.Store.ToggleCompletion(habit.ID, engine.Calendar(), at)
	if err != nil {
		return fmt.Errorf("failed to toggle completion: %w", err)
	}
	ctx.HabitChanged(habit.ID)

	if completed {
		fmt.Printf("✓ Marked %q done for %s\n", habit.Name, day)
	} else {
		fmt.Printf("Unmarked %q for %s\n", habit.Name, day)
	}

	if refreshed, err := ctx.Store.GetHabit(habit.ID); err == nil {
		snap := engine.Snapshot(refreshed, now)
		fmt.Printf("  Current streak: %s\n", streakText(refreshed.Schedule, snap.CurrentStreak, snap.EmphasisActive))
	}
	return nil
}

// parseSchedule rejects a days schedule with no days, which would never be
// due.
func parseSchedule(kind, days string) (models.Schedule, error) {
	schedule, err := models.ParseSchedule(kind, days)
	if err != nil {
		return nil, err
	}
	sd, ok := schedule.(models.SpecificDays)
	if ok && sd.Len() == 0 {
		return nil, fmt.Errorf("a days schedule needs --days, e.g. --days mon,wed,fri")
	}
	if !ok && strings.TrimSpace(days) != "" {
		return nil, fmt.Errorf("--days only applies to a days schedule, not %s", schedule.Kind())
	}
	return schedule, nil
}

func streakText(schedule models.Schedule, n int, emphasis bool) string {
	unit := "day"
	if schedule.Kind() == models.ScheduleWeekly {
		unit = "week"
	}
	if n != 1 {
		unit += "s"
	}
	text := fmt.Sprintf("%d %s", n, unit)
	if emphasis {
		text += " 🔥"
	}
	return text
}

func dayLabel(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}

package system

import (
	"encoding/json"
	"fmt"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/widgets"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump habit data and derived metrics as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

// habitDump pairs the stored habit with what the engine derives from it.
type habitDump struct {
	Habit       widgets.HabitSnapshot `json:"habit"`
	Completions []models.Completion   `json:"completions"`
	Metrics     streak.Snapshot       `json:"metrics"`
	Progress    float64               `json:"progress"`
	Calendar    string                `json:"calendar"`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	completions, err := ctx.Store.GetCompletions(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}

	now := ctx.Clock()
	cal := engine.Calendar()
	return printJSON(habitDump{
		Habit:       widgets.NewSnapshot(habit, engine, now),
		Completions: completions,
		Metrics:     engine.Snapshot(habit, now),
		Progress:    engine.PeriodProgress(habit.Schedule, now),
		Calendar:    fmt.Sprintf("%s, weeks start %s", cal.Location, cal.FirstWeekday),
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/tui"
)

type TuiCmd struct {
	Habit string `help:"Habit name or ID to select on start."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	focus := ""
	if c.Habit != "" {
		habit, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		focus = habit.ID
	}
	return LaunchTUI(ctx, focus)
}

// LaunchTUI runs the interactive UI until the user quits. focusID selects a
// habit on start and may be empty.
func LaunchTUI(ctx *cli.Context, focusID string) error {
	ctx.PerformAutomaticBackup()

	opts := []tui.Option{tui.WithFocus(focusID)}
	if ctx.Notifier != nil {
		opts = append(opts, tui.WithRefresher(ctx.Notifier))
	}
	if ctx.Now != nil {
		opts = append(opts, tui.WithClock(ctx.Now))
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package widgetcmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/cli/system"
	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/deeplink"
	"github.com/david-saint/ductiva/internal/notifier"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/widgetapi"
	"github.com/david-saint/ductiva/internal/widgets"
)

type WidgetCmd struct {
	Small   WidgetSmallCmd   `cmd:"" help:"Render the small widget (one habit)." default:"1"`
	Medium  WidgetMediumCmd  `cmd:"" help:"Render the medium widget (all habits)."`
	Large   WidgetLargeCmd   `cmd:"" help:"Render the large widget (all habits plus a month)."`
	Refresh WidgetRefreshCmd `cmd:"" help:"Ask a running widget host to reload."`
}

type RenderFlags struct {
	Habit string `help:"Habit ID to focus. Defaults to the oldest habit."`
}

type WidgetSmallCmd struct{ RenderFlags }

func (c *WidgetSmallCmd) Run(ctx *cli.Context) error {
	return render(ctx, widgets.Small, c.Habit)
}

type WidgetMediumCmd struct{ RenderFlags }

func (c *WidgetMediumCmd) Run(ctx *cli.Context) error {
	return render(ctx, widgets.Medium, c.Habit)
}

type WidgetLargeCmd struct{ RenderFlags }

func (c *WidgetLargeCmd) Run(ctx *cli.Context) error {
	return render(ctx, widgets.Large, c.Habit)
}

func render(ctx *cli.Context, family widgets.Family, habitID string) error {
	out, err := Render(ctx, family, habitID)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// Render draws one widget family from the current store contents.
func Render(ctx *cli.Context, family widgets.Family, habitID string) (string, error) {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return "", fmt.Errorf("failed to get habits: %w", err)
	}
	engine, err := ctx.Engine()
	if err != nil {
		return "", err
	}
	now := ctx.Clock()
	snaps := widgets.Snapshots(habits, engine, now)
	return widgets.NewRenderer(engine).Render(family, snaps, habitID, now), nil
}

type WidgetRefreshCmd struct{}

func (c *WidgetRefreshCmd) Run(ctx *cli.Context) error {
	err := notifier.New().Notify(constants.WidgetRefreshReason, "")
	if errors.Is(err, notifier.ErrHostNotRunning) {
		fmt.Println("ℹ No widget host is running.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh widgets: %w", err)
	}
	fmt.Println("✓ Widget host refreshed")
	return nil
}

type OpenCmd struct {
	URL   string `arg:"" help:"Deep link, e.g. ductiva://habit/<id>."`
	Print bool   `help:"Print the habit summary instead of opening the TUI."`
}

func (c *OpenCmd) Run(ctx *cli.Context) error {
	id, err := deeplink.Parse(c.URL)
	if err != nil {
		return err
	}
	habit, err := ctx.Store.GetHabit(id.String())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("link points to a habit that no longer exists: %w", err)
		}
		return err
	}

	if c.Print {
		engine, err := ctx.Engine()
		if err != nil {
			return err
		}
		now := ctx.Clock()
		view := widgets.Describe(widgets.NewSnapshot(habit, engine, now), engine, now)
		fmt.Printf("%s (%s)\n", habit.Name, habit.Schedule.Description())
		fmt.Printf("  Streak: %d\n", view.Habit.CurrentStreak)
		fmt.Printf("  Today:  %s\n", view.Status)
		return nil
	}
	return system.LaunchTUI(ctx, habit.ID)
}

type ServeCmd struct {
	Addr string `help:"Listen address." default:"${serve_addr}"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving widget data on http://%s (Ctrl+C to stop)\n", c.Addr)
	return widgetapi.New(ctx.Store).ListenAndServe(sigCtx, c.Addr)
}

package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/david-saint/ductiva/internal/backup"
	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/notifier"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
)

type schemaReporter interface {
	SchemaVersions() (int, int, error)
}

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks print ⚠ instead of failing the run.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
	run     func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Calendar settings", needsDB: true, run: checkCalendarSettings},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Completion dates", needsDB: true, run: checkCompletionDates},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Widget host", warnOnly: true, run: checkWidgetHost},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, bool, error) {
	r, ok := ctx.Store.(schemaReporter)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err := r.SchemaVersions()
	return current, latest, true, err
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'ductiva migrate')", current, latest)
	}
	return nil
}

func checkCalendarSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if _, err := streak.CalendarFromSettings(settings); err != nil {
		return err
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	if len(habits) > constants.MaxHabits {
		return fmt.Errorf("found %d habits, more than the limit of %d", len(habits), constants.MaxHabits)
	}

	names := make(map[string]bool)
	for _, h := range habits {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("habit %s has an empty name", h.ID)
		}
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if names[key] {
			return fmt.Errorf("duplicate habit name: %s", h.Name)
		}
		names[key] = true

		if sd, ok := h.Schedule.(models.SpecificDays); ok && sd.Len() == 0 {
			return fmt.Errorf("habit %q has a days schedule with no days", h.Name)
		}
	}
	return nil
}

func checkCompletionDates(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	engine, err := ctx.Engine()
	if err != nil {
		return err
	}
	today, ok := engine.Calendar().DayOf(ctx.Clock())
	if !ok {
		return errors.New("calendar cannot resolve today")
	}

	future := 0
	for _, h := range habits {
		completions, err := ctx.Store.GetCompletions(h.ID)
		if err != nil {
			return fmt.Errorf("failed to get completions for %s: %w", h.Name, err)
		}
		for _, c := range completions {
			day, err := streak.ParseDay(c.Day)
			if err != nil {
				return fmt.Errorf("habit %q has a malformed completion day %q", h.Name, c.Day)
			}
			if day.After(today) {
				future++
			}
		}
	}
	if future > 0 {
		return fmt.Errorf("found %d completions dated in the future", future)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'ductiva backup create'")
	}
	return nil
}

func checkWidgetHost(ctx *cli.Context) error {
	dir, err := notifier.GetWidgetHostConfigDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, constants.NotifierLockfileName)); err != nil {
		return errors.New("no widget host lockfile found; widgets refresh on their own timeline only")
	}
	return nil
}

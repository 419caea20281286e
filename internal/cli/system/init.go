package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/storage/postgres"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized ductiva storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force only supports SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if postgres.IsConnString(source) {
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(source), nil
}

// copyFrom copies settings, habits and completion marks. Habits already
// present in the destination (same ID) are skipped, so the copy can be
// rerun.
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}
	cal, err := streak.CalendarFromSettings(settings)
	if err != nil {
		cal = streak.DefaultCalendar()
	}

	fmt.Println("  Migrating habits...")
	habits, err := src.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	copied, marks := 0, 0
	for _, habit := range habits {
		if _, err := ctx.Store.GetHabit(habit.ID); err == nil {
			continue
		}
		if err := ctx.Store.AddHabit(habit); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", habit.Name, err)
		}
		copied++

		completions, err := src.GetCompletions(habit.ID)
		if err != nil {
			return fmt.Errorf("failed to get completions for %s: %w", habit.Name, err)
		}
		for _, comp := range completions {
			day, _ := cal.DayOf(comp.CompletedAt)
			done, err := ctx.Store.IsCompleted(habit.ID, cal, day)
			if err != nil {
				return err
			}
			if done {
				continue
			}
			if _, err := ctx.Store.ToggleCompletion(habit.ID, cal, comp.CompletedAt); err != nil {
				return fmt.Errorf("failed to copy completion %s for %s: %w", comp.Day, habit.Name, err)
			}
			marks++
		}
	}
	fmt.Printf("    Migrated %d habits and %d completions\n", copied, marks)
	if copied > 0 {
		ctx.HabitChanged("")
	}
	return nil
}

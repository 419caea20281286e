package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/backup"
	"github.com/david-saint/ductiva/internal/logger"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
)

// Refresher is told about every successful habit mutation so widget hosts
// can redraw.
type Refresher interface {
	Refresh(habitID string)
}

type Context struct {
	Store    storage.Provider
	Notifier Refresher
	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time
}

func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Engine builds the streak engine from the persisted week start and time
// zone. Broken settings fall back to the default calendar with a warning so
// the habit list still renders.
func (c *Context) Engine() (*streak.Engine, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	cal, err := streak.CalendarFromSettings(settings)
	if err != nil {
		logger.Warn("Invalid calendar settings, using defaults", "error", err)
		cal = streak.DefaultCalendar()
	}
	return streak.NewEngine(cal), nil
}

// ResolveHabit finds a habit by UUID or, failing that, by case-insensitive
// name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		habit, err := c.Store.GetHabit(ref)
		if err == nil || !errors.Is(err, storage.ErrNotFound) {
			return habit, err
		}
	}
	habit, err := c.Store.GetHabitByName(ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("%w: %q", storage.ErrNotFound, ref)
	}
	return habit, err
}

// HabitChanged pokes the widget host after a mutation. habitID may be empty.
func (c *Context) HabitChanged(habitID string) {
	if c.Notifier == nil {
		return
	}
	c.Notifier.Refresh(habitID)
}

// PerformAutomaticBackup snapshots SQLite stores and only logs on failure.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

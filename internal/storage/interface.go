package storage

import (
	"time"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	// GetAllHabits returns every habit with its completions, oldest first.
	GetAllHabits() ([]models.Habit, error)
	// UpdateHabit persists name, icon and schedule. Completions are left
	// untouched.
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Completions
	// ToggleCompletion marks the day containing at under cal completed
	// (recording at as the completion time) when it is not, and clears it
	// otherwise. Existing marks are bucketed by their completion time under
	// cal. It reports whether the day is completed afterwards.
	ToggleCompletion(habitID string, cal streak.Calendar, at time.Time) (bool, error)
	IsCompleted(habitID string, cal streak.Calendar, day streak.Day) (bool, error)
	GetCompletions(habitID string) ([]models.Completion, error)

	// Utils
	GetConfigPath() string
}

package storage

import "errors"

var (
	// ErrNotInitialized is returned by Load when the database does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotFound is returned when a habit does not exist.
	ErrNotFound = errors.New("habit not found")
	// ErrHabitLimitReached is returned when adding a habit past MaxHabits.
	ErrHabitLimitReached = errors.New("habit limit reached")
	// ErrInvalidName is returned for a name that is empty after trimming.
	ErrInvalidName = errors.New("habit name cannot be empty")
	// ErrDuplicateName is returned when another habit already uses the name.
	ErrDuplicateName = errors.New("a habit with that name already exists")
)

// ErrInvalidCalendar is returned when a completion is toggled or looked up
// under a calendar without a usable time zone or week start.
var ErrInvalidCalendar = errors.New("invalid calendar settings")

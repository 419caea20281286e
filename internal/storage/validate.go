package storage

import (
	"fmt"
	"strings"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
)

// NormalizeHabit trims the name and fills defaults for icon and schedule.
// It returns ErrInvalidName for a blank name.
func NormalizeHabit(h models.Habit) (models.Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return h, ErrInvalidName
	}
	h.Icon = strings.TrimSpace(h.Icon)
	if h.Icon == "" {
		h.Icon = models.DefaultIcon
	}
	if h.Schedule == nil {
		h.Schedule = models.Daily{}
	}
	return h, nil
}

// CheckCapacity returns ErrHabitLimitReached when count live habits leave
// no free slot.
func CheckCapacity(count int) error {
	if count >= constants.MaxHabits {
		return fmt.Errorf("%w: at most %d habits can be tracked", ErrHabitLimitReached, constants.MaxHabits)
	}
	return nil
}

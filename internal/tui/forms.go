package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

// HabitFormModel backs the add and edit habit form.
type HabitFormModel struct {
	Name     string
	Icon     string
	Schedule models.ScheduleKind
	Days     []models.Weekday
}

func newHabitFormModel(h *models.Habit) *HabitFormModel {
	if h == nil {
		return &HabitFormModel{Icon: models.DefaultIcon, Schedule: models.ScheduleDaily}
	}
	fm := &HabitFormModel{Name: h.Name, Icon: h.Icon, Schedule: h.Schedule.Kind()}
	if sd, ok := h.Schedule.(models.SpecificDays); ok {
		fm.Days = sd.Days()
	}
	return fm
}

func (fm *HabitFormModel) schedule() (models.Schedule, error) {
	switch fm.Schedule {
	case models.ScheduleWeekly:
		return models.Weekly{}, nil
	case models.ScheduleSpecificDays:
		if len(fm.Days) == 0 {
			return nil, fmt.Errorf("pick at least one day")
		}
		return models.NewSpecificDays(fm.Days...), nil
	default:
		return models.Daily{}, nil
	}
}

// weekdayOptions lists the days starting from the calendar's first weekday.
func weekdayOptions(cal streak.Calendar) []huh.Option[models.Weekday] {
	first := cal.FirstWeekday
	if !first.Valid() {
		first = models.Monday
	}
	opts := make([]huh.Option[models.Weekday], 0, 7)
	for i := 0; i < 7; i++ {
		d := models.Weekday((int(first)-1+i)%7 + 1)
		opts = append(opts, huh.NewOption(d.String(), d))
	}
	return opts
}

// NewHabitForm creates the form used to add or edit a habit
func NewHabitForm(fm *HabitFormModel, cal streak.Calendar) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Description("Icon identifier shown by widgets").
				Value(&fm.Icon),
			huh.NewSelect[models.ScheduleKind]().
				Title("Schedule").
				Options(
					huh.NewOption("Daily", models.ScheduleDaily),
					huh.NewOption("Weekly", models.ScheduleWeekly),
					huh.NewOption("Specific days", models.ScheduleSpecificDays),
				).
				Value(&fm.Schedule),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Days").
				Options(weekdayOptions(cal)...).
				Value(&fm.Days).
				Validate(func(days []models.Weekday) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return fm.Schedule != models.ScheduleSpecificDays
		}),
	).WithTheme(huh.ThemeDracula())
}

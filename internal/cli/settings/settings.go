package settings

import (
	"fmt"
	"strings"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	WeekStart *string `help:"First day of the week for weekly streaks and calendars (e.g. monday, sunday)."`
	Timezone  *string `help:"IANA time zone for day boundaries, or 'Local' for the system zone."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List || (c.WeekStart == nil && c.Timezone == nil) {
		if !c.List {
			fmt.Println("No changes specified. Use --week-start or --timezone to update settings.")
			fmt.Println()
		}
		printSettings(settings)
		return nil
	}

	if c.WeekStart != nil {
		day, err := models.ParseWeekday(*c.WeekStart)
		if err != nil {
			return fmt.Errorf("invalid week start: %w", err)
		}
		settings.WeekStart = strings.ToLower(day.String())
	}
	if c.Timezone != nil {
		settings.Timezone = strings.TrimSpace(*c.Timezone)
	}

	// Reject anything the engine could not build a calendar from.
	if _, err := streak.CalendarFromSettings(settings); err != nil {
		return err
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	// Streaks and week boundaries may have moved.
	ctx.HabitChanged("")

	fmt.Println("Settings updated successfully.")
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Week Start: %s\n", s.WeekStart)
	fmt.Printf("  Timezone:   %s\n", s.Timezone)
}

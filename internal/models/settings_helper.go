package models

import (
	"fmt"
	"time"

	"github.com/david-saint/ductiva/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingWeekStart:
			if value == "" {
				continue
			}
			if _, err := ParseWeekday(value); err != nil {
				return Settings{}, fmt.Errorf("parsing week_start: %w", err)
			}
			settings.WeekStart = value
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWeekStart: settings.WeekStart,
		constants.SettingTimezone:  settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.WeekStart == "" {
		settings.WeekStart = constants.DefaultWeekStart
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// FirstWeekday resolves the configured week start.
func (s Settings) FirstWeekday() (Weekday, error) {
	if s.WeekStart == "" {
		return Monday, nil
	}
	return ParseWeekday(s.WeekStart)
}

// Location resolves the configured timezone. "Local" and "" map to
// time.Local.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

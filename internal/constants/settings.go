package constants

const (
	SettingWeekStart = "week_start"
	SettingTimezone  = "timezone"

	// Default Settings Values
	DefaultWeekStart = "monday"
	DefaultTimezone  = "Local" // Use system local timezone by default
)

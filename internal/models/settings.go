package models

// Settings represents application-wide settings
type Settings struct {
	WeekStart string `json:"week_start"` // first day of the week, e.g. "monday"
	Timezone  string `json:"timezone"`   // IANA timezone name (e.g. "Europe/London", or "Local" for system timezone)
}

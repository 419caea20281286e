package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for month selection on the calendar (YYYY-MM)
	MonthFormat = "2006-01"
)

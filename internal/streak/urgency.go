package streak

// Urgency is the display tier of a period progress value.
type Urgency int

const (
	Calm Urgency = iota
	Warning
	Critical
)

// Urgency thresholds on remaining progress.
const (
	CriticalBelow = 0.20
	WarningBelow  = 0.40
)

// UrgencyFor maps remaining progress to a display tier.
func UrgencyFor(progress float64) Urgency {
	switch {
	case progress < CriticalBelow:
		return Critical
	case progress < WarningBelow:
		return Warning
	default:
		return Calm
	}
}

func (u Urgency) String() string {
	switch u {
	case Critical:
		return "critical"
	case Warning:
		return "warning"
	default:
		return "calm"
	}
}

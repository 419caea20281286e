package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday numbers the days of the week Sunday=1 through Saturday=7.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayOf returns the weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday()) + 1
}

// FromTimeWeekday converts a time.Weekday.
func FromTimeWeekday(d time.Weekday) Weekday {
	return Weekday(d) + 1
}

// Valid reports whether d is within Sunday..Saturday.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// TimeWeekday converts d to the standard library representation.
func (d Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(d - 1)
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d-1]
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (d Weekday) Short() string {
	if !d.Valid() {
		return "?"
	}
	return weekdayNames[d-1][:3]
}

// ParseWeekday accepts full or abbreviated English names (any case) or the
// numbers 1-7.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := Weekday(n)
		if !d.Valid() {
			return 0, fmt.Errorf("weekday number %d is outside 1-7", n)
		}
		return d, nil
	}
	for i, name := range weekdayNames {
		lower := strings.ToLower(name)
		if s == lower || (len(s) >= 3 && strings.HasPrefix(lower, s)) {
			return Weekday(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ScheduleKind identifies a Schedule variant in storage and JSON.
type ScheduleKind string

const (
	ScheduleDaily        ScheduleKind = "daily"
	ScheduleWeekly       ScheduleKind = "weekly"
	ScheduleSpecificDays ScheduleKind = "specific_days"
)

// Schedule is one of Daily, Weekly or SpecificDays.
type Schedule interface {
	Kind() ScheduleKind
	Description() string
	isSchedule()
}

// Daily schedules a habit every day.
type Daily struct{}

// Weekly lets a habit be logged on any day; streaks count calendar weeks.
type Weekly struct{}

// SpecificDays schedules a habit on a fixed set of weekdays. The zero value
// is never scheduled.
type SpecificDays struct {
	days []Weekday
}

func (Daily) Kind() ScheduleKind { return ScheduleDaily }
func (Daily) Description() string { return "Daily" }
func (Daily) isSchedule() {}
func (Weekly) Kind() ScheduleKind { return ScheduleWeekly }
func (Weekly) Description() string { return "Weekly" }
func (Weekly) isSchedule() {}
func (SpecificDays) Kind() ScheduleKind { return ScheduleSpecificDays }
func (SpecificDays) isSchedule() {}

// NewSpecificDays builds a SpecificDays schedule. Duplicates collapse and
// invalid weekdays are dropped.
func NewSpecificDays(days ...Weekday) SpecificDays {
	seen := make(map[Weekday]bool, len(days))
	var out []Weekday
	for _, d := range days {
		if !d.Valid() || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return SpecificDays{days: out}
}

// Days returns the distinct weekdays in ascending order.
func (s SpecificDays) Days() []Weekday {
	out := make([]Weekday, len(s.days))
	copy(out, s.days)
	return out
}

// Contains reports whether d is one of the scheduled weekdays.
func (s SpecificDays) Contains(d Weekday) bool {
	for _, day := range s.days {
		if day == d {
			return true
		}
	}
	return false
}

// Len returns the number of distinct weekdays.
func (s SpecificDays) Len() int {
	return len(s.days)
}

func (s SpecificDays) Description() string {
	if len(s.days) == 0 {
		return "Specific Days"
	}
	names := make([]string, len(s.days))
	for i, d := range s.days {
		names[i] = d.Short()
	}
	return strings.Join(names, ", ")
}

// ScheduleSpec is the flat, serializable form of a Schedule.
type ScheduleSpec struct {
	Kind ScheduleKind `json:"kind"`
	Days []Weekday    `json:"days,omitempty"`
}

// SpecOf flattens s. A nil schedule is treated as Daily.
func SpecOf(s Schedule) ScheduleSpec {
	switch v := s.(type) {
	case SpecificDays:
		return ScheduleSpec{Kind: ScheduleSpecificDays, Days: v.Days()}
	case Weekly:
		return ScheduleSpec{Kind: ScheduleWeekly}
	default:
		return ScheduleSpec{Kind: ScheduleDaily}
	}
}

// Schedule rebuilds the Schedule value.
func (s ScheduleSpec) Schedule() (Schedule, error) {
	switch s.Kind {
	case ScheduleDaily:
		return Daily{}, nil
	case ScheduleWeekly:
		return Weekly{}, nil
	case ScheduleSpecificDays:
		for _, d := range s.Days {
			if !d.Valid() {
				return nil, fmt.Errorf("invalid weekday %d in schedule", int(d))
			}
		}
		return NewSpecificDays(s.Days...), nil
	default:
		return nil, fmt.Errorf("unknown schedule kind %q", s.Kind)
	}
}

// EncodeDays renders weekdays as a comma separated list of numbers ("2,4,6").
func EncodeDays(days []Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// DecodeDays parses the output of EncodeDays.
func DecodeDays(s string) ([]Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		days = append(days, Weekday(n))
	}
	return days, nil
}

// ParseSchedule builds a Schedule from user input such as
// ("days", "mon,wed,fri"). "days" and "specific" are aliases of
// specific_days.
func ParseSchedule(kind, days string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", string(ScheduleDaily):
		return Daily{}, nil
	case string(ScheduleWeekly):
		return Weekly{}, nil
	case string(ScheduleSpecificDays), "days", "specific":
		var list []Weekday
		for _, part := range strings.Split(days, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			d, err := ParseWeekday(part)
			if err != nil {
				return nil, err
			}
			list = append(list, d)
		}
		return NewSpecificDays(list...), nil
	default:
		return nil, fmt.Errorf("unknown schedule %q (want daily, weekly or days)", kind)
	}
}

package streak

import (
	"fmt"
	"time"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
)

// Day is a civil calendar date with no time zone attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayFromTime returns the civil date of t in t's own location.
func DayFromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayFromTime(t), nil
}

// civil normalizes overflowed fields through a UTC date.
func (d Day) civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayFromTime(d.civil().AddDate(0, 0, n))
}

// AddMonths moves d by n months, pinned to the first of the month.
func (d Day) AddMonths(n int) Day {
	return DayFromTime(time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	return d.civil().Before(o.civil())
}

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool {
	return d.civil().After(o.civil())
}

// Weekday returns the weekday of the civil date.
func (d Day) Weekday() models.Weekday {
	return models.WeekdayOf(d.civil())
}

// In returns the start of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	return d.civil().Format(constants.DateFormat)
}

// DaySet is a set of civil dates.
type DaySet map[Day]struct{}

// Has reports whether d is in the set.
func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of distinct days.
func (s DaySet) Len() int {
	return len(s)
}

// Calendar fixes the time zone and first day of the week used to bucket
// timestamps into days and weeks.
type Calendar struct {
	Location     *time.Location
	FirstWeekday models.Weekday
}

// NewCalendar returns a Calendar for loc starting weeks on first.
func NewCalendar(loc *time.Location, first models.Weekday) Calendar {
	return Calendar{Location: loc, FirstWeekday: first}
}

// DefaultCalendar uses the local time zone and Monday-first weeks.
func DefaultCalendar() Calendar {
	return NewCalendar(time.Local, models.Monday)
}

// CalendarFromSettings builds the calendar described by persisted settings.
func CalendarFromSettings(s models.Settings) (Calendar, error) {
	loc, err := s.Location()
	if err != nil {
		return Calendar{}, err
	}
	first, err := s.FirstWeekday()
	if err != nil {
		return Calendar{}, fmt.Errorf("invalid week start %q: %w", s.WeekStart, err)
	}
	return NewCalendar(loc, first), nil
}

// Valid reports whether the calendar can resolve day and week intervals.
func (c Calendar) Valid() bool {
	return c.Location != nil && c.FirstWeekday.Valid()
}

// DayOf returns the civil date containing t.
func (c Calendar) DayOf(t time.Time) (Day, bool) {
	if !c.Valid() {
		return Day{}, false
	}
	return DayFromTime(t.In(c.Location)), true
}

// WeekStart returns the first day of the week containing d.
func (c Calendar) WeekStart(d Day) (Day, bool) {
	if !c.Valid() {
		return Day{}, false
	}
	offset := (int(d.Weekday()) - int(c.FirstWeekday) + 7) % 7
	return d.AddDays(-offset), true
}

// DayInterval returns [start, end) of the day containing t.
func (c Calendar) DayInterval(t time.Time) (time.Time, time.Time, bool) {
	day, ok := c.DayOf(t)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return day.In(c.Location), day.AddDays(1).In(c.Location), true
}

// WeekInterval returns [start, end) of the week containing t.
func (c Calendar) WeekInterval(t time.Time) (time.Time, time.Time, bool) {
	day, ok := c.DayOf(t)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, _ := c.WeekStart(day)
	return start.In(c.Location), start.AddDays(7).In(c.Location), true
}

// NextMidnight returns the start of the day after the one containing t.
func (c Calendar) NextMidnight(t time.Time) (time.Time, bool) {
	_, end, ok := c.DayInterval(t)
	return end, ok
}

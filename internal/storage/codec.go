package storage

import (
	"fmt"
	"time"

	"github.com/david-saint/ductiva/internal/models"
)

// TimestampLayout is fixed width so stored timestamps sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp renders t for a TEXT column, keeping its offset.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a value written by FormatTimestamp. Plain RFC3339
// values are accepted too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// EncodeSchedule splits a schedule into its kind and day columns.
func EncodeSchedule(s models.Schedule) (string, string) {
	spec := models.SpecOf(s)
	return string(spec.Kind), models.EncodeDays(spec.Days)
}

// DecodeSchedule rebuilds a schedule from its kind and day columns.
func DecodeSchedule(kind, days string) (models.Schedule, error) {
	list, err := models.DecodeDays(days)
	if err != nil {
		return nil, err
	}
	return models.ScheduleSpec{Kind: models.ScheduleKind(kind), Days: list}.Schedule()
}

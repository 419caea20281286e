package storage

import (
	"testing"
	"time"

	"github.com/david-saint/ductiva/internal/models"
)

func TestTimestampRoundTripKeepsOffset(t *testing.T) {
	zone := time.FixedZone("WAT", 60*60)
	at := time.Date(2026, time.February, 18, 23, 30, 0, 0, zone)

	got, err := ParseTimestamp(FormatTimestamp(at))
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	if !got.Equal(at) {
		t.Errorf("round trip = %v, want %v", got, at)
	}
	if _, offset := got.Zone(); offset != 60*60 {
		t.Errorf("offset = %d, want 3600", offset)
	}
}

func TestTimestampsSortLexically(t *testing.T) {
	earlier := FormatTimestamp(time.Date(2026, 2, 1, 10, 0, 5, 0, time.UTC))
	later := FormatTimestamp(time.Date(2026, 2, 1, 10, 0, 5, 100, time.UTC))
	if !(earlier < later) {
		t.Errorf("%q should sort before %q", earlier, later)
	}
}

func TestScheduleColumns(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.Schedule
		wantKind string
		wantDays string
	}{
		{"daily", models.Daily{}, "daily", ""},
		{"weekly", models.Weekly{}, "weekly", ""},
		{"specific", models.NewSpecificDays(models.Friday, models.Monday), "specific_days", "2,6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, days := EncodeSchedule(tt.schedule)
			if kind != tt.wantKind || days != tt.wantDays {
				t.Fatalf("EncodeSchedule() = (%q, %q), want (%q, %q)", kind, days, tt.wantKind, tt.wantDays)
			}
			decoded, err := DecodeSchedule(kind, days)
			if err != nil {
				t.Fatalf("DecodeSchedule failed: %v", err)
			}
			if decoded.Description() != tt.schedule.Description() {
				t.Errorf("decoded %q, want %q", decoded.Description(), tt.schedule.Description())
			}
		})
	}

	if _, err := DecodeSchedule("fortnightly", ""); err == nil {
		t.Error("expected error for unknown kind")
	}
}

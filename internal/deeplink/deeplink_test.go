package deeplink

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestRoundTrip(t *testing.T) {
	id := uuid.New()

	link := HabitURL(id)
	if link != "ductiva://habit/"+id.String() {
		t.Errorf("HabitURL() = %q", link)
	}

	parsed, err := Parse(link)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", link, err)
	}
	if parsed != id {
		t.Errorf("Parse() = %v, want %v", parsed, id)
	}
}

func TestParseRejects(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name string
		link string
	}{
		{"wrong scheme", "https://habit/" + id},
		{"wrong host", "ductiva://settings/" + id},
		{"missing id", "ductiva://habit/"},
		{"not a uuid", "ductiva://habit/read-daily"},
		{"extra segment", "ductiva://habit/" + id + "/edit"},
		{"garbage", "%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.link); !errors.Is(err, ErrInvalidLink) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidLink", tt.link, err)
			}
		})
	}
}

func TestHabitURLString(t *testing.T) {
	if HabitURLString("not-a-uuid") != "" {
		t.Error("expected empty link for a non-UUID id")
	}
	id := uuid.New()
	if HabitURLString(id.String()) != HabitURL(id) {
		t.Error("HabitURLString and HabitURL disagree")
	}
}

package widgets

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

func testEngine() *streak.Engine {
	return streak.NewEngine(streak.NewCalendar(time.UTC, models.Monday))
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.February, day, hour, minute, 0, 0, time.UTC)
}

func readHabit() models.Habit {
	return models.Habit{
		ID:          uuid.NewString(),
		Name:        "Read",
		Icon:        "book",
		Schedule:    models.Daily{},
		CreatedAt:   at(1, 9, 0),
		Completions: []time.Time{at(16, 9, 0), at(17, 9, 0), at(18, 9, 0)},
	}
}

func TestNewSnapshotIsACopy(t *testing.T) {
	habit := readHabit()
	snap := NewSnapshot(habit, testEngine(), at(19, 12, 0))

	if snap.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", snap.CurrentStreak)
	}

	habit.Completions[0] = at(1, 0, 0)
	if !snap.Completions[0].Equal(at(16, 9, 0)) {
		t.Error("snapshot shares completion storage with the habit")
	}

	copied := snap.Habit()
	copied.Completions[1] = at(2, 0, 0)
	if !snap.Completions[1].Equal(at(17, 9, 0)) {
		t.Error("Habit() shares completion storage with the snapshot")
	}
}

func TestSnapshotJSON(t *testing.T) {
	habit := readHabit()
	habit.Schedule = models.NewSpecificDays(models.Monday, models.Wednesday)
	snap := NewSnapshot(habit, testEngine(), at(19, 12, 0))

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"specific_days"`) {
		t.Errorf("schedule missing from JSON: %s", data)
	}

	var decoded HabitSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal snapshot: %v", err)
	}
	if decoded.Schedule.Description() != "Mon, Wed" || decoded.CurrentStreak != snap.CurrentStreak {
		t.Errorf("decoded snapshot = %+v", decoded)
	}
}

func TestSelect(t *testing.T) {
	older := NewSnapshot(models.Habit{ID: "a", Name: "Old", Schedule: models.Daily{}, CreatedAt: at(1, 0, 0)}, testEngine(), at(19, 0, 0))
	newer := NewSnapshot(models.Habit{ID: "b", Name: "New", Schedule: models.Daily{}, CreatedAt: at(5, 0, 0)}, testEngine(), at(19, 0, 0))
	snaps := []HabitSnapshot{newer, older}

	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{"configured id", "b", "b"},
		{"missing id falls back to oldest", "zzz", "a"},
		{"empty id falls back to oldest", "", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(snaps, tt.id)
			if !ok || got.ID != tt.wantID {
				t.Errorf("Select(%q) = %q, %v; want %q", tt.id, got.ID, ok, tt.wantID)
			}
		})
	}

	if _, ok := Select(nil, "a"); ok {
		t.Error("Select on no habits should report false")
	}
}

func TestSnapshotsOrderedByCreation(t *testing.T) {
	habits := []models.Habit{
		{ID: "late", Schedule: models.Daily{}, CreatedAt: at(10, 0, 0)},
		{ID: "early", Schedule: models.Daily{}, CreatedAt: at(2, 0, 0)},
	}
	snaps := Snapshots(habits, testEngine(), at(19, 0, 0))
	if snaps[0].ID != "early" || snaps[1].ID != "late" {
		t.Errorf("order = %s, %s", snaps[0].ID, snaps[1].ID)
	}
}

func TestStatusText(t *testing.T) {
	engine := testEngine()
	mondays := models.NewSpecificDays(models.Monday)

	tests := []struct {
		name  string
		habit models.Habit
		now   time.Time
		want  string
	}{
		{
			name:  "completed today",
			habit: models.Habit{Schedule: models.Daily{}, CreatedAt: at(1, 0, 0), Completions: []time.Time{at(19, 7, 0)}},
			now:   at(19, 12, 0),
			want:  "Done",
		},
		{
			name:  "off today",
			habit: models.Habit{Schedule: mondays, CreatedAt: at(1, 0, 0)},
			now:   at(19, 12, 0),
			want:  "Off Today",
		},
		{
			name:  "completed on an off day",
			habit: models.Habit{Schedule: mondays, CreatedAt: at(1, 0, 0), Completions: []time.Time{at(19, 7, 0)}},
			now:   at(19, 12, 0),
			want:  "Done",
		},
		{
			name:  "hours and minutes left",
			habit: models.Habit{Schedule: models.Daily{}, CreatedAt: at(1, 0, 0)},
			now:   at(19, 12, 30),
			want:  "11hr, 29m",
		},
		{
			name:  "one minute left",
			habit: models.Habit{Schedule: models.Daily{}, CreatedAt: at(1, 0, 0)},
			now:   at(19, 23, 58),
			want:  "1m",
		},
		{
			name:  "past the cutoff",
			habit: models.Habit{Schedule: models.Weekly{}, CreatedAt: at(1, 0, 0)},
			now:   time.Date(2026, 2, 19, 23, 59, 30, 0, time.UTC),
			want:  "0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(tt.habit, engine, tt.now)
			if got := StatusText(snap, engine, tt.now); got != tt.want {
				t.Errorf("StatusText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlotCounter(t *testing.T) {
	if got := SlotCounter(2); got != "2/4 SLOTS ACTIVE" {
		t.Errorf("SlotCounter(2) = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	habit := readHabit()
	for day := 12; day <= 15; day++ {
		habit.Completions = append(habit.Completions, at(day, 9, 0))
	}
	engine := testEngine()
	now := at(19, 21, 0)

	view := Describe(NewSnapshot(habit, engine, now), engine, now)
	if !view.EmphasisActive {
		t.Error("seven day streak should be emphasized")
	}
	if view.Urgency != "critical" {
		t.Errorf("Urgency = %q at 21:00, want critical", view.Urgency)
	}
	if !strings.HasPrefix(view.DeepLink, "ductiva://habit/") {
		t.Errorf("DeepLink = %q", view.DeepLink)
	}
	if view.CompletedToday || !view.ScheduledToday {
		t.Errorf("unexpected today flags: %+v", view)
	}
}

func TestNextRefresh(t *testing.T) {
	cal := streak.NewCalendar(time.UTC, models.Monday)
	got := NextRefresh(cal, at(19, 15, 0))
	if !got.Equal(at(20, 0, 0)) {
		t.Errorf("NextRefresh() = %v, want midnight", got)
	}

	broken := streak.Calendar{}
	if got := NextRefresh(broken, at(19, 15, 0)); !got.Equal(at(19, 16, 0)) {
		t.Errorf("NextRefresh() with unusable calendar = %v", got)
	}

	tl := BuildTimeline(nil, cal, at(19, 15, 0))
	if len(tl.Entries) != 1 || !tl.Refresh.Equal(at(20, 0, 0)) {
		t.Errorf("BuildTimeline() = %+v", tl)
	}
}

func TestRenderFamilies(t *testing.T) {
	engine := testEngine()
	now := at(19, 12, 0)
	habit := readHabit()
	snaps := Snapshots([]models.Habit{habit}, engine, now)
	renderer := NewRenderer(engine)

	small := renderer.Render(Small, snaps, habit.ID, now)
	for _, want := range []string{"Read", "3 days streak", "11hr, 59m", "ductiva://habit/" + habit.ID} {
		if !strings.Contains(small, want) {
			t.Errorf("small widget missing %q:\n%s", want, small)
		}
	}

	medium := renderer.Render(Medium, snaps, "", now)
	if !strings.Contains(medium, "1/4 SLOTS ACTIVE") {
		t.Errorf("medium widget missing slot counter:\n%s", medium)
	}

	large := renderer.Render(Large, snaps, "", now)
	if !strings.Contains(large, "February 2026") {
		t.Errorf("large widget missing calendar:\n%s", large)
	}

	empty := renderer.Render(Small, nil, "", now)
	if !strings.Contains(empty, "No habits yet") {
		t.Errorf("empty widget = %q", empty)
	}
}

func TestParseFamily(t *testing.T) {
	if f, err := ParseFamily(" Medium "); err != nil || f != Medium {
		t.Errorf("ParseFamily(Medium) = %v, %v", f, err)
	}
	if _, err := ParseFamily("huge"); err == nil {
		t.Error("expected error for unknown family")
	}
}

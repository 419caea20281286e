package habits

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/david-saint/ductiva/internal/cli"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
)

type countingRefresher struct {
	calls int
}

func (r *countingRefresher) Refresh(string) { r.calls++ }

var testNow = time.Date(2026, time.February, 19, 12, 0, 0, 0, time.Local)

func setupTestHabitContext(t *testing.T) (*cli.Context, *countingRefresher) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "ductiva.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	refresher := &countingRefresher{}
	return &cli.Context{
		Store:    store,
		Notifier: refresher,
		Now:      func() time.Time { return testNow },
	}, refresher
}

func TestHabitAddCmd(t *testing.T) {
	ctx, refresher := setupTestHabitContext(t)

	tests := []struct {
		name    string
		cmd     HabitAddCmd
		wantErr bool
	}{
		{"daily", HabitAddCmd{Name: "Read", Icon: "book", Schedule: "daily"}, false},
		{"weekly", HabitAddCmd{Name: "Long run", Schedule: "weekly"}, false},
		{"specific days", HabitAddCmd{Name: "Gym", Schedule: "days", Days: "mon,wed,fri"}, false},
		{"days without days", HabitAddCmd{Name: "Yoga", Schedule: "days"}, true},
		{"days on a weekly schedule", HabitAddCmd{Name: "Yoga", Schedule: "weekly", Days: "mon"}, true},
		{"bad weekday", HabitAddCmd{Name: "Yoga", Schedule: "days", Days: "funday"}, true},
		{"blank name", HabitAddCmd{Name: "   ", Schedule: "daily"}, true},
		{"duplicate name", HabitAddCmd{Name: "read", Schedule: "daily"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	gym, err := ctx.Store.GetHabitByName("Gym")
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	sd, ok := gym.Schedule.(models.SpecificDays)
	if !ok || sd.Len() != 3 || !sd.Contains(models.Wednesday) {
		t.Errorf("unexpected schedule %#v", gym.Schedule)
	}
	if !gym.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", gym.CreatedAt, testNow)
	}
	if refresher.calls != 3 {
		t.Errorf("refresh calls = %d, want 3", refresher.calls)
	}
}

func TestHabitAddRejectsFifthHabit(t *testing.T) {
	ctx, _ := setupTestHabitContext(t)
	for i := 0; i < 4; i++ {
		cmd := HabitAddCmd{Name: fmt.Sprintf("Habit %d", i), Schedule: "daily"}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}
	cmd := HabitAddCmd{Name: "One too many", Schedule: "daily"}
	if err := cmd.Run(ctx); !errors.Is(err, storage.ErrHabitLimitReached) {
		t.Errorf("error = %v, want ErrHabitLimitReached", err)
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _ := setupTestHabitContext(t)
	add := HabitAddCmd{Name: "Read", Schedule: "daily"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}

	name := "Read more"
	edit := HabitEditCmd{Habit: "read", Name: &name, Days: "tue,thu"}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	habit, err := ctx.Store.GetHabitByName("Read more")
	if err != nil {
		t.Fatalf("renamed habit not found: %v", err)
	}
	if habit.Schedule.Description() != "Tue, Thu" {
		t.Errorf("schedule = %q", habit.Schedule.Description())
	}

	weekly := HabitEditCmd{Habit: habit.ID, Schedule: "weekly", Days: "mon"}
	if err := weekly.Run(ctx); err == nil {
		t.Error("expected --days with a weekly schedule to be rejected")
	}
	habit, _ = ctx.Store.GetHabit(habit.ID)
	if habit.Schedule.Description() != "Tue, Thu" {
		t.Errorf("rejected edit changed schedule to %q", habit.Schedule.Description())
	}

	noop := HabitEditCmd{Habit: habit.ID}
	if err := noop.Run(ctx); err != nil {
		t.Errorf("no-op edit failed: %v", err)
	}

	missing := HabitEditCmd{Habit: "Walk", Name: &name}
	if err := missing.Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, _ := setupTestHabitContext(t)
	add := HabitAddCmd{Name: "Read", Schedule: "daily"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}

	del := HabitDeleteCmd{Habit: "Read", Yes: true}
	if err := del.Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetHabitByName("Read"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("habit still present: %v", err)
	}
}

func TestHabitMarkCmdToggles(t *testing.T) {
	ctx, refresher := setupTestHabitContext(t)
	add := HabitAddCmd{Name: "Read", Schedule: "daily"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}
	habit, _ := ctx.Store.GetHabitByName("Read")
	today := streak.DayFromTime(testNow)

	mark := HabitMarkCmd{Habit: "Read"}
	if err := mark.Run(ctx); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	done, err := ctx.Store.IsCompleted(habit.ID, streak.DefaultCalendar(), today)
	if err != nil || !done {
		t.Fatalf("expected today completed, got %v (%v)", done, err)
	}

	if err := mark.Run(ctx); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	done, err = ctx.Store.IsCompleted(habit.ID, streak.DefaultCalendar(), today)
	if err != nil || done {
		t.Errorf("expected toggle back to incomplete, got %v (%v)", done, err)
	}

	past := HabitMarkCmd{Habit: "Read", Date: "2026-02-17"}
	if err := past.Run(ctx); err != nil {
		t.Fatalf("past mark failed: %v", err)
	}
	done, _ = ctx.Store.IsCompleted(habit.ID, streak.DefaultCalendar(), streak.Day{Year: 2026, Month: time.February, Day: 17})
	if !done {
		t.Error("expected 2026-02-17 completed")
	}

	if refresher.calls != 4 {
		t.Errorf("refresh calls = %d, want 4", refresher.calls)
	}
}

func TestMarkTarget(t *testing.T) {
	cal := streak.NewCalendar(time.Local, models.Monday)
	today := streak.DayFromTime(testNow)

	tests := []struct {
		name    string
		date    string
		wantDay streak.Day
		wantAt  time.Time
		wantErr bool
	}{
		{"default today", "", today, testNow, false},
		{"explicit today", "2026-02-19", today, testNow, false},
		{"past day at noon", "2026-02-10", streak.Day{Year: 2026, Month: time.February, Day: 10}, time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local), false},
		{"future", "2026-02-20", streak.Day{}, time.Time{}, true},
		{"garbage", "19/02/2026", streak.Day{}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, at, err := markTarget(cal, tt.date, testNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("markTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if day != tt.wantDay || !at.Equal(tt.wantAt) {
				t.Errorf("markTarget() = (%v, %v), want (%v, %v)", day, at, tt.wantDay, tt.wantAt)
			}
		})
	}

	if _, _, err := markTarget(streak.Calendar{}, "", testNow); err == nil {
		t.Error("expected error for an invalid calendar")
	}
}

func TestReport(t *testing.T) {
	engine := streak.NewEngine(streak.NewCalendar(time.Local, models.Monday))
	habit := models.Habit{
		ID:        "5f0c7b8e-8a57-4c8e-9a53-1f2d3c4b5a69",
		Name:      "Read",
		Icon:      "book",
		Schedule:  models.Daily{},
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.Local),
		Completions: []time.Time{
			time.Date(2026, 2, 16, 8, 0, 0, 0, time.Local),
			time.Date(2026, 2, 17, 8, 0, 0, 0, time.Local),
			time.Date(2026, 2, 18, 8, 0, 0, 0, time.Local),
		},
	}

	md := report(habit, engine, testNow)
	for _, want := range []string{
		"# Read",
		"| Current streak | 3 days |",
		"| Days completed | 3 |",
		"| Today | 11hr, 59m |",
		"ductiva://habit/5f0c7b8e-8a57-4c8e-9a53-1f2d3c4b5a69",
		"Thu 2026-02-19: open",
		"Wed 2026-02-18: done",
		"Sun 2026-02-15: missed",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestStreakText(t *testing.T) {
	tests := []struct {
		schedule models.Schedule
		n        int
		emphasis bool
		want     string
	}{
		{models.Daily{}, 1, false, "1 day"},
		{models.Daily{}, 5, true, "5 days 🔥"},
		{models.Weekly{}, 2, false, "2 weeks"},
		{models.NewSpecificDays(models.Monday), 0, false, "0 days"},
	}
	for _, tt := range tests {
		if got := streakText(tt.schedule, tt.n, tt.emphasis); got != tt.want {
			t.Errorf("streakText(%v, %d) = %q, want %q", tt.schedule, tt.n, got, tt.want)
		}
	}
}

func TestListShowCalendarRun(t *testing.T) {
	ctx, _ := setupTestHabitContext(t)
	add := HabitAddCmd{Name: "Read", Schedule: "daily"}
	if err := add.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&HabitListCmd{JSON: true}).Run(ctx); err != nil {
		t.Errorf("list --json failed: %v", err)
	}
	if err := (&HabitShowCmd{Habit: "Read", Plain: true}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (&HabitCalendarCmd{Habit: "Read", Month: "2026-01"}).Run(ctx); err != nil {
		t.Errorf("calendar failed: %v", err)
	}
	if err := (&HabitCalendarCmd{Habit: "Read", Month: "January"}).Run(ctx); err == nil {
		t.Error("expected error for bad month")
	}
}

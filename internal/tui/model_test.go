package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
)

var testNow = time.Date(2026, time.February, 19, 12, 0, 0, 0, time.Local)

type recordingRefresher struct {
	ids []string
}

func (r *recordingRefresher) Refresh(habitID string) {
	r.ids = append(r.ids, habitID)
}

func setupTestStore(t *testing.T, names ...string) (*sqlite.Store, []models.Habit) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "ductiva.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var created []models.Habit
	for i, name := range names {
		h := models.Habit{
			ID:        uuid.NewString(),
			Name:      name,
			Icon:      models.DefaultIcon,
			Schedule:  models.Daily{},
			CreatedAt: time.Date(2026, time.February, 1, 8, i, 0, 0, time.Local),
		}
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("failed to add habit %s: %v", name, err)
		}
		created = append(created, h)
	}
	return store, created
}

func newTestModel(store *sqlite.Store, opts ...Option) Model {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	m := NewModel(store, opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds back the message produced by the returned
// command, the way the program loop would.
func press(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestNewModelListsHabits(t *testing.T) {
	store, _ := setupTestStore(t, "Read", "Walk")
	m := newTestModel(store)

	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits", m.state)
	}
	if m.slots != 2 {
		t.Errorf("slots = %d, want 2", m.slots)
	}
	view := m.View()
	for _, want := range []string{"2/4 SLOTS ACTIVE", "Read", "Walk"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFocus(t *testing.T) {
	store, habitList := setupTestStore(t, "Read", "Walk")

	m := newTestModel(store, WithFocus(habitList[1].ID))
	if got := m.habitsModel.SelectedID(); got != habitList[1].ID {
		t.Errorf("selected = %s, want %s", got, habitList[1].ID)
	}

	m = newTestModel(store, WithFocus(uuid.NewString()))
	if m.statusMessage == "" {
		t.Error("expected a status message for an unknown focus id")
	}
	if got := m.habitsModel.SelectedID(); got != habitList[0].ID {
		t.Errorf("selected = %s, want first habit", got)
	}
}

func TestToggleFromKeyboard(t *testing.T) {
	store, habitList := setupTestStore(t, "Read")
	refresher := &recordingRefresher{}
	m := newTestModel(store, WithRefresher(refresher))
	today := streak.DayFromTime(testNow)

	m = press(m, runes("m"))
	done, err := store.IsCompleted(habitList[0].ID, streak.DefaultCalendar(), today)
	if err != nil || !done {
		t.Fatalf("after first toggle completed = %v (%v), want true", done, err)
	}
	if !strings.Contains(m.View(), "Done") {
		t.Error("expected the row to show Done")
	}

	m = press(m, runes("m"))
	done, err = store.IsCompleted(habitList[0].ID, streak.DefaultCalendar(), today)
	if err != nil || done {
		t.Fatalf("after second toggle completed = %v (%v), want false", done, err)
	}

	if len(refresher.ids) != 2 || refresher.ids[0] != habitList[0].ID {
		t.Errorf("refreshes = %v, want two for %s", refresher.ids, habitList[0].ID)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	store, habitList := setupTestStore(t, "Read", "Walk")
	refresher := &recordingRefresher{}
	m := newTestModel(store, WithRefresher(refresher))

	m = press(m, runes("d"))
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.state)
	}
	if !strings.Contains(m.View(), "Read") {
		t.Error("confirmation should name the habit")
	}

	m = press(m, runes("n"))
	if m.state != constants.StateHabits || m.slots != 2 {
		t.Fatalf("cancel left state=%v slots=%d", m.state, m.slots)
	}

	m = press(m, runes("d"))
	m = press(m, runes("y"))
	if m.slots != 1 {
		t.Errorf("slots = %d, want 1", m.slots)
	}
	if _, err := store.GetHabit(habitList[0].ID); err == nil {
		t.Error("expected habit to be deleted")
	}
	if len(refresher.ids) != 1 || refresher.ids[0] != habitList[0].ID {
		t.Errorf("refreshes = %v", refresher.ids)
	}
}

func TestCalendarNavigation(t *testing.T) {
	store, _ := setupTestStore(t, "Read")
	m := newTestModel(store)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != constants.StateCalendar {
		t.Fatalf("state = %v, want calendar", m.state)
	}
	if got := m.calendarModel.Month(); got.Month != time.February || got.Year != 2026 {
		t.Errorf("month = %v, want February 2026", got)
	}
	if !strings.Contains(m.View(), "February 2026") {
		t.Error("view missing month title")
	}

	m = press(m, runes("l"))
	if got := m.calendarModel.Month(); got.Month != time.March {
		t.Errorf("after next month = %v, want March", got.Month)
	}
	m = press(m, runes("h"))
	m = press(m, runes("h"))
	if got := m.calendarModel.Month(); got.Month != time.January {
		t.Errorf("after two prev = %v, want January", got.Month)
	}
	m = press(m, runes("t"))
	if got := m.calendarModel.Month(); got.Month != time.February {
		t.Errorf("after today = %v, want February", got.Month)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits after esc", m.state)
	}
}

func TestAddRejectedWhenSlotsFull(t *testing.T) {
	store, _ := setupTestStore(t, "Read", "Walk", "Write", "Stretch")
	m := newTestModel(store)

	m = press(m, runes("a"))
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits", m.state)
	}
	if !strings.Contains(m.statusMessage, "slots") {
		t.Errorf("status = %q, want a slots warning", m.statusMessage)
	}
}

func TestAddOpensForm(t *testing.T) {
	store, _ := setupTestStore(t, "Read")
	m := newTestModel(store)

	next, cmd := m.Update(runes("a"))
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.state != constants.StateAddHabit {
		t.Fatalf("state = %v, want add habit", m.state)
	}
	if m.habitForm.Schedule != models.ScheduleDaily || m.habitForm.Icon != models.DefaultIcon {
		t.Errorf("form defaults = %+v", m.habitForm)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(Model).state != constants.StateHabits {
		t.Error("esc should close the form")
	}
}

func TestSaveHabitForm(t *testing.T) {
	store, habitList := setupTestStore(t, "Read")
	refresher := &recordingRefresher{}
	m := newTestModel(store, WithRefresher(refresher))

	m.habitForm = &HabitFormModel{Name: "  Stretch ", Schedule: models.ScheduleSpecificDays}
	if err := m.saveHabitForm(); err == nil {
		t.Error("expected error for specific days without days")
	}

	m.habitForm.Days = []models.Weekday{models.Monday, models.Wednesday}
	if err := m.saveHabitForm(); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	added, err := store.GetHabitByName("Stretch")
	if err != nil {
		t.Fatalf("added habit not found: %v", err)
	}
	sd, ok := added.Schedule.(models.SpecificDays)
	if !ok || !sd.Contains(models.Monday) || !sd.Contains(models.Wednesday) || sd.Len() != 2 {
		t.Errorf("schedule = %#v", added.Schedule)
	}
	if m.slots != 2 || m.habitsModel.SelectedID() != added.ID {
		t.Errorf("slots=%d selected=%s", m.slots, m.habitsModel.SelectedID())
	}

	m.editingID = habitList[0].ID
	m.habitForm = newHabitFormModel(&habitList[0])
	m.habitForm.Name = "Read more"
	m.habitForm.Schedule = models.ScheduleWeekly
	if err := m.saveHabitForm(); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	edited, err := store.GetHabit(habitList[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if edited.Name != "Read more" || edited.Schedule.Kind() != models.ScheduleWeekly {
		t.Errorf("edited = %+v", edited)
	}

	if len(refresher.ids) != 2 {
		t.Errorf("refreshes = %v, want 2", refresher.ids)
	}
}

func TestWeekdayOptionsFollowCalendar(t *testing.T) {
	tests := []struct {
		first models.Weekday
		want  []models.Weekday
	}{
		{models.Monday, []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday, models.Saturday, models.Sunday}},
		{models.Sunday, []models.Weekday{models.Sunday, models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday, models.Saturday}},
	}
	for _, tt := range tests {
		opts := weekdayOptions(streak.NewCalendar(time.UTC, tt.first))
		if len(opts) != 7 {
			t.Fatalf("got %d options", len(opts))
		}
		for i, o := range opts {
			if o.Value != tt.want[i] {
				t.Errorf("first=%v option %d = %v, want %v", tt.first, i, o.Value, tt.want[i])
			}
		}
	}
}

func TestQuit(t *testing.T) {
	store, _ := setupTestStore(t, "Read")
	m := newTestModel(store)

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd == nil || !m.quitting {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

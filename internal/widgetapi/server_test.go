package widgetapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/widgets"
)

func setupServer(t *testing.T) (*Server, *sqlite.Store, time.Time) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "ductiva.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, time.February, 19, 12, 0, 0, 0, time.Local)
	srv := New(store)
	srv.now = func() time.Time { return now }
	return srv, store, now
}

func addHabit(t *testing.T, store *sqlite.Store, name string, created time.Time) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      "book",
		Schedule:  models.Daily{},
		CreatedAt: created,
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return habit
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListHabits(t *testing.T) {
	srv, store, _ := setupServer(t)
	created := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.Local)
	read := addHabit(t, store, "Read", created)
	addHabit(t, store, "Walk", created.Add(time.Hour))

	for _, d := range []int{16, 17, 18} {
		day := streak.Day{Year: 2026, Month: time.February, Day: d}
		if _, err := store.ToggleCompletion(read.ID, streak.DefaultCalendar(), day.In(time.Local).Add(8*time.Hour)); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}

	rec := get(t, srv, "/habits")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp HabitsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(resp.Habits))
	}
	if resp.Habits[0].Habit.Name != "Read" || resp.Habits[0].Habit.CurrentStreak != 3 {
		t.Errorf("unexpected first habit: %+v", resp.Habits[0].Habit)
	}
	if resp.Slots != "2/4 SLOTS ACTIVE" {
		t.Errorf("Slots = %q", resp.Slots)
	}
	wantRefresh := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.Local)
	if !resp.Refresh.Equal(wantRefresh) {
		t.Errorf("Refresh = %v, want %v", resp.Refresh, wantRefresh)
	}
	if resp.Habits[0].Status != "11hr, 59m" {
		t.Errorf("Status = %q", resp.Habits[0].Status)
	}
}

func TestGetHabit(t *testing.T) {
	srv, store, _ := setupServer(t)
	habit := addHabit(t, store, "Read", time.Date(2026, time.February, 1, 9, 0, 0, 0, time.Local))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing", "/habits/" + habit.ID, http.StatusOK},
		{"unknown", "/habits/" + uuid.NewString(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var view widgets.View
			if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if view.Habit.ID != habit.ID {
				t.Errorf("got habit %s", view.Habit.ID)
			}
			if view.DeepLink != "ductiva://habit/"+habit.ID {
				t.Errorf("DeepLink = %q", view.DeepLink)
			}
		})
	}
}

func TestRenderWidget(t *testing.T) {
	srv, store, _ := setupServer(t)
	addHabit(t, store, "Read", time.Date(2026, time.February, 1, 9, 0, 0, 0, time.Local))

	rec := get(t, srv, "/widgets/medium")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "Read") {
		t.Errorf("widget body missing habit name:\n%s", rec.Body.String())
	}

	if rec := get(t, srv, "/widgets/huge"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown family status = %d, want 400", rec.Code)
	}
}

func TestTimelineAndHealth(t *testing.T) {
	srv, _, _ := setupServer(t)

	rec := get(t, srv, "/timeline")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tl widgets.Timeline
	if err := json.Unmarshal(rec.Body.Bytes(), &tl); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(tl.Entries) != 1 || len(tl.Entries[0].Habits) != 0 {
		t.Errorf("unexpected timeline: %+v", tl)
	}

	if rec := get(t, srv, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	if rec := get(t, srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
}

func TestRejectsWrites(t *testing.T) {
	srv, _, _ := setupServer(t)
	req := httptest.NewRequest(http.MethodPost, "/habits", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

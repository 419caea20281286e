// Package widgetapi serves read-only widget data over local HTTP so that
// external widget hosts can poll it instead of reading the database.
package widgetapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/david-saint/ductiva/internal/logger"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/widgets"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server answers from the store on every request, so it always reflects the
// latest mutation without any refresh signal.
type Server struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Server {
	return &Server{store: store, now: time.Now}
}

// HabitsResponse is the body of GET /habits.
type HabitsResponse struct {
	Habits  []widgets.View `json:"habits"`
	Slots   string         `json:"slots"`
	Refresh time.Time      `json:"refresh"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the routed handler wrapped with access logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/habits", s.listHabits).Methods(http.MethodGet)
	r.HandleFunc("/habits/{id}", s.getHabit).Methods(http.MethodGet)
	r.HandleFunc("/timeline", s.timeline).Methods(http.MethodGet)
	r.HandleFunc("/widgets/{family}", s.renderWidget).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	recovered := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	return handlers.LoggingHandler(logger.Writer(), recovered)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Widget endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// load reads settings and habits fresh from the store.
func (s *Server) load() (*streak.Engine, []widgets.HabitSnapshot, time.Time, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	cal, err := streak.CalendarFromSettings(settings)
	if err != nil {
		logger.Warn("Invalid calendar settings, using defaults", "error", err)
		cal = streak.DefaultCalendar()
	}
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	engine := streak.NewEngine(cal)
	now := s.now()
	return engine, widgets.Snapshots(habits, engine, now), now, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	engine, snaps, now, err := s.load()
	if err != nil {
		s.internalError(w, err)
		return
	}
	views := make([]widgets.View, 0, len(snaps))
	for _, snap := range snaps {
		views = append(views, widgets.Describe(snap, engine, now))
	}
	writeJSON(w, http.StatusOK, HabitsResponse{
		Habits:  views,
		Slots:   widgets.SlotCounter(len(snaps)),
		Refresh: widgets.NextRefresh(engine.Calendar(), now),
	})
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	engine, snaps, now, err := s.load()
	if err != nil {
		s.internalError(w, err)
		return
	}
	for _, snap := range snaps {
		if snap.ID == id {
			writeJSON(w, http.StatusOK, widgets.Describe(snap, engine, now))
			return
		}
	}
	writeError(w, http.StatusNotFound, storage.ErrNotFound.Error())
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	engine, snaps, now, err := s.load()
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widgets.BuildTimeline(snaps, engine.Calendar(), now))
}

func (s *Server) renderWidget(w http.ResponseWriter, r *http.Request) {
	family, err := widgets.ParseFamily(mux.Vars(r)["family"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	engine, snaps, now, err := s.load()
	if err != nil {
		s.internalError(w, err)
		return
	}
	out := widgets.NewRenderer(engine).Render(family, snaps, r.URL.Query().Get("habit"), now)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out + "\n"))
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	logger.Error("Widget endpoint failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

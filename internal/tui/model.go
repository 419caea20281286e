package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/logger"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/tui/components/calendar"
	"github.com/david-saint/ductiva/internal/tui/components/habits"
	"github.com/david-saint/ductiva/internal/widgets"
)

// Refresher is told about every habit mutation so widget hosts can redraw.
type Refresher interface {
	Refresh(habitID string)
}

type Option func(*Model)

// WithFocus selects the habit with id on start.
func WithFocus(id string) Option {
	return func(m *Model) { m.focusID = id }
}

func WithRefresher(r Refresher) Option {
	return func(m *Model) { m.refresher = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

type Model struct {
	store           storage.Provider
	refresher       Refresher
	now             func() time.Time
	engine          *streak.Engine
	state           constants.SessionState
	keys            KeyMap
	help            help.Model
	habitsModel     habits.Model
	calendarModel   calendar.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	editingID       string // empty while adding
	habitToDeleteID string
	focusID         string
	slots           int
	formError       string // Error message to display for form operations
	statusMessage   string
	quitting        bool
	width           int
	height          int
}

func NewModel(store storage.Provider, opts ...Option) Model {
	m := Model{
		store: store,
		now:   time.Now,
		state: constants.StateHabits,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.engine = loadEngine(store)
	m.habitsModel = habits.New(nil, 0, 0)
	m.reload()
	if m.focusID != "" && !m.habitsModel.Select(m.focusID) {
		m.statusMessage = "⚠ Habit to focus was not found"
	}
	return m
}

func loadEngine(store storage.Provider) *streak.Engine {
	settings, err := store.GetSettings()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults", "error", err)
		return streak.NewEngine(streak.DefaultCalendar())
	}
	cal, err := streak.CalendarFromSettings(settings)
	if err != nil {
		logger.Warn("Invalid calendar settings, using defaults", "error", err)
		return streak.NewEngine(streak.DefaultCalendar())
	}
	return streak.NewEngine(cal)
}

// reload recomputes every row from the store. It runs after each mutation.
func (m *Model) reload() {
	habitList, err := m.store.GetAllHabits()
	if err != nil {
		m.statusMessage = "⚠ Failed to load habits: " + err.Error()
		return
	}
	now := m.now()
	snapshots := widgets.Snapshots(habitList, m.engine, now)
	views := make([]widgets.View, len(snapshots))
	for i, s := range snapshots {
		views[i] = widgets.Describe(s, m.engine, now)
	}
	m.slots = len(views)
	m.habitsModel.SetHabits(views)
}

// changed reloads the list and tells the widget host.
func (m *Model) changed(habitID string) {
	m.reload()
	if m.refresher != nil {
		m.refresher.Refresh(habitID)
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		hk := habits.DefaultKeyMap()
		keys = append(keys, hk.Add, hk.Toggle, hk.Calendar)
	case constants.StateCalendar:
		ck := m.calendarModel.Keys()
		keys = append(keys, ck.Prev, ck.Next, ck.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		hk := habits.DefaultKeyMap()
		actions = []key.Binding{hk.Add, hk.Edit, hk.Toggle, hk.Delete, hk.Calendar}
	case constants.StateCalendar:
		ck := m.calendarModel.Keys()
		actions = []key.Binding{ck.Prev, ck.Next, ck.Today, ck.Back}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

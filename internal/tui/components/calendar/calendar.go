package calendar

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/david-saint/ductiva/internal/calendarview"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

type CloseCalendarMsg struct{}

var (
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type KeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Today key.Binding
	Back  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
	}
}

type Model struct {
	habit  models.Habit
	month  calendarview.Month
	keys   KeyMap
	now    time.Time
	engine *streak.Engine
}

func New(habit models.Habit, engine *streak.Engine, now time.Time) Model {
	return Model{
		habit:  habit,
		month:  calendarview.New(habit, engine, now),
		keys:   DefaultKeyMap(),
		now:    now,
		engine: engine,
	}
}

func (m Model) HabitID() string { return m.habit.ID }

// Month is the first day of the displayed month.
func (m Model) Month() streak.Day { return m.month.Start() }

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	msg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.month = m.month.Previous()
	case key.Matches(msg, m.keys.Next):
		m.month = m.month.Next()
	case key.Matches(msg, m.keys.Today):
		m.month = calendarview.New(m.habit, m.engine, m.now)
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseCalendarMsg{} }
	}
	return m, nil
}

func (m Model) View() string {
	return strings.Join([]string{
		nameStyle.Render(m.habit.Name) + " " + legendStyle.Render("("+m.habit.Schedule.Description()+")"),
		"",
		m.month.Render(),
		"",
		legendStyle.Render("highlighted: done · dim: off schedule · underlined: today"),
	}, "\n")
}

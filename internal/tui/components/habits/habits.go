package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
	"github.com/david-saint/ductiva/internal/widgets"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	ID string
}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type OpenCalendarMsg struct {
	ID string
}

const barWidth = 20

var (
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	offStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	urgencyColors = map[streak.Urgency]string{
		streak.Calm:     "42",
		streak.Warning:  "214",
		streak.Critical: "196",
	}
)

// Item is one habit row. It carries the derived view so rendering never
// touches the store or the engine.
type Item struct {
	View widgets.View
}

func (i Item) ID() string { return i.View.Habit.ID }

func (i Item) Title() string {
	marker := "○"
	if i.View.CompletedToday {
		marker = doneStyle.Render("✓")
	}
	title := fmt.Sprintf("%s %s", marker, i.View.Habit.Name)
	if i.View.EmphasisActive {
		title += " 🔥"
	}
	return title
}

func (i Item) Description() string {
	s := i.View.Habit
	unit := "day"
	if s.Schedule.Kind() == models.ScheduleWeekly {
		unit = "week"
	}
	if s.CurrentStreak != 1 {
		unit += "s"
	}
	summary := fmt.Sprintf("%d %s · %s", s.CurrentStreak, unit, i.View.Status)
	if !i.View.ScheduledToday && !i.View.CompletedToday {
		return offStyle.Render(summary)
	}
	return summary + "  " + bar(i.View.Progress)
}

func (i Item) FilterValue() string { return i.View.Habit.Name }

func bar(value float64) string {
	p := progress.New(
		progress.WithSolidFill(urgencyColors[streak.UrgencyFor(value)]),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return p.ViewAs(value)
}

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Calendar key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "toggle today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "calendar"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(views []widgets.View, width, height int) Model {
	l := list.New(items(views), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Calendar}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Toggle, keys.Delete, keys.Calendar}
	}

	return Model{list: l, keys: keys}
}

func items(views []widgets.View) []list.Item {
	out := make([]list.Item, len(views))
	for i, v := range views {
		out[i] = Item{View: v}
	}
	return out
}

// SetHabits replaces the rows, keeping the cursor on the same habit when it
// still exists.
func (m *Model) SetHabits(views []widgets.View) {
	selected := m.SelectedID()
	m.list.SetItems(items(views))
	if selected != "" {
		m.Select(selected)
	}
}

// Select moves the cursor to id and reports whether it was found.
func (m *Model) Select(id string) bool {
	for i, it := range m.list.Items() {
		if it.(Item).ID() == id {
			m.list.Select(i)
			return true
		}
	}
	return false
}

func (m Model) SelectedID() string {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.ID()
	}
	return ""
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		if id := m.SelectedID(); id != "" {
			switch {
			case key.Matches(msg, m.keys.Edit):
				return m, func() tea.Msg { return EditHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Toggle):
				return m, func() tea.Msg { return ToggleHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Calendar):
				return m, func() tea.Msg { return OpenCalendarMsg{ID: id} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

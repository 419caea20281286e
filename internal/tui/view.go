package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/widgets"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case constants.StateCalendar:
		content = docStyle.Render(m.calendarModel.View())
	case constants.StateAddHabit, constants.StateEditHabit:
		content = m.form.View()
		if m.formError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render("Error: "+m.formError))
		}
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.statusMessage != "" {
		status = warningStyle.Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := headerStyle.Render(constants.AppName)
	switch m.state {
	case constants.StateAddHabit:
		title = headerStyle.Render("New habit")
	case constants.StateEditHabit:
		title = headerStyle.Render("Edit habit")
	case constants.StateCalendar:
		title = headerStyle.Render("Calendar")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, slotStyle.Render(widgets.SlotCounter(m.slots)))
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if habit, err := m.store.GetHabit(m.habitToDeleteID); err == nil {
		name = habit.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its history?", name)),
			"This cannot be undone.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

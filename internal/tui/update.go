package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/tui/components/calendar"
	"github.com/david-saint/ductiva/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		headerHeight := lipgloss.Height(m.viewHeader())
		footerHeight := lipgloss.Height(m.help.View(m)) + 1
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-headerHeight-footerHeight)
		return m, nil
	}

	switch m.state {
	case constants.StateAddHabit, constants.StateEditHabit:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		if m.slots >= constants.MaxHabits {
			m.statusMessage = fmt.Sprintf("⚠ All %d slots are in use. Delete a habit first.", constants.MaxHabits)
			return m, nil
		}
		m.editingID = ""
		m.habitForm = newHabitFormModel(nil)
		m.form = NewHabitForm(m.habitForm, m.engine.Calendar())
		m.formError = ""
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.EditHabitMsg:
		habit, err := m.store.GetHabit(msg.ID)
		if err != nil {
			m.statusMessage = fmt.Sprintf("⚠ Failed to load habit: %v", err)
			return m, nil
		}
		m.editingID = habit.ID
		m.habitForm = newHabitFormModel(&habit)
		m.form = NewHabitForm(m.habitForm, m.engine.Calendar())
		m.formError = ""
		m.state = constants.StateEditHabit
		return m, m.form.Init()

	case habits.ToggleHabitMsg:
		m.toggle(msg.ID)
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habits.OpenCalendarMsg:
		habit, err := m.store.GetHabit(msg.ID)
		if err != nil {
			m.statusMessage = fmt.Sprintf("⚠ Failed to load habit: %v", err)
			return m, nil
		}
		m.calendarModel = calendar.New(habit, m.engine, m.now())
		m.state = constants.StateCalendar
		return m, nil

	case calendar.CloseCalendarMsg:
		m.state = constants.StateHabits
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		m.statusMessage = ""
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case constants.StateCalendar:
		m.calendarModel, cmd = m.calendarModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = constants.StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveHabitForm(); err != nil {
			// Stay in the form so the user can fix the input or cancel with ESC
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = constants.StateHabits
	case huh.StateAborted:
		m.formError = ""
		m.state = constants.StateHabits
	}
	return m, tea.Batch(cmds...)
}

// saveHabitForm adds a new habit or updates the one being edited.
func (m *Model) saveHabitForm() error {
	schedule, err := m.habitForm.schedule()
	if err != nil {
		return err
	}

	if m.editingID == "" {
		habit := models.Habit{
			ID:        uuid.New().String(),
			Name:      m.habitForm.Name,
			Icon:      m.habitForm.Icon,
			Schedule:  schedule,
			CreatedAt: m.now(),
		}
		if err := m.store.AddHabit(habit); err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}
		m.changed(habit.ID)
		m.habitsModel.Select(habit.ID)
		m.statusMessage = "✓ Added " + habit.Name
		return nil
	}

	habit, err := m.store.GetHabit(m.editingID)
	if err != nil {
		return fmt.Errorf("failed to load habit: %w", err)
	}
	habit.Name = m.habitForm.Name
	habit.Icon = m.habitForm.Icon
	habit.Schedule = schedule
	if err := m.store.UpdateHabit(habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	m.changed(habit.ID)
	m.statusMessage = "✓ Updated " + habit.Name
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if m.habitToDeleteID != "" {
				if err := m.store.DeleteHabit(m.habitToDeleteID); err != nil {
					m.statusMessage = fmt.Sprintf("⚠ Failed to delete habit: %v", err)
				} else {
					m.changed(m.habitToDeleteID)
					m.statusMessage = "✓ Habit deleted"
				}
				m.habitToDeleteID = ""
			}
			m.state = constants.StateHabits
		case "n", "N", "esc":
			m.habitToDeleteID = ""
			m.state = constants.StateHabits
		}
	}
	return m, nil
}

// toggle flips today's completion for id.
func (m *Model) toggle(id string) {
	now := m.now()
	cal := m.engine.Calendar()
	if !cal.Valid() {
		m.statusMessage = "⚠ Calendar settings are invalid; run 'ductiva doctor'"
		return
	}
	done, err := m.store.ToggleCompletion(id, cal, now)
	if err != nil {
		m.statusMessage = fmt.Sprintf("⚠ Failed to update habit: %v", err)
		return
	}
	if done {
		m.statusMessage = "✓ Marked done for today"
	} else {
		m.statusMessage = "○ Cleared today's mark"
	}
	m.changed(id)
}

package calendarview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	outsideStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	offStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	scheduledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	completedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42"))
	todayStyle     = lipgloss.NewStyle().Underline(true)
)

// Render draws the month as a text grid. Completed days are highlighted,
// days outside the schedule are dimmed and today is underlined.
func (m Month) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title()))
	b.WriteString("\n")

	headers := m.WeekdayHeaders()
	for i, h := range headers {
		headers[i] = headerStyle.Render(fmt.Sprintf("%3s", h[:2]))
	}
	b.WriteString(strings.Join(headers, " "))
	b.WriteString("\n")

	for i, cell := range m.Days() {
		b.WriteString(renderCell(cell))
		if i%7 == 6 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCell(c Cell) string {
	text := fmt.Sprintf("%3d", c.Date.Day)
	style := scheduledStyle
	switch {
	case !c.InDisplayedMonth:
		style = outsideStyle
	case c.Completed:
		style = completedStyle
	case !c.Scheduled:
		style = offStyle
	}
	if c.Today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(text)
}

package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/david-saint/ductiva/internal/calendarview"
	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

// Family is a widget size.
type Family string

const (
	Small  Family = "small"
	Medium Family = "medium"
	Large  Family = "large"
)

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case Small, Medium, Large:
		return f, nil
	default:
		return "", fmt.Errorf("unknown widget family %q (want small, medium or large)", s)
	}
}

var (
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("236")).Padding(0, 1)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	urgencyColors = map[streak.Urgency]string{
		streak.Calm:     "42",
		streak.Warning:  "214",
		streak.Critical: "196",
	}
)

const (
	smallBarWidth  = 24
	listBarWidth   = 10
	emphasisMarker = "🔥"
	doneMarker     = "✓"
	openMarker     = "○"
)

// Renderer draws widget families as terminal text.
type Renderer struct {
	engine *streak.Engine
}

func NewRenderer(engine *streak.Engine) *Renderer {
	return &Renderer{engine: engine}
}

// Render draws family for snapshots. selectedID picks the habit shown by
// the small and large families.
func (r *Renderer) Render(family Family, snapshots []HabitSnapshot, selectedID string, now time.Time) string {
	var body string
	switch family {
	case Small:
		body = r.small(snapshots, selectedID, now)
	case Medium:
		body = r.medium(snapshots, now)
	default:
		body = r.large(snapshots, selectedID, now)
	}
	return frameStyle.Render(body)
}

func (r *Renderer) small(snapshots []HabitSnapshot, selectedID string, now time.Time) string {
	s, ok := Select(snapshots, selectedID)
	if !ok {
		return emptyState()
	}
	view := Describe(s, r.engine, now)

	lines := []string{
		nameStyle.Render(fmt.Sprintf("[%s] %s", s.Icon, s.Name)),
		r.bar(view.Progress, smallBarWidth),
		streakLine(s, view.EmphasisActive),
		statusStyle(view).Render(view.Status),
	}
	if view.DeepLink != "" {
		lines = append(lines, mutedStyle.Render(view.DeepLink))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) medium(snapshots []HabitSnapshot, now time.Time) string {
	if len(snapshots) == 0 {
		return emptyState()
	}
	lines := []string{counterStyle.Render(SlotCounter(len(snapshots)))}
	for _, s := range snapshots {
		lines = append(lines, r.row(s, now))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) large(snapshots []HabitSnapshot, selectedID string, now time.Time) string {
	if len(snapshots) == 0 {
		return emptyState()
	}
	selected, _ := Select(snapshots, selectedID)
	month := calendarview.New(selected.Habit(), r.engine, now)

	return strings.Join([]string{
		r.medium(snapshots, now),
		"",
		nameStyle.Render(selected.Name),
		month.Render(),
	}, "\n")
}

func (r *Renderer) row(s HabitSnapshot, now time.Time) string {
	view := Describe(s, r.engine, now)
	marker := openMarker
	if view.CompletedToday {
		marker = doneStyle.Render(doneMarker)
	}
	fire := "  "
	if view.EmphasisActive {
		fire = emphasisMarker
	}
	return fmt.Sprintf("%s %-16s %s %3d %s %s",
		marker,
		truncate(s.Name, 16),
		fire,
		s.CurrentStreak,
		r.bar(view.Progress, listBarWidth),
		statusStyle(view).Render(view.Status),
	)
}

func (r *Renderer) bar(value float64, width int) string {
	color := urgencyColors[streak.UrgencyFor(value)]
	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(value)
}

func streakLine(s HabitSnapshot, emphasis bool) string {
	unit := "day"
	if _, weekly := s.Schedule.(models.Weekly); weekly {
		unit = "week"
	}
	if s.CurrentStreak != 1 {
		unit += "s"
	}
	line := fmt.Sprintf("%d %s streak", s.CurrentStreak, unit)
	if emphasis {
		line = emphasisMarker + " " + line
	}
	return line
}

func statusStyle(v View) lipgloss.Style {
	switch {
	case v.CompletedToday:
		return doneStyle
	case !v.ScheduledToday:
		return mutedStyle
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(urgencyColors[streak.UrgencyFor(v.Progress)]))
	}
}

func emptyState() string {
	return mutedStyle.Render("No habits yet.\nRun 'ductiva habit add' to create one.")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

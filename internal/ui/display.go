package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"prazo/internal/deadline"
)

const dateLayout = "02/01/2006"

var statusColors = map[deadline.Status]lipgloss.Color{
	deadline.StatusOverdue:  lipgloss.Color("196"), // red
	deadline.StatusDue:      lipgloss.Color("208"), // orange
	deadline.StatusUpcoming: lipgloss.Color("226"), // yellow
	deadline.StatusSafe:     lipgloss.Color("82"),  // green
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SortedView returns a copy of list ordered by due date. Records due on the
// same day keep their insertion order.
func SortedView(list []deadline.Deadline) []deadline.Deadline {
	out := make([]deadline.Deadline, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func StatusLabel(s deadline.Status) string {
	switch s {
	case deadline.StatusOverdue:
		return "Vencido"
	case deadline.StatusDue:
		return "Vence Hoje"
	case deadline.StatusUpcoming:
		return "Próximo"
	case deadline.StatusSafe:
		return "Em dia"
	default:
		return string(s)
	}
}

func StatusColor(s deadline.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return lipgloss.Color("240")
}

// StatusStyle is the accent used for a record's marker and label.
func StatusStyle(s deadline.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Bold(true)
}

// RelativeDescription says how far due is from today in words.
func RelativeDescription(due, today time.Time) string {
	diff := deadline.DaysBetween(today, due)
	switch {
	case diff < 0:
		return fmt.Sprintf("Venceu há %d dia(s)", -diff)
	case diff == 0:
		return "Vence hoje"
	default:
		return fmt.Sprintf("Vence em %d dia(s)", diff)
	}
}

// FormatDue renders a due date as DD/MM/YYYY.
func FormatDue(t time.Time) string {
	return t.Format(dateLayout)
}

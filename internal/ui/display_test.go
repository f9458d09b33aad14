package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"prazo/internal/deadline"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSortedView(t *testing.T) {
	list := []deadline.Deadline{
		{ID: "a", DueDate: day(2026, 5, 1)},
		{ID: "b", DueDate: day(2026, 3, 1)},
		{ID: "c", DueDate: day(2026, 5, 1)},
		{ID: "d", DueDate: day(2026, 1, 1)},
		{ID: "e", DueDate: day(2026, 3, 1)},
	}

	got := SortedView(list)

	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, ids)
	assert.Equal(t, "a", list[0].ID, "input must not be reordered")
}

func TestSortedView_Empty(t *testing.T) {
	assert.Empty(t, SortedView(nil))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Vencido", StatusLabel(deadline.StatusOverdue))
	assert.Equal(t, "Vence Hoje", StatusLabel(deadline.StatusDue))
	assert.Equal(t, "Próximo", StatusLabel(deadline.StatusUpcoming))
	assert.Equal(t, "Em dia", StatusLabel(deadline.StatusSafe))
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status deadline.Status
		color  lipgloss.Color
	}{
		{deadline.StatusOverdue, lipgloss.Color("196")},
		{deadline.StatusDue, lipgloss.Color("208")},
		{deadline.StatusUpcoming, lipgloss.Color("226")},
		{deadline.StatusSafe, lipgloss.Color("82")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.color, StatusColor(tt.status))
		assert.Equal(t, tt.color, StatusStyle(tt.status).GetForeground())
	}
	assert.Equal(t, lipgloss.Color("240"), StatusColor("unknown"))
}

func TestRelativeDescription(t *testing.T) {
	today := day(2026, 3, 10)
	tests := []struct {
		due  time.Time
		want string
	}{
		{day(2026, 3, 7), "Venceu há 3 dia(s)"},
		{day(2026, 3, 9), "Venceu há 1 dia(s)"},
		{day(2026, 3, 10), "Vence hoje"},
		{day(2026, 3, 11), "Vence em 1 dia(s)"},
		{day(2026, 4, 9), "Vence em 30 dia(s)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeDescription(tt.due, today))
	}
}

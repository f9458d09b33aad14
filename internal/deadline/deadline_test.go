package deadline

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day different hours", time.Date(2026, 3, 10, 1, 0, 0, 0, brt), time.Date(2026, 3, 10, 23, 0, 0, 0, brt), 0},
		{"tomorrow", time.Date(2026, 3, 10, 23, 59, 0, 0, brt), time.Date(2026, 3, 11, 0, 0, 0, 0, brt), 1},
		{"yesterday", time.Date(2026, 3, 10, 0, 0, 0, 0, brt), time.Date(2026, 3, 9, 0, 0, 0, 0, brt), -1},
		{"across year", time.Date(2025, 12, 31, 0, 0, 0, 0, brt), time.Date(2026, 1, 8, 0, 0, 0, 0, brt), 8},
		{"far future", time.Date(2026, 1, 1, 0, 0, 0, 0, brt), time.Date(9999, 1, 1, 0, 0, 0, 0, brt), 2912078},
		{"leap february", time.Date(2024, 2, 28, 0, 0, 0, 0, brt), time.Date(2024, 3, 1, 0, 0, 0, 0, brt), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetween_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-03-08 is 23 hours long in New York.
	from := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	assert.Equal(t, 1, DaysBetween(from, to))
}

func TestClassify(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, brt)
	tests := []struct {
		offset int
		want   Status
	}{
		{-30, StatusOverdue},
		{-1, StatusOverdue},
		{0, StatusDue},
		{1, StatusUpcoming},
		{7, StatusUpcoming},
		{8, StatusSafe},
		{365, StatusSafe},
	}
	for _, tt := range tests {
		due := today.AddDate(0, 0, tt.offset)
		assert.Equal(t, tt.want, Classify(due, today), "offset %d", tt.offset)
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, brt)
	lateToday := time.Date(2026, 3, 10, 23, 59, 59, 0, brt)
	assert.Equal(t, StatusDue, Classify(due, lateToday))
}

func TestParseInput_Relative(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 42, 7, 0, brt)
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, brt)

	for _, n := range []int{0, 1, 3, 7, 8, 21, 30, 365, 1000} {
		input := []string{
			strconv.Itoa(n) + " dias",
			"  " + strconv.Itoa(n) + " DIAS  ",
			strconv.Itoa(n) + "dias",
		}
		for _, in := range input {
			got, ok := ParseInput(in, now)
			require.True(t, ok, "input %q", in)
			assert.True(t, got.Equal(midnight.AddDate(0, 0, n)), "input %q: got %v", in, got)
			assert.Equal(t, n, DaysBetween(now, got))
		}
	}
}

func TestParseInput_Absolute(t *testing.T) {
	morning := time.Date(2025, 6, 1, 8, 0, 0, 0, brt)
	evening := time.Date(2025, 6, 1, 23, 30, 0, 0, brt)
	want := time.Date(2025, 12, 25, 0, 0, 0, 0, brt)

	for _, now := range []time.Time{morning, evening} {
		got, ok := ParseInput("25/12/2025", now)
		require.True(t, ok)
		assert.True(t, got.Equal(want), "got %v", got)
	}

	got, ok := ParseInput("1/2/2030", morning)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2030, 2, 1, 0, 0, 0, 0, brt)))

	got, ok = ParseInput("29/02/2024", morning)
	require.True(t, ok)
	assert.Equal(t, 29, got.Day())
}

func TestParseInput_YearBound(t *testing.T) {
	now := time.Date(9999, 12, 30, 12, 0, 0, 0, brt)

	got, ok := ParseInput("1 dias", now)
	require.True(t, ok)
	assert.Equal(t, 9999, got.Year())

	_, ok = ParseInput("2 dias", now)
	assert.False(t, ok, "10000-01-01 cannot be persisted")
}

func TestParseInput_Rejects(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, brt)
	for _, in := range []string{
		"",
		"   ",
		"dias",
		"-3 dias",
		"3 days",
		"tres dias",
		"31/02/2024",
		"30/02/2023",
		"29/02/2023",
		"00/01/2026",
		"10/13/2026",
		"10/00/2026",
		"10/10/26",
		"2026-10-10",
		"10/10/2026 extra",
		"999999999999999999999999 dias",
		"3000000 dias",
		"9223372036854775807 dias",
	} {
		_, ok := ParseInput(in, now)
		assert.False(t, ok, "input %q should not parse", in)
	}
}

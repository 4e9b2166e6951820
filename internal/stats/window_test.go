package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakatop/wakatop/internal/stats"
)

func TestWindowResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 13, 37, 42, 0, time.UTC)
	today := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		window stats.Window
		days   int
	}{
		{name: "day", window: stats.WindowDay, days: 1},
		{name: "week", window: stats.WindowWeek, days: 7},
		{name: "month", window: stats.WindowMonth, days: 30},
		{name: "year", window: stats.WindowYear, days: 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, end := tt.window.Resolve(now)

			// End is always today at midnight
			assert.Equal(t, today, end)
			assert.False(t, start.After(end), "start must not be after end")

			// Inclusive range length matches the window class
			gotDays := int(end.Sub(start).Hours()/24) + 1
			assert.Equal(t, tt.days, gotDays)
		})
	}
}

func TestWindowResolveUsesLocation(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 23:30 UTC is already the next day in Moscow
	now := time.Date(2024, time.March, 15, 23, 30, 0, 0, time.UTC).In(loc)

	_, end := stats.WindowDay.Resolve(now)
	assert.Equal(t, 16, end.Day())
	assert.Equal(t, loc.String(), end.Location().String())
}

func TestWindowDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.July, 1, 8, 0, 0, 0, time.UTC)

	start1, end1 := stats.WindowMonth.Resolve(now)
	start2, end2 := stats.WindowMonth.Resolve(now.Add(3 * time.Hour))

	// Boundaries depend on the date only, not the time of day
	assert.Equal(t, start1, start2)
	assert.Equal(t, end1, end2)
}

func TestWindowCacheable(t *testing.T) {
	t.Parallel()

	assert.False(t, stats.WindowDay.Cacheable())
	assert.False(t, stats.WindowWeek.Cacheable())
	assert.True(t, stats.WindowMonth.Cacheable())
	assert.True(t, stats.WindowYear.Cacheable())
}

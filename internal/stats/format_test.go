package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wakatop/wakatop/internal/stats"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		minutes float64
		want    string
	}{
		{name: "zero", minutes: 0, want: "0 min"},
		{name: "under an hour", minutes: 30, want: "30 min"},
		{name: "exactly an hour", minutes: 60, want: "1 h 0 min"},
		{name: "hours and minutes", minutes: 90, want: "1 h 30 min"},
		{name: "just under a day", minutes: 1439, want: "23 h 59 min"},
		{name: "over a day", minutes: 1500, want: "1 d 1 h 0 min"},
		{name: "fractional minutes truncate", minutes: 59.9, want: "59 min"},
		{name: "fractional hours truncate", minutes: 119.7, want: "1 h 59 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, stats.FormatDuration(tt.minutes))
		})
	}
}

func TestFormatLines(t *testing.T) {
	t.Parallel()

	entries := []stats.DisplayEntry{
		{Token: "@alice", Minutes: 90},
		{Token: "@bob", Minutes: 30},
	}

	lines := stats.FormatLines(entries, 1)

	assert.Equal(t, []string{
		"1. @alice — 1 h 30 min",
		"2. @bob — 30 min",
	}, lines)
}

func TestFormatLinesRankStart(t *testing.T) {
	t.Parallel()

	lines := stats.FormatLines([]stats.DisplayEntry{{Token: "@carol", Minutes: 0}}, 4)

	assert.Equal(t, []string{"4. @carol — 0 min"}, lines)
}

func TestFormatLinesEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, stats.FormatLines(nil, 1))
}

package stats

import (
	"fmt"
)

// FormatDuration renders a minute total as a human-readable duration:
//
//	30   -> "30 min"
//	90   -> "1 h 30 min"
//	1500 -> "1 d 1 h 0 min"
//
// All components truncate the float minute value; nothing is rounded up.
func FormatDuration(minutes float64) string {
	total := int(minutes)
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}

	hours := total / 60
	mins := total % 60

	if hours < 24 {
		return fmt.Sprintf("%d h %d min", hours, mins)
	}

	days := hours / 24
	remainingHours := hours % 24

	return fmt.Sprintf("%d d %d h %d min", days, remainingHours, mins)
}

// DisplayEntry pairs a pre-rendered display token with a minute total.
// How a username becomes a token (plain mention, non-pinging link) is the
// caller's concern; the formatter knows nothing about chat platforms.
type DisplayEntry struct {
	Token   string
	Minutes float64
}

// FormatLines renders ranked leaderboard lines. Ranks start at rankStart
// and follow the entry order, which is expected to be sorted already.
func FormatLines(entries []DisplayEntry, rankStart int) []string {
	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s — %s",
			rankStart+i, entry.Token, FormatDuration(entry.Minutes)))
	}

	return lines
}

package stats

// UserStat is one user's total coding time over a window.
type UserStat struct {
	// DiscordID is zero for entries restored from a cache snapshot,
	// which only persists usernames.
	DiscordID uint64
	Username  string
	Minutes   float64
}

// Leaderboard is a ranked list of user stats, sorted by minutes descending
// with ties keeping roster order. A leaderboard is immutable once produced;
// a fresh computation yields a new one rather than mutating the old.
type Leaderboard []UserStat

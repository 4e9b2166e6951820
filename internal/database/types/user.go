package types

import (
	"github.com/uptrace/bun"
)

// User is a registered leaderboard participant. A row is created on first
// contact with the bot; the WakaTime key may be filled in later. Users with
// an empty key are excluded from aggregation.
type User struct {
	bun.BaseModel `bun:"table:users"`

	DiscordID uint64 `bun:"discord_id,pk"`
	Username  string `bun:"username"`
	WakaKey   string `bun:"waka_key"`
}

// HasKey reports whether the user has supplied a WakaTime API key.
func (u *User) HasKey() bool {
	return u.WakaKey != ""
}

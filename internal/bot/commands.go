package bot

import (
	"github.com/disgoorg/disgo/discord"
)

// Command names dispatched by the interaction handler.
const (
	CommandTop    = "top"
	CommandWeek   = "week"
	CommandMonth  = "month"
	CommandYear   = "year"
	CommandSetKey = "setkey"
	CommandHelp   = "help"
)

// OptionKey is the /setkey option carrying the WakaTime API key.
const OptionKey = "key"

// commands returns the slash command definitions registered with Discord.
func commands() []discord.ApplicationCommandCreate {
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        CommandTop,
			Description: "Show the coding time leaderboard for today",
		},
		discord.SlashCommandCreate{
			Name:        CommandWeek,
			Description: "Show the coding time leaderboard for the last 7 days",
		},
		discord.SlashCommandCreate{
			Name:        CommandMonth,
			Description: "Show the coding time leaderboard for the last 30 days",
		},
		discord.SlashCommandCreate{
			Name:        CommandYear,
			Description: "Show the coding time leaderboard for the last 365 days",
		},
		discord.SlashCommandCreate{
			Name:        CommandSetKey,
			Description: "Register your WakaTime API key",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        OptionKey,
					Description: "Your secret API key from wakatime.com/settings/account",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        CommandHelp,
			Description: "Show the available commands",
		},
	}
}

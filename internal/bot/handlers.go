package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/wakatop/wakatop/internal/stats"
	"go.uber.org/zap"
)

const helpText = "**Available commands:**\n\n" +
	"**Registration:**\n" +
	"/setkey - Register your WakaTime API key\n\n" +
	"**Leaderboards:**\n" +
	"/top - Coding time today\n" +
	"/week - Coding time over the last 7 days\n" +
	"/month - Coding time over the last 30 days (cached)\n" +
	"/year - Coding time over the last 365 days (cached)\n\n" +
	"**Help:**\n" +
	"/help - Show this message"

const noUsersText = "Nobody has registered a WakaTime API key yet. Use /setkey to join the leaderboard."

// windowTitle returns the human-readable heading for a window's leaderboard.
func windowTitle(window stats.Window) string {
	switch window {
	case stats.WindowDay:
		return "Top coders (today)"
	case stats.WindowWeek:
		return "Top coders (last 7 days)"
	case stats.WindowMonth:
		return "Top coders (last 30 days)"
	case stats.WindowYear:
		return "Top coders (last 365 days)"
	default:
		return "Top coders"
	}
}

// displayToken renders a username as a non-pinging token. Mentions are
// additionally suppressed on the message itself so nobody gets notified by
// a leaderboard post.
func displayToken(stat stats.UserStat) string {
	return "@" + stat.Username
}

// handleLeaderboard serves the leaderboard for a window. The deferred
// response acts as the placeholder while an uncached aggregation runs.
func (b *Bot) handleLeaderboard(event *events.ApplicationCommandInteractionCreate, window stats.Window) {
	if err := event.DeferCreateMessage(false); err != nil {
		b.logger.Error("Failed to defer create message", zap.Error(err))
		return
	}

	ctx := context.Background()

	// Keep the invoker's display name current; names on the leaderboard
	// come from the registry, not from Discord at render time
	user := event.User()
	if err := b.db.Model().User().UpsertContact(ctx, uint64(user.ID), user.Username); err != nil {
		b.logger.Debug("Failed to refresh username",
			zap.Uint64("discordID", uint64(user.ID)),
			zap.Error(err))
	}

	leaderboard, err := b.service.Leaderboard(ctx, window)
	if err != nil {
		if errors.Is(err, stats.ErrNoUsers) {
			b.updateResponse(event, discord.NewMessageUpdateBuilder().SetContent(noUsersText).Build())
			return
		}

		b.logger.Error("Failed to build leaderboard",
			zap.String("window", window.String()),
			zap.Error(err))
		b.updateResponse(event, discord.NewMessageUpdateBuilder().
			SetContent("Could not collect the leaderboard right now. Please try again later.").
			Build())

		return
	}

	if len(leaderboard) == 0 {
		b.updateResponse(event, discord.NewMessageUpdateBuilder().
			SetContent("The leaderboard is empty.").
			Build())

		return
	}

	entries := make([]stats.DisplayEntry, 0, len(leaderboard))
	for _, stat := range leaderboard {
		entries = append(entries, stats.DisplayEntry{
			Token:   displayToken(stat),
			Minutes: stat.Minutes,
		})
	}

	lines := append([]string{"**" + windowTitle(window) + ":**"}, stats.FormatLines(entries, 1)...)

	builder := discord.NewMessageUpdateBuilder().
		SetContent(strings.Join(lines, "\n")).
		SetAllowedMentions(&discord.AllowedMentions{})

	// Cached windows get a chart attached; rendering failure degrades to
	// a text-only reply
	if window.Cacheable() {
		buf, err := stats.NewChartBuilder(windowTitle(window), leaderboard, b.chartTopN).Build()
		if err != nil {
			b.logger.Warn("Failed to render leaderboard chart",
				zap.String("window", window.String()),
				zap.Error(err))
		} else {
			builder.AddFile("leaderboard_chart.png", "", buf)
		}
	}

	b.updateResponse(event, builder.Build())
}

// handleSetKey registers or replaces the caller's WakaTime API key.
func (b *Bot) handleSetKey(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	key := strings.TrimSpace(data.String(OptionKey))
	user := event.User()

	if key == "" {
		b.createEphemeral(event, "Please provide your WakaTime API key: /setkey <your API key>")
		return
	}

	if err := b.db.Model().User().SetAPIKey(context.Background(), uint64(user.ID), user.Username, key); err != nil {
		b.logger.Error("Failed to save API key",
			zap.Uint64("discordID", uint64(user.ID)),
			zap.Error(err))
		b.createEphemeral(event, "Could not save your API key. Please try again later.")

		return
	}

	b.createEphemeral(event,
		"WakaTime API key saved! Use /top, /week, /month or /year to see the leaderboards.")
}

// handleHelp shows the available commands.
func (b *Bot) handleHelp(event *events.ApplicationCommandInteractionCreate) {
	b.createEphemeral(event, helpText)
}

// createEphemeral replies to an interaction with a message only the caller
// can see.
func (b *Bot) createEphemeral(event *events.ApplicationCommandInteractionCreate, content string) {
	err := event.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
	if err != nil {
		b.logger.Error("Failed to create message", zap.Error(err))
	}
}

// updateResponse edits the deferred interaction response.
func (b *Bot) updateResponse(event *events.ApplicationCommandInteractionCreate, update discord.MessageUpdate) {
	_, err := b.client.Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(), update)
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

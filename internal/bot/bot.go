package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/wakatop/wakatop/internal/database"
	"github.com/wakatop/wakatop/internal/stats"
	"go.uber.org/zap"
)

// Bot wires the leaderboard service and user registry into Discord slash
// commands. The core is reached exclusively through the stats service; the
// bot layer only dispatches and renders.
type Bot struct {
	client    bot.Client
	db        database.Client
	service   *stats.Service
	chartTopN int
	logger    *zap.Logger
}

// New initializes a Bot instance and configures the Discord client with the
// necessary gateway intents and event listeners.
func New(
	token string, db database.Client, service *stats.Service, chartTopN int, logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		db:        db,
		service:   service,
		chartTopN: chartTopN,
		logger:    logger.Named("bot"),
	}

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client

	return b, nil
}

// Start registers global commands with Discord and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction dispatches slash commands. The
// response is deferred first: aggregation over an uncached window can take
// a while and the deferred state doubles as the "collecting data"
// placeholder the user sees.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		commandName := event.SlashCommandInteractionData().CommandName()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in command handler",
					zap.String("command", commandName),
					zap.Any("panic", r))
			}

			b.logger.Debug("Command handled",
				zap.String("command", commandName),
				zap.Duration("duration", time.Since(start)))
		}()

		switch commandName {
		case CommandTop:
			b.handleLeaderboard(event, stats.WindowDay)
		case CommandWeek:
			b.handleLeaderboard(event, stats.WindowWeek)
		case CommandMonth:
			b.handleLeaderboard(event, stats.WindowMonth)
		case CommandYear:
			b.handleLeaderboard(event, stats.WindowYear)
		case CommandSetKey:
			b.handleSetKey(event)
		case CommandHelp:
			b.handleHelp(event)
		default:
			b.logger.Warn("Unknown command", zap.String("command", commandName))
		}
	}()
}

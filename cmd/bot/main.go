package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wakatop/wakatop/internal/bot"
	"github.com/wakatop/wakatop/internal/redis"
	"github.com/wakatop/wakatop/internal/setup"
	"github.com/wakatop/wakatop/internal/stats"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"
)

func main() {
	ctx := context.Background()

	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx, BotLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	// Build the leaderboard serving stack
	cacheClient, err := app.RedisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		log.Printf("Failed to get Redis cache client: %v", err)
		return
	}

	aggregator := stats.NewAggregator(
		app.DB.Model().User(),
		app.WakaClient,
		app.Location,
		app.Config.Common.WakaTime.MaxConcurrent,
		app.Logger,
	)
	cache := stats.NewCache(cacheClient, &app.Config.Common.Cache, app.Logger)
	service := stats.NewService(aggregator, cache, app.Logger)

	// Create bot instance
	discordBot, err := bot.New(
		app.Config.Bot.Token,
		app.DB,
		service,
		app.Config.Bot.ChartTopN,
		app.Logger,
	)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return
	}

	// Start the bot and connect to Discord
	if err := discordBot.Start(ctx); err != nil {
		log.Printf("Failed to start bot: %v", err)
		return
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	// Wait for interrupt signal to gracefully shutdown the bot
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the Discord session
	discordBot.Close(ctx)
}

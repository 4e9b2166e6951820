package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wakatop/wakatop/internal/redis"
	"github.com/wakatop/wakatop/internal/setup"
	"github.com/wakatop/wakatop/internal/stats"
	"github.com/wakatop/wakatop/internal/worker/refresh"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"
)

var errUnknownWindow = errors.New("unknown window")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Refresh the cached wakatop leaderboards",
		Commands: []*cli.Command{
			{
				Name:  "refresh",
				Usage: "Refresh a cached window once and exit (cron-friendly)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Value:   "all",
						Usage:   "Window to refresh: month, year or all",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runOnce(ctx, c.String("window"))
				},
			},
			{
				Name:  "run",
				Usage: "Run the refresh loop until interrupted",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runLoop(ctx)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// newWorker bootstraps the application and assembles the refresh worker.
func newWorker(ctx context.Context) (*refresh.Worker, *setup.App, error) {
	app, err := setup.InitializeApp(ctx, WorkerLogDir)
	if err != nil {
		return nil, nil, err
	}

	cacheClient, err := app.RedisManager.GetClient(redis.CacheDBIndex)
	if err != nil {
		app.Cleanup()
		return nil, nil, err
	}

	aggregator := stats.NewAggregator(
		app.DB.Model().User(),
		app.WakaClient,
		app.Location,
		app.Config.Common.WakaTime.MaxConcurrent,
		app.Logger,
	)
	cache := stats.NewCache(cacheClient, &app.Config.Common.Cache, app.Logger)

	return refresh.New(aggregator, cache, app.Logger), app, nil
}

// runOnce refreshes the requested window(s) a single time.
func runOnce(ctx context.Context, window string) error {
	worker, app, err := newWorker(ctx)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	switch window {
	case "month":
		return worker.RefreshOnce(ctx, stats.WindowMonth)
	case "year":
		return worker.RefreshOnce(ctx, stats.WindowYear)
	case "all":
		if err := worker.RefreshOnce(ctx, stats.WindowMonth); err != nil {
			return err
		}

		return worker.RefreshOnce(ctx, stats.WindowYear)
	default:
		return errUnknownWindow
	}
}

// runLoop runs the periodic refresh loop until an interrupt arrives.
func runLoop(ctx context.Context) error {
	worker, app, err := newWorker(ctx)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	worker.Start(ctx,
		time.Duration(app.Config.Worker.MonthInterval)*time.Second,
		time.Duration(app.Config.Worker.YearInterval)*time.Second,
	)

	return nil
}

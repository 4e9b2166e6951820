package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wakatop/wakatop/internal/stats"
	"go.uber.org/zap"
)

// Worker rebuilds the cached leaderboards out of band so that chat requests
// for the expensive windows are served from a warm cache. It writes into the
// cache directly, bypassing the request path entirely. A request-triggered
// recompute racing a refresh is acceptable; both write the same global slot
// and TTL bounds the staleness either way.
type Worker struct {
	aggregator *stats.Aggregator
	cache      *stats.Cache
	logger     *zap.Logger
}

// New creates a refresh worker.
func New(aggregator *stats.Aggregator, cache *stats.Cache, logger *zap.Logger) *Worker {
	return &Worker{
		aggregator: aggregator,
		cache:      cache,
		logger:     logger.Named("refresh"),
	}
}

// RefreshOnce rebuilds one window's leaderboard and stores the snapshot.
// An empty roster is logged and skipped rather than treated as a failure.
func (w *Worker) RefreshOnce(ctx context.Context, window stats.Window) error {
	runID := uuid.New().String()
	logger := w.logger.With(
		zap.String("runID", runID),
		zap.String("window", window.String()),
	)

	logger.Info("Starting leaderboard refresh")
	start := time.Now()

	leaderboard, err := w.aggregator.BuildLeaderboard(ctx, window)
	if err != nil {
		if errors.Is(err, stats.ErrNoUsers) {
			logger.Warn("No registered users, nothing to refresh")
			return nil
		}

		logger.Error("Failed to build leaderboard", zap.Error(err))

		return err
	}

	if err := w.cache.Put(ctx, window, leaderboard); err != nil {
		logger.Error("Failed to store leaderboard snapshot", zap.Error(err))
		return err
	}

	logger.Info("Leaderboard refresh complete",
		zap.Int("entries", len(leaderboard)),
		zap.Duration("took", time.Since(start)))

	return nil
}

// Start runs the refresh loop until the context is cancelled. Both windows
// are refreshed immediately on startup so a cold cache warms up without
// waiting for the first tick.
func (w *Worker) Start(ctx context.Context, monthInterval, yearInterval time.Duration) {
	w.logger.Info("Refresh worker started",
		zap.Duration("monthInterval", monthInterval),
		zap.Duration("yearInterval", yearInterval))

	if err := w.RefreshOnce(ctx, stats.WindowMonth); err != nil {
		w.logger.Error("Initial month refresh failed", zap.Error(err))
	}

	if err := w.RefreshOnce(ctx, stats.WindowYear); err != nil {
		w.logger.Error("Initial year refresh failed", zap.Error(err))
	}

	monthTicker := time.NewTicker(monthInterval)
	defer monthTicker.Stop()

	yearTicker := time.NewTicker(yearInterval)
	defer yearTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Refresh worker stopped")
			return
		case <-monthTicker.C:
			if err := w.RefreshOnce(ctx, stats.WindowMonth); err != nil {
				w.logger.Error("Month refresh failed", zap.Error(err))
			}
		case <-yearTicker.C:
			if err := w.RefreshOnce(ctx, stats.WindowYear); err != nil {
				w.logger.Error("Year refresh failed", zap.Error(err))
			}
		}
	}
}

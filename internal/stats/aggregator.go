package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/wakatop/wakatop/internal/database/types"
	"github.com/wakatop/wakatop/internal/waka"
	"go.uber.org/zap"
)

// ErrNoUsers signals that nobody with an API key is registered. It is
// distinct from an empty leaderboard so callers can render a registration
// hint instead of an empty ranking.
var ErrNoUsers = errors.New("no registered users with an API key")

// UserSource lists the registered users considered for aggregation.
type UserSource interface {
	GetAllUsers(ctx context.Context) ([]*types.User, error)
}

// Fetcher retrieves the coding minutes one API key accumulated in a date range.
type Fetcher interface {
	FetchRangeMinutes(ctx context.Context, apiKey string, start, end time.Time) waka.FetchResult
}

// Aggregator fans out per-user summary fetches over a window and reduces
// them into a ranked leaderboard. Per-user failures degrade to a zero
// contribution inside the fetcher; the batch itself never fails on them.
type Aggregator struct {
	users         UserSource
	fetcher       Fetcher
	location      *time.Location
	maxConcurrent int
	logger        *zap.Logger
}

// NewAggregator creates an aggregator. maxConcurrent bounds the parallel
// fetches against the external API; values below 1 are treated as 1.
func NewAggregator(
	users UserSource, fetcher Fetcher, location *time.Location, maxConcurrent int, logger *zap.Logger,
) *Aggregator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Aggregator{
		users:         users,
		fetcher:       fetcher,
		location:      location,
		maxConcurrent: maxConcurrent,
		logger:        logger.Named("aggregator"),
	}
}

// BuildLeaderboard computes a fresh leaderboard for the window. Users
// without an API key are skipped entirely; they never appear in the output,
// not even with zero minutes. Returns ErrNoUsers when the filtered roster
// is empty.
func (a *Aggregator) BuildLeaderboard(ctx context.Context, window Window) (Leaderboard, error) {
	all, err := a.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roster: %w", err)
	}

	// Filter out users who never supplied a key
	roster := make([]*types.User, 0, len(all))
	for _, user := range all {
		if user.HasKey() {
			roster = append(roster, user)
		}
	}

	if len(roster) == 0 {
		return nil, ErrNoUsers
	}

	start, end := window.Resolve(time.Now().In(a.location))

	// Fan out fetches bounded by the concurrency limit. Each goroutine
	// writes its own slot so the roster order survives into the result,
	// which keeps ties stable across identical runs.
	results := make(Leaderboard, len(roster))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(a.maxConcurrent)

	for i, user := range roster {
		p.Go(func(ctx context.Context) error {
			res := a.fetcher.FetchRangeMinutes(ctx, user.WakaKey, start, end)
			if !res.OK() {
				a.logger.Warn("Fetch degraded to zero minutes",
					zap.String("username", user.Username),
					zap.String("window", window.String()),
					zap.String("status", res.Status.String()))
			}

			results[i] = UserStat{
				DiscordID: user.DiscordID,
				Username:  user.Username,
				Minutes:   res.Minutes,
			}

			return nil
		})
	}

	// All results are collected before sorting; there is no streaming of
	// partial leaderboards.
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch summaries: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Minutes > results[j].Minutes
	})

	a.logger.Debug("Built leaderboard",
		zap.String("window", window.String()),
		zap.Int("entries", len(results)))

	return results, nil
}

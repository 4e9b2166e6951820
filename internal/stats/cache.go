package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/wakatop/wakatop/internal/setup/config"
	"go.uber.org/zap"
)

// Cache key per window class. There is a single slot per class, not per
// requester; the leaderboard is a shared, global view.
const (
	monthCacheKey = "wakatime:month_stats"
	yearCacheKey  = "wakatime:year_stats"
)

// storedLeaderboard is the persisted snapshot format. Data holds
// [username, minutes] pairs in leaderboard order so the ranking
// round-trips losslessly.
type storedLeaderboard struct {
	ComputedAt time.Time `json:"computed_at"`
	Data       [][2]any  `json:"data"`
}

// Cache stores precomputed leaderboards in Redis under a per-window-class
// TTL. Day and week windows are never cached; every failure on the read
// path degrades to a cache miss so the serving path never breaks on a
// storage problem.
type Cache struct {
	client   rueidis.Client
	monthTTL time.Duration
	yearTTL  time.Duration
	logger   *zap.Logger
}

// NewCache creates a leaderboard cache with TTLs from config.
func NewCache(client rueidis.Client, cfg *config.Cache, logger *zap.Logger) *Cache {
	return &Cache{
		client:   client,
		monthTTL: time.Duration(cfg.MonthTTL) * time.Second,
		yearTTL:  time.Duration(cfg.YearTTL) * time.Second,
		logger:   logger.Named("cache"),
	}
}

// key returns the Redis key for a window class, or "" when the class is
// not cached.
func (c *Cache) key(window Window) string {
	switch window {
	case WindowMonth:
		return monthCacheKey
	case WindowYear:
		return yearCacheKey
	default:
		return ""
	}
}

// ttl returns the time-to-live for a window class.
func (c *Cache) ttl(window Window) time.Duration {
	switch window {
	case WindowMonth:
		return c.monthTTL
	case WindowYear:
		return c.yearTTL
	default:
		return 0
	}
}

// Get returns the stored snapshot for the window if one is present and not
// expired. It never recomputes. An unreachable backend or a corrupt payload
// both report a miss.
func (c *Cache) Get(ctx context.Context, window Window) (Leaderboard, bool) {
	key := c.key(window)
	if key == "" {
		return nil, false
	}

	raw, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			c.logger.Debug("Cache miss", zap.String("window", window.String()))
		} else {
			// Backend unavailable: fall back to treating the cache as
			// always-miss so every request becomes a live run.
			c.logger.Warn("Cache unavailable, treating as miss",
				zap.String("window", window.String()),
				zap.Error(err))
		}

		return nil, false
	}

	var stored storedLeaderboard
	if err := sonic.Unmarshal([]byte(raw), &stored); err != nil {
		c.logger.Error("Corrupt cache payload, treating as miss",
			zap.String("window", window.String()),
			zap.Error(err))

		return nil, false
	}

	leaderboard := make(Leaderboard, 0, len(stored.Data))

	for _, pair := range stored.Data {
		username, okName := pair[0].(string)
		minutes, okMinutes := pair[1].(float64)

		if !okName || !okMinutes {
			c.logger.Error("Corrupt cache entry, treating as miss",
				zap.String("window", window.String()))

			return nil, false
		}

		leaderboard = append(leaderboard, UserStat{
			Username: username,
			Minutes:  minutes,
		})
	}

	c.logger.Debug("Cache hit",
		zap.String("window", window.String()),
		zap.Duration("age", time.Since(stored.ComputedAt)),
		zap.Int("entries", len(leaderboard)))

	return leaderboard, true
}

// Put overwrites the snapshot for the window, stamping it with the current
// time. Non-cacheable window classes are ignored. A storage failure is
// returned for reporting but is non-fatal to callers, which still hold the
// freshly computed leaderboard.
func (c *Cache) Put(ctx context.Context, window Window, leaderboard Leaderboard) error {
	key := c.key(window)
	if key == "" {
		return nil
	}

	stored := storedLeaderboard{
		ComputedAt: time.Now(),
		Data:       make([][2]any, 0, len(leaderboard)),
	}
	for _, stat := range leaderboard {
		stored.Data = append(stored.Data, [2]any{stat.Username, stat.Minutes})
	}

	payload, err := sonic.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard snapshot: %w", err)
	}

	cmd := c.client.B().Setex().
		Key(key).
		Seconds(int64(c.ttl(window).Seconds())).
		Value(string(payload)).
		Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store leaderboard snapshot: %w", err)
	}

	c.logger.Info("Stored leaderboard snapshot",
		zap.String("window", window.String()),
		zap.Int("entries", len(leaderboard)))

	return nil
}

package stats

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service is the request path for leaderboards: cache fast path, live
// aggregation on miss, write-through for cacheable window classes.
type Service struct {
	aggregator *Aggregator
	cache      *Cache
	group      singleflight.Group
	logger     *zap.Logger
}

// NewService wires the aggregator and cache into a serving facade.
func NewService(aggregator *Aggregator, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		cache:      cache,
		logger:     logger.Named("stats"),
	}
}

// Leaderboard returns the leaderboard for a window, serving from cache when
// a fresh snapshot exists and computing live otherwise. Concurrent misses
// for the same window coalesce into a single aggregator run; staleness by
// TTL bounds the damage of the occasional redundant recomputation, so no
// stronger locking is needed.
func (s *Service) Leaderboard(ctx context.Context, window Window) (Leaderboard, error) {
	if window.Cacheable() {
		if leaderboard, ok := s.cache.Get(ctx, window); ok {
			return leaderboard, nil
		}
	}

	result, err, shared := s.group.Do(window.String(), func() (any, error) {
		leaderboard, err := s.aggregator.BuildLeaderboard(ctx, window)
		if err != nil {
			return nil, err
		}

		if window.Cacheable() {
			// The snapshot is best effort; the computed leaderboard is
			// served regardless.
			if err := s.cache.Put(ctx, window, leaderboard); err != nil {
				s.logger.Warn("Failed to store leaderboard snapshot",
					zap.String("window", window.String()),
					zap.Error(err))
			}
		}

		return leaderboard, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.Debug("Coalesced concurrent leaderboard request",
			zap.String("window", window.String()))
	}

	return result.(Leaderboard), nil
}

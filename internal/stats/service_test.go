package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakatop/wakatop/internal/database/types"
	"github.com/wakatop/wakatop/internal/stats"
	"github.com/wakatop/wakatop/internal/waka"
	"go.uber.org/zap"
)

func setupService(t *testing.T) (*stats.Service, *stubFetcher) {
	t.Helper()

	users := &stubUsers{users: []*types.User{
		{DiscordID: 1, Username: "alice", WakaKey: "key-a"},
		{DiscordID: 2, Username: "bob", WakaKey: "key-b"},
	}}
	fetcher := &stubFetcher{results: map[string]waka.FetchResult{
		"key-a": {Minutes: 90, Status: waka.FetchSuccess},
		"key-b": {Minutes: 30, Status: waka.FetchSuccess},
	}}

	cache, _ := setupCache(t)
	service := stats.NewService(newAggregator(users, fetcher), cache, zap.NewNop())

	return service, fetcher
}

func TestServiceDayAlwaysRecomputes(t *testing.T) {
	t.Parallel()

	service, fetcher := setupService(t)
	ctx := t.Context()

	for range 3 {
		leaderboard, err := service.Leaderboard(ctx, stats.WindowDay)
		require.NoError(t, err)
		require.Len(t, leaderboard, 2)
	}

	// Two users fetched on every request, no snapshot reuse
	assert.Equal(t, 6, fetcher.callCount())
}

func TestServiceWeekAlwaysRecomputes(t *testing.T) {
	t.Parallel()

	service, fetcher := setupService(t)
	ctx := t.Context()

	_, err := service.Leaderboard(ctx, stats.WindowWeek)
	require.NoError(t, err)

	_, err = service.Leaderboard(ctx, stats.WindowWeek)
	require.NoError(t, err)

	assert.Equal(t, 4, fetcher.callCount())
}

func TestServiceMonthServedFromCache(t *testing.T) {
	t.Parallel()

	service, fetcher := setupService(t)
	ctx := t.Context()

	first, err := service.Leaderboard(ctx, stats.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())

	// Second call hits the snapshot written by the first
	second, err := service.Leaderboard(ctx, stats.WindowMonth)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Username, second[i].Username)
		assert.InDelta(t, first[i].Minutes, second[i].Minutes, 0.001)
	}
}

func TestServiceNoUsers(t *testing.T) {
	t.Parallel()

	cache, _ := setupCache(t)
	service := stats.NewService(
		newAggregator(&stubUsers{}, &stubFetcher{}), cache, zap.NewNop())

	_, err := service.Leaderboard(t.Context(), stats.WindowDay)
	require.ErrorIs(t, err, stats.ErrNoUsers)
}

package stats_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakatop/wakatop/internal/setup/config"
	"github.com/wakatop/wakatop/internal/stats"
	"go.uber.org/zap"
)

func setupCache(t *testing.T) (*stats.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	cache := stats.NewCache(client, &config.Cache{
		MonthTTL: 3600,
		YearTTL:  86400,
	}, zap.NewNop())

	return cache, mr
}

func sampleLeaderboard() stats.Leaderboard {
	return stats.Leaderboard{
		{Username: "alice", Minutes: 120.5},
		{Username: "bob", Minutes: 45},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache, _ := setupCache(t)
	ctx := t.Context()

	require.NoError(t, cache.Put(ctx, stats.WindowMonth, sampleLeaderboard()))

	got, ok := cache.Get(ctx, stats.WindowMonth)
	require.True(t, ok)

	// Ranking order and minutes survive the round trip
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.InDelta(t, 120.5, got[0].Minutes, 0.001)
	assert.Equal(t, "bob", got[1].Username)
	assert.InDelta(t, 45, got[1].Minutes, 0.001)
}

func TestCacheMissWhenEmpty(t *testing.T) {
	t.Parallel()

	cache, _ := setupCache(t)

	_, ok := cache.Get(t.Context(), stats.WindowMonth)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	cache, mr := setupCache(t)
	ctx := t.Context()

	require.NoError(t, cache.Put(ctx, stats.WindowMonth, sampleLeaderboard()))
	require.NoError(t, cache.Put(ctx, stats.WindowYear, sampleLeaderboard()))

	// Past the month TTL but within the year TTL
	mr.FastForward(2 * time.Hour)

	_, ok := cache.Get(ctx, stats.WindowMonth)
	assert.False(t, ok, "month snapshot should have expired")

	_, ok = cache.Get(ctx, stats.WindowYear)
	assert.True(t, ok, "year snapshot should still be live")
}

func TestCacheSkipsNonCacheableWindows(t *testing.T) {
	t.Parallel()

	cache, mr := setupCache(t)
	ctx := t.Context()

	require.NoError(t, cache.Put(ctx, stats.WindowDay, sampleLeaderboard()))
	require.NoError(t, cache.Put(ctx, stats.WindowWeek, sampleLeaderboard()))

	assert.Empty(t, mr.Keys())

	_, ok := cache.Get(ctx, stats.WindowDay)
	assert.False(t, ok)

	_, ok = cache.Get(ctx, stats.WindowWeek)
	assert.False(t, ok)
}

func TestCacheCorruptPayloadIsMiss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "{{{"},
		{name: "wrong pair types", payload: `{"computed_at":"2024-03-15T12:00:00Z","data":[[42,"alice"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache, mr := setupCache(t)

			require.NoError(t, mr.Set("wakatime:month_stats", tt.payload))

			_, ok := cache.Get(t.Context(), stats.WindowMonth)
			assert.False(t, ok)
		})
	}
}

func TestCacheUnavailableIsMiss(t *testing.T) {
	t.Parallel()

	cache, mr := setupCache(t)
	mr.Close()

	_, ok := cache.Get(t.Context(), stats.WindowMonth)
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	t.Parallel()

	cache, _ := setupCache(t)
	ctx := t.Context()

	require.NoError(t, cache.Put(ctx, stats.WindowMonth, sampleLeaderboard()))
	require.NoError(t, cache.Put(ctx, stats.WindowMonth, stats.Leaderboard{
		{Username: "carol", Minutes: 300},
	}))

	got, ok := cache.Get(ctx, stats.WindowMonth)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "carol", got[0].Username)
}

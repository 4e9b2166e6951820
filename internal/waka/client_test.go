package waka_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaxron/axonet/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakatop/wakatop/internal/waka"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *waka.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return waka.NewClient(client.NewClient(), server.URL, zap.NewNop())
}

func fetchRange(t *testing.T, c *waka.Client) waka.FetchResult {
	t.Helper()

	end := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)

	return c.FetchRangeMinutes(t.Context(), "test-key", start, end)
}

func TestFetchRangeMinutesSumsDays(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/current/summaries", r.URL.Path)
		assert.Equal(t, "2024-03-09", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-03-15", r.URL.Query().Get("end"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"grand_total":{"total_seconds":3600}},
			{"grand_total":{"total_seconds":1800}},
			{"grand_total":{}}
		]}`))
	})

	result := fetchRange(t, c)
	require.True(t, result.OK())

	// 5400 seconds across the range, the day without a grand total counts 0
	assert.InDelta(t, 90, result.Minutes, 0.001)
}

func TestFetchRangeMinutesBadStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	result := fetchRange(t, c)
	assert.Equal(t, waka.FetchBadStatus, result.Status)
	assert.Zero(t, result.Minutes)
}

func TestFetchRangeMinutesMalformedBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	result := fetchRange(t, c)
	assert.Equal(t, waka.FetchMalformedResponse, result.Status)
	assert.Zero(t, result.Minutes)
}

func TestFetchRangeMinutesEmptyData(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	result := fetchRange(t, c)
	assert.Equal(t, waka.FetchEmptyResponse, result.Status)
	assert.Zero(t, result.Minutes)
}

func TestFetchRangeMinutesServerDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	c := waka.NewClient(client.NewClient(), server.URL, zap.NewNop())

	result := fetchRange(t, c)
	assert.Equal(t, waka.FetchRequestFailed, result.Status)
	assert.Zero(t, result.Minutes)
}

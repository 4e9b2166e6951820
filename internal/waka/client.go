package waka

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production WakaTime API endpoint.
const DefaultBaseURL = "https://wakatime.com/api/v1"

// dateFormat is the ISO date layout the summaries endpoint expects.
const dateFormat = "2006-01-02"

// FetchStatus classifies the outcome of a summaries fetch. Failures are
// reported as a status instead of an error so that one broken key degrades
// to a zero contribution rather than aborting a whole leaderboard run.
type FetchStatus int

const (
	// FetchSuccess means the response was decoded and summed.
	FetchSuccess FetchStatus = iota
	// FetchRequestFailed means the HTTP request itself failed or timed out.
	FetchRequestFailed
	// FetchBadStatus means the API answered with a non-200 status.
	FetchBadStatus
	// FetchMalformedResponse means the body could not be decoded.
	FetchMalformedResponse
	// FetchEmptyResponse means the response carried no daily records.
	FetchEmptyResponse
)

// String returns a human-readable name for the fetch status.
func (s FetchStatus) String() string {
	switch s {
	case FetchSuccess:
		return "success"
	case FetchRequestFailed:
		return "request_failed"
	case FetchBadStatus:
		return "bad_status"
	case FetchMalformedResponse:
		return "malformed_response"
	case FetchEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// FetchResult is the typed outcome of a summaries fetch. Minutes is always
// usable; it is zero for every non-success status.
type FetchResult struct {
	Minutes float64
	Status  FetchStatus
}

// OK reports whether the fetch completed successfully.
func (r FetchResult) OK() bool {
	return r.Status == FetchSuccess
}

// summariesResponse mirrors the summaries endpoint payload. Fields absent
// from the body decode to their zero values, which makes the defaulting of
// grand_total.total_seconds to 0 explicit.
type summariesResponse struct {
	Data []summaryDay `json:"data"`
}

type summaryDay struct {
	GrandTotal grandTotal `json:"grand_total"`
}

type grandTotal struct {
	TotalSeconds float64 `json:"total_seconds"`
}

// Client fetches coding time summaries from the WakaTime API.
type Client struct {
	http    *client.Client
	baseURL string
	logger  *zap.Logger
}

// NewClient creates a WakaTime client on top of the shared HTTP client.
// An empty baseURL selects the production endpoint.
func NewClient(httpClient *client.Client, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger.Named("waka"),
	}
}

// FetchRangeMinutes returns the total coding minutes recorded between start
// and end (inclusive) for the user owning the given API key. The grand total
// of each day is summed across all categories; whole coding time counts, not
// just one activity category.
//
// The call is idempotent and side-effect-free. Every failure degrades to
// zero minutes with a logged warning so the caller never has to recover.
func (c *Client) FetchRangeMinutes(ctx context.Context, apiKey string, start, end time.Time) FetchResult {
	resp, err := c.http.NewRequest().
		Method(http.MethodGet).
		URL(c.baseURL + "/users/current/summaries").
		Query("start", start.Format(dateFormat)).
		Query("end", end.Format(dateFormat)).
		Query("api_key", apiKey).
		Do(ctx)
	if err != nil {
		c.logger.Warn("Summaries request failed", zap.Error(err))
		return FetchResult{Status: FetchRequestFailed}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Summaries request returned non-200 status",
			zap.Int("status", resp.StatusCode))

		return FetchResult{Status: FetchBadStatus}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("Failed to read summaries response", zap.Error(err))
		return FetchResult{Status: FetchMalformedResponse}
	}

	var summaries summariesResponse
	if err := sonic.Unmarshal(body, &summaries); err != nil {
		c.logger.Warn("Failed to decode summaries response", zap.Error(err))
		return FetchResult{Status: FetchMalformedResponse}
	}

	if len(summaries.Data) == 0 {
		c.logger.Warn("Summaries response carried no daily records")
		return FetchResult{Status: FetchEmptyResponse}
	}

	var totalSeconds float64
	for _, day := range summaries.Data {
		totalSeconds += day.GrandTotal.TotalSeconds
	}

	c.logger.Debug("Fetched summaries",
		zap.String("start", start.Format(dateFormat)),
		zap.String("end", end.Format(dateFormat)),
		zap.Float64("totalSeconds", totalSeconds))

	return FetchResult{
		Minutes: totalSeconds / 60.0,
		Status:  FetchSuccess,
	}
}

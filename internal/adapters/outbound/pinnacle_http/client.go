package pinnacle_http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkelly/plusev/internal/telemetry"
)

// Client pulls the reference event list over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// FetchEvents pulls all upcoming events and enriches their markets with
// fair prices. A failure here is fatal to the run; callers do not retry.
func (c *Client) FetchEvents(ctx context.Context) ([]*Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.baseURL + "/v1/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events fetch: status %d", resp.StatusCode)
	}

	var payload struct {
		Events []*Event `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	for _, e := range payload.Events {
		Enrich(e)
	}

	telemetry.Metrics.EventsFetched.Add(int64(len(payload.Events)))
	telemetry.Metrics.FeedLatency.Record(time.Since(start))
	telemetry.Infof("pinnacle_http: fetched %d events (%s)", len(payload.Events), time.Since(start))

	return payload.Events, nil
}

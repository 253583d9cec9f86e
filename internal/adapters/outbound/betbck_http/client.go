package betbck_http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkelly/plusev/internal/telemetry"
)

// Client talks to the scraper sidecar that drives the secondary book's
// search page. One Scrape call covers one game; failures are isolated to
// that game.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, scrapeTimeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: scrapeTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// Scrape searches the secondary book for one game. Returns (nil, nil) when
// the search completed but found nothing; an error means the scrape itself
// failed.
func (c *Client) Scrape(ctx context.Context, req ScrapeRequest) (*Game, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/scrape"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	telemetry.Metrics.ScrapeLatency.Record(time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape %q vs %q: status %d", req.HomeTeam, req.AwayTeam, resp.StatusCode)
	}

	var payload struct {
		Status string `json:"status,omitempty"`
		Error  string `json:"error,omitempty"`
		Game   *Game  `json:"game,omitempty"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("scrape %q vs %q: %s", req.HomeTeam, req.AwayTeam, payload.Error)
	}
	if payload.Game == nil {
		return nil, nil
	}

	telemetry.Infof("betbck_http: scraped %q vs %q (%s)", req.HomeTeam, req.AwayTeam, time.Since(start))
	return payload.Game, nil
}

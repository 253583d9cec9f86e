package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Reference feed
	PinnacleBaseURL string

	// Secondary-book scraper sidecar
	BetbckBaseURL string

	// Matching
	MatchingPath string

	// Orchestration
	ConcurrentScrapes int
	RequestTimeout    time.Duration
	SearchTimeout     time.Duration
	ScrapeTimeout     time.Duration

	// Output
	SinkPath  string
	StorePath string

	// Fanout
	FanoutEnabled bool
	FanoutPort    int

	// Alerting
	AlertEVThreshold float64

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		PinnacleBaseURL: envStr("PINNACLE_BASE_URL", "http://localhost:8008"),
		BetbckBaseURL:   envStr("BETBCK_BASE_URL", "http://localhost:8009"),

		MatchingPath: envStr("MATCHING_PATH", "internal/config/matching.yaml"),

		ConcurrentScrapes: envInt("CONCURRENT_SCRAPES", 4),
		RequestTimeout:    time.Duration(envInt("REQUEST_TIMEOUT_SEC", 10)) * time.Second,
		SearchTimeout:     time.Duration(envInt("SEARCH_TIMEOUT_SEC", 15)) * time.Second,
		ScrapeTimeout:     time.Duration(envInt("SCRAPE_TIMEOUT_SEC", 60)) * time.Second,

		SinkPath:  envStr("SINK_PATH", "matched_games.json"),
		StorePath: envStr("STORE_PATH", "data/results.db"),

		FanoutEnabled: envStr("FANOUT_ENABLED", "false") == "true",
		FanoutPort:    envInt("FANOUT_PORT", 8767),

		AlertEVThreshold: envFloat("ALERT_EV_THRESHOLD", 0.02),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

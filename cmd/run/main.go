package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkelly/plusev/internal/adapters/outbound/betbck_http"
	"github.com/pkelly/plusev/internal/adapters/outbound/pinnacle_http"
	"github.com/pkelly/plusev/internal/config"
	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/core/results"
	"github.com/pkelly/plusev/internal/events"
	"github.com/pkelly/plusev/internal/fanout"
	"github.com/pkelly/plusev/internal/pipeline"
	"github.com/pkelly/plusev/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting scanner")

	bus := events.NewBus()

	// ── Matching tables ─────────────────────────────────────────
	matching, err := config.LoadMatching(cfg.MatchingPath)
	if err != nil {
		telemetry.Errorf("Failed to load matching config: %v", err)
		os.Exit(1)
	}
	norm := matching.Normalizer()
	classifier, err := matching.Classifier()
	if err != nil {
		telemetry.Errorf("Sport keyword table: %v", err)
		os.Exit(1)
	}
	matcher := match.New(matching.MatcherConfig(), norm, classifier)

	// ── Clients ─────────────────────────────────────────────────
	feed := pinnacle_http.NewClient(cfg.PinnacleBaseURL, cfg.RequestTimeout)
	scraper := betbck_http.NewClient(cfg.BetbckBaseURL, cfg.ScrapeTimeout)

	// ── Results store ───────────────────────────────────────────
	var store *results.Store
	if cfg.StorePath != "" {
		if store, err = results.OpenStore(cfg.StorePath); err != nil {
			telemetry.Warnf("Results store disabled: %v", err)
			store = nil
		}
	}

	// ── Fanout ──────────────────────────────────────────────────
	if cfg.FanoutEnabled {
		srv := fanout.NewServer(bus)
		go func() {
			if err := srv.ListenAndServe(cfg.FanoutPort); err != nil {
				telemetry.Warnf("Fanout server: %v", err)
			}
		}()
		telemetry.Infof("Fanout listening on port %d", cfg.FanoutPort)
	}

	// ── Run ─────────────────────────────────────────────────────
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(feed, scraper, matcher, norm, bus, store, pipeline.Options{
		ConcurrentScrapes: cfg.ConcurrentScrapes,
		ScrapeTimeout:     cfg.ScrapeTimeout,
		AlertEVThreshold:  cfg.AlertEVThreshold,
	})

	report, err := p.Run(ctx)
	if err != nil {
		telemetry.Errorf("Run failed: %v", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}

	if err := report.WriteSink(cfg.SinkPath); err != nil {
		telemetry.Errorf("Write sink: %v", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
	telemetry.Infof("Report written to %q", cfg.SinkPath)

	if store != nil {
		store.Close()
	}

	telemetry.Infof("Done  events=%d  scrapes=%d  matched=%d  rows=%d  errors=%d",
		telemetry.Metrics.EventsFetched.Value(),
		telemetry.Metrics.ScrapesAttempted.Value(),
		telemetry.Metrics.GamesMatched.Value(),
		telemetry.Metrics.EVRowsEmitted.Value(),
		telemetry.Metrics.ScrapesFailed.Value(),
	)
}

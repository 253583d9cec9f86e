package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkelly/plusev/internal/adapters/outbound/betbck_http"
	"github.com/pkelly/plusev/internal/adapters/outbound/pinnacle_http"
	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/core/normalize"
	"github.com/pkelly/plusev/internal/core/sport"
	"github.com/pkelly/plusev/internal/events"
)

type stubFeed struct {
	events []*pinnacle_http.Event
	err    error
}

func (f *stubFeed) FetchEvents(context.Context) ([]*pinnacle_http.Event, error) {
	return f.events, f.err
}

type stubScraper struct {
	mu    sync.Mutex
	calls int
	games map[string]*betbck_http.Game // keyed by event id
	fail  map[string]error
}

func (s *stubScraper) Scrape(_ context.Context, req betbck_http.ScrapeRequest) (*betbck_http.Game, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := s.fail[req.EventID]; err != nil {
		return nil, err
	}
	return s.games[req.EventID], nil
}

func refEvent(id, home, away string) *pinnacle_http.Event {
	e := &pinnacle_http.Event{
		EventID:  id,
		HomeTeam: home,
		AwayTeam: away,
		Periods: map[int]*pinnacle_http.PeriodMarkets{
			0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95}},
		},
	}
	pinnacle_http.Enrich(e)
	return e
}

func newPipeline(feed Feed, scraper Scraper, bus *events.Bus) *Pipeline {
	norm := normalize.New(normalize.DefaultAliasTable())
	matcher := match.New(match.DefaultConfig(), norm, sport.Default())
	return New(feed, scraper, matcher, norm, bus, nil, Options{ConcurrentScrapes: 2})
}

func TestRunHappyPath(t *testing.T) {
	feed := &stubFeed{events: []*pinnacle_http.Event{
		refEvent("e1", "Boston Celtics", "Miami Heat"),
	}}
	scraper := &stubScraper{games: map[string]*betbck_http.Game{
		"e1": {
			GameID:   "g1",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Miami Heat",
			FullGame: betbck_http.MarketPrices{
				HomeMoneyline: "+100",
				AwayMoneyline: "-110",
			},
		},
	}}

	p := newPipeline(feed, scraper, nil)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.TotalMatches != 1 {
		t.Fatalf("TotalMatches = %d, want 1", report.TotalMatches)
	}
	mg := report.MatchedGames[0]
	if mg.EventID != "e1" || mg.GameID != "g1" {
		t.Errorf("unexpected match %+v", mg)
	}
	if len(mg.Opportunities) != 2 {
		t.Errorf("got %d EV rows, want 2", len(mg.Opportunities))
	}
}

func TestRunFeedFailureIsFatal(t *testing.T) {
	p := newPipeline(&stubFeed{err: errors.New("connection refused")}, &stubScraper{}, nil)
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("feed failure must be fatal")
	}
}

func TestRunScrapeFailureIsIsolated(t *testing.T) {
	feed := &stubFeed{events: []*pinnacle_http.Event{
		refEvent("e1", "Boston Celtics", "Miami Heat"),
		refEvent("e2", "Denver Nuggets", "Phoenix Suns"),
	}}
	scraper := &stubScraper{
		games: map[string]*betbck_http.Game{
			"e2": {
				GameID:   "g2",
				HomeTeam: "Denver Nuggets",
				AwayTeam: "Phoenix Suns",
				FullGame: betbck_http.MarketPrices{HomeMoneyline: "+100"},
			},
		},
		fail: map[string]error{"e1": errors.New("timeout")},
	}

	bus := events.NewBus()
	var scrapeErrors []events.Event
	bus.Subscribe(events.EventScrapeError, func(e events.Event) error {
		scrapeErrors = append(scrapeErrors, e)
		return nil
	})

	p := newPipeline(feed, scraper, bus)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("scrape failure must not fail the run: %v", err)
	}
	if report.TotalMatches != 1 || report.MatchedGames[0].EventID != "e2" {
		t.Errorf("healthy scrape should still match: %+v", report.MatchedGames)
	}
	if len(scrapeErrors) != 1 {
		t.Errorf("got %d scrape_error events, want 1", len(scrapeErrors))
	}
}

func TestRunZeroMatchesSucceeds(t *testing.T) {
	feed := &stubFeed{events: []*pinnacle_http.Event{
		refEvent("e1", "Boston Celtics", "Miami Heat"),
	}}
	p := newPipeline(feed, &stubScraper{}, nil) // scraper finds nothing

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("zero matches is still a successful run: %v", err)
	}
	if report.TotalMatches != 0 {
		t.Errorf("TotalMatches = %d", report.TotalMatches)
	}
	if len(report.UnmatchedEvents) != 1 {
		t.Errorf("reference event should be reported unmatched: %+v", report.UnmatchedEvents)
	}
}

func TestRunSkipsPropEvents(t *testing.T) {
	feed := &stubFeed{events: []*pinnacle_http.Event{
		refEvent("e1", "Lakers to win the tournament", "The Field"),
	}}
	scraper := &stubScraper{}
	p := newPipeline(feed, scraper, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if scraper.calls != 0 {
		t.Errorf("prop event was scraped %d times", scraper.calls)
	}
}

func TestRunPublishesEvents(t *testing.T) {
	feed := &stubFeed{events: []*pinnacle_http.Event{
		refEvent("e1", "Boston Celtics", "Miami Heat"),
	}}
	scraper := &stubScraper{games: map[string]*betbck_http.Game{
		"e1": {
			GameID:   "g1",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Miami Heat",
			FullGame: betbck_http.MarketPrices{HomeMoneyline: "+100"},
		},
	}}

	bus := events.NewBus()
	var matches, completed int
	bus.Subscribe(events.EventMatchFound, func(events.Event) error { matches++; return nil })
	bus.Subscribe(events.EventRunCompleted, func(events.Event) error { completed++; return nil })

	p := newPipeline(feed, scraper, bus)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if matches != 1 || completed != 1 {
		t.Errorf("matches=%d completed=%d, want 1/1", matches, completed)
	}
}

func TestReportWriteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	r := &Report{RunID: "run-1", TotalMatches: 0}
	if err := r.WriteSink(path); err != nil {
		t.Fatalf("WriteSink: %v", err)
	}
}

// Package pipeline orchestrates one scan: pull the reference event list,
// scrape the secondary book with bounded concurrency, match the results,
// and compute EV rows per match. Scrapes run in parallel; matching and
// analysis run sequentially over the collected games.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkelly/plusev/internal/adapters/outbound/betbck_http"
	"github.com/pkelly/plusev/internal/adapters/outbound/pinnacle_http"
	"github.com/pkelly/plusev/internal/core/market"
	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/core/normalize"
	"github.com/pkelly/plusev/internal/core/results"
	"github.com/pkelly/plusev/internal/events"
	"github.com/pkelly/plusev/internal/telemetry"
)

// Feed supplies the reference event list. Implemented by pinnacle_http.
type Feed interface {
	FetchEvents(ctx context.Context) ([]*pinnacle_http.Event, error)
}

// Scraper fetches one secondary-book game. Implemented by betbck_http.
// A nil game with a nil error means the search found nothing.
type Scraper interface {
	Scrape(ctx context.Context, req betbck_http.ScrapeRequest) (*betbck_http.Game, error)
}

type Options struct {
	ConcurrentScrapes int
	ScrapeTimeout     time.Duration
	AlertEVThreshold  float64 // publish ev_opportunity above this ratio
}

type Pipeline struct {
	feed    Feed
	scraper Scraper
	matcher *match.Matcher
	norm    *normalize.Normalizer
	bus     *events.Bus    // optional
	store   *results.Store // optional
	opts    Options
}

func New(feed Feed, scraper Scraper, matcher *match.Matcher, norm *normalize.Normalizer, bus *events.Bus, store *results.Store, opts Options) *Pipeline {
	if opts.ConcurrentScrapes <= 0 {
		opts.ConcurrentScrapes = 4
	}
	if opts.ScrapeTimeout <= 0 {
		opts.ScrapeTimeout = 60 * time.Second
	}
	return &Pipeline{
		feed:    feed,
		scraper: scraper,
		matcher: matcher,
		norm:    norm,
		bus:     bus,
		store:   store,
		opts:    opts,
	}
}

// Run executes one full scan. Only a feed failure is fatal; scrape and
// analysis failures are isolated per game and reported in the Report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	started := time.Now().UTC()

	refEvents, err := p.feed.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference feed: %w", err)
	}
	telemetry.Infof("pipeline: run %s starting with %d reference events", runID, len(refEvents))

	games := p.scrapeAll(ctx, refEvents)

	eventByID := make(map[string]*pinnacle_http.Event, len(refEvents))
	matchEvents := make([]match.Event, 0, len(refEvents))
	for _, e := range refEvents {
		eventByID[e.EventID] = e
		matchEvents = append(matchEvents, match.Event{
			ID:       e.EventID,
			HomeTeam: e.HomeTeam,
			AwayTeam: e.AwayTeam,
			Start:    e.Starts,
			League:   e.League,
		})
	}

	gameByID := make(map[string]*betbck_http.Game, len(games))
	matchGames := make([]match.Game, 0, len(games))
	for _, g := range games {
		if g.GameID == "" {
			g.GameID = uuid.NewString()
		}
		gameByID[g.GameID] = g
		matchGames = append(matchGames, match.Game{
			ID:       g.GameID,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			Start:    g.Start,
			League:   g.League,
		})
	}

	res := p.matcher.Match(matchEvents, matchGames)
	telemetry.Metrics.GamesMatched.Add(int64(len(res.Records)))
	telemetry.Metrics.GamesUnmatched.Add(int64(len(res.UnmatchedGames)))
	telemetry.Metrics.EventsUnmatched.Add(int64(len(res.UnmatchedEvents)))

	report := &Report{
		RunID:           runID,
		Timestamp:       started,
		UnmatchedGames:  res.UnmatchedGames,
		UnmatchedEvents: res.UnmatchedEvents,
	}

	totalRows := 0
	for _, rec := range res.Records {
		p.publishMatch(rec)

		e := eventByID[rec.EventID]
		g := gameByID[rec.GameID]
		rows, err := market.Analyze(e, g, rec.Orientation)
		if err != nil {
			if errors.Is(err, market.ErrPeriodMismatch) {
				telemetry.Warnf("pipeline: %v", err)
			} else {
				telemetry.Errorf("pipeline: analyze event %s: %v", rec.EventID, err)
			}
		}
		totalRows += len(rows)
		telemetry.Metrics.EVRowsEmitted.Add(int64(len(rows)))

		for _, row := range rows {
			p.publishOpportunity(rec, row)
			if p.store != nil {
				if _, err := p.store.InsertOpportunity(runID, rec, row); err != nil {
					telemetry.Warnf("pipeline: store row: %v", err)
				}
			}
		}

		report.MatchedGames = append(report.MatchedGames, MatchedGame{
			EventID:        rec.EventID,
			GameID:         rec.GameID,
			Orientation:    string(rec.Orientation),
			MatchScore:     rec.Score,
			Sport:          string(rec.Sport),
			HomeTeam:       rec.HomeTeam,
			AwayTeam:       rec.AwayTeam,
			BetbckHomeTeam: g.HomeTeam,
			BetbckAwayTeam: g.AwayTeam,
			Opportunities:  rows,
		})
	}
	report.TotalMatches = len(report.MatchedGames)

	if p.bus != nil {
		p.bus.Publish(events.Event{
			ID:        runID,
			Type:      events.EventRunCompleted,
			Timestamp: time.Now().UTC(),
			Payload: events.RunCompleted{
				Matched:        report.TotalMatches,
				UnmatchedGames: len(res.UnmatchedGames),
				UnmatchedRefs:  len(res.UnmatchedEvents),
				Opportunities:  totalRows,
			},
		})
	}

	telemetry.Infof("pipeline: run %s done: %d matched, %d rows, %d unmatched games, %d unmatched events (%s)",
		runID, report.TotalMatches, totalRows, len(res.UnmatchedGames), len(res.UnmatchedEvents), time.Since(started))
	return report, nil
}

// scrapeAll launches one scrape per reference event with bounded fan-out.
// Failures log and count; they never stop the other scrapes. Cancellation
// stops new submissions and lets in-flight scrapes run to their timeouts.
func (p *Pipeline) scrapeAll(ctx context.Context, refEvents []*pinnacle_http.Event) []*betbck_http.Game {
	var (
		mu    sync.Mutex
		games []*betbck_http.Game
	)

	var eg errgroup.Group
	eg.SetLimit(p.opts.ConcurrentScrapes)

	for _, e := range refEvents {
		if ctx.Err() != nil {
			break
		}
		if normalize.IsPropMarket(e.HomeTeam, e.AwayTeam) {
			continue
		}
		e := e

		eg.Go(func() error {
			telemetry.Metrics.ScrapesAttempted.Inc()
			telemetry.Metrics.ActiveScrapes.Inc()
			defer telemetry.Metrics.ActiveScrapes.Dec()

			scrapeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.ScrapeTimeout)
			defer cancel()

			game, err := p.scraper.Scrape(scrapeCtx, betbck_http.ScrapeRequest{
				HomeTeam:   e.HomeTeam,
				AwayTeam:   e.AwayTeam,
				SearchTerm: p.norm.SearchTerm(e.HomeTeam, e.AwayTeam),
				EventID:    e.EventID,
			})
			if err != nil {
				telemetry.Metrics.ScrapesFailed.Inc()
				telemetry.Warnf("pipeline: scrape %q vs %q: %v", e.HomeTeam, e.AwayTeam, err)
				p.publishScrapeError(e, err)
				return nil
			}
			if game == nil {
				telemetry.Metrics.ScrapesEmpty.Inc()
				return nil
			}

			mu.Lock()
			games = append(games, game)
			mu.Unlock()
			return nil
		})
	}

	eg.Wait()
	return games
}

func (p *Pipeline) publishMatch(rec match.Record) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventMatchFound,
		Sport:     string(rec.Sport),
		EventID:   rec.EventID,
		GameID:    rec.GameID,
		Timestamp: time.Now().UTC(),
		Payload: events.MatchFound{
			EventID:     rec.EventID,
			GameID:      rec.GameID,
			HomeTeam:    rec.HomeTeam,
			AwayTeam:    rec.AwayTeam,
			Orientation: string(rec.Orientation),
			Score:       rec.Score,
			Sport:       string(rec.Sport),
		},
	})
}

func (p *Pipeline) publishOpportunity(rec match.Record, row market.Opportunity) {
	if p.bus == nil || row.EVRatio < p.opts.AlertEVThreshold {
		return
	}
	p.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOpportunity,
		Sport:     string(rec.Sport),
		EventID:   rec.EventID,
		GameID:    rec.GameID,
		Timestamp: time.Now().UTC(),
		Payload: events.OpportunityFound{
			EventID:   rec.EventID,
			GameID:    rec.GameID,
			Market:    row.Market,
			Selection: row.Selection,
			Line:      row.Line,
			EV:        row.EV,
			EVRatio:   row.EVRatio,
			Bet:       row.Bet,
			HomeTeam:  row.HomeTeam,
			AwayTeam:  row.AwayTeam,
		},
	})
}

func (p *Pipeline) publishScrapeError(e *pinnacle_http.Event, err error) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventScrapeError,
		EventID:   e.EventID,
		Timestamp: time.Now().UTC(),
		Payload: events.ScrapeError{
			EventID: e.EventID,
			Home:    e.HomeTeam,
			Away:    e.AwayTeam,
			Error:   err.Error(),
		},
	})
}

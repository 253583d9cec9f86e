// Package market pairs scraped secondary-book prices with enriched reference
// markets and computes the expected value of every pairable selection.
package market

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pkelly/plusev/internal/adapters/outbound/betbck_http"
	"github.com/pkelly/plusev/internal/adapters/outbound/pinnacle_http"
	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/core/odds"
	"github.com/pkelly/plusev/internal/telemetry"
)

// ErrPeriodMismatch is returned when the secondary game carries first-half
// prices but the reference event has neither period 0 nor period 1.
var ErrPeriodMismatch = errors.New("secondary first-half prices with no reference periods")

// Opportunity is one pairable selection with its expected value.
type Opportunity struct {
	Market                string  `json:"market"`
	Period                int     `json:"period"`
	Selection             string  `json:"selection"`
	Line                  float64 `json:"line,omitempty"`
	ReferenceFairAmerican int     `json:"reference_fair_american"`
	SecondaryAmerican     int     `json:"secondary_american"`
	EV                    string  `json:"ev"`
	EVRatio               float64 `json:"ev_ratio"`
	MaxLimit              float64 `json:"max_limit,omitempty"`
	HomeTeam              string  `json:"home_team"`
	AwayTeam              string  `json:"away_team"`
	Bet                   string  `json:"bet"`
}

// Analyze computes EV rows for one matched event/game pair. The event must
// already be enriched. Full-game and first-half prices are analyzed strictly
// within their own period; a selection is never paired across periods.
func Analyze(e *pinnacle_http.Event, g *betbck_http.Game, orientation match.Orientation) ([]Opportunity, error) {
	if g.FirstHalf != nil && e.Periods[0] == nil && e.Periods[1] == nil {
		telemetry.Metrics.PeriodMismatches.Inc()
		return nil, fmt.Errorf("event %s: %w", e.EventID, ErrPeriodMismatch)
	}

	var rows []Opportunity
	if ref := e.Periods[0]; ref != nil {
		rows = append(rows, analyzePeriod(e, ref, orient(g.FullGame, orientation), 0, "")...)
	}
	if g.FirstHalf != nil {
		if ref := e.Periods[1]; ref != nil {
			rows = append(rows, analyzePeriod(e, ref, orient(*g.FirstHalf, orientation), 1, "1H ")...)
		} else {
			telemetry.Metrics.PeriodMismatches.Inc()
			telemetry.Warnf("market: event %s has no first-half markets, 1H selections suppressed", e.EventID)
		}
	}
	return rows, nil
}

// orient rewrites the secondary prices into the reference event's
// home/away perspective. Totals pass through: their home/away rows price
// Over and Under, not teams.
func orient(mp betbck_http.MarketPrices, o match.Orientation) betbck_http.MarketPrices {
	if o != match.Flipped {
		return mp
	}
	mp.HomeMoneyline, mp.AwayMoneyline = mp.AwayMoneyline, mp.HomeMoneyline
	mp.HomeSpreads, mp.AwaySpreads = mp.AwaySpreads, mp.HomeSpreads
	return mp
}

func analyzePeriod(e *pinnacle_http.Event, ref *pinnacle_http.PeriodMarkets, sec betbck_http.MarketPrices, period int, prefix string) []Opportunity {
	var rows []Opportunity

	limits := ref.Meta
	if ml := ref.Moneyline; ml != nil {
		rows = appendRow(rows, e, prefix+"Moneyline", period, "Home", 0,
			sec.HomeMoneyline, ml.NvpHome, ml.NvpAmericanHome, limitOf(limits, "moneyline"))
		rows = appendRow(rows, e, prefix+"Moneyline", period, "Away", 0,
			sec.AwayMoneyline, ml.NvpAway, ml.NvpAmericanAway, limitOf(limits, "moneyline"))
		rows = appendRow(rows, e, prefix+"Moneyline", period, "Draw", 0,
			sec.DrawMoneyline, ml.NvpDraw, ml.NvpAmericanDraw, limitOf(limits, "moneyline"))
	}

	spreads := sortedSpreads(ref.Spreads)
	for _, opt := range sec.HomeSpreads {
		line, ok := odds.ParseLine(opt.Line, odds.SpreadLine)
		if !ok {
			continue
		}
		for _, sp := range spreads {
			if !odds.SameLine(sp.Hdp, line) {
				continue
			}
			rows = appendRow(rows, e, prefix+"Spread", period, "Home", sp.Hdp,
				opt.Odds, sp.NvpHome, sp.NvpAmericanHome, marketLimit(sp.MaxBet, limits, "spread"))
			break // first matching reference line wins
		}
	}
	for _, opt := range sec.AwaySpreads {
		line, ok := odds.ParseLine(opt.Line, odds.SpreadLine)
		if !ok {
			continue
		}
		for _, sp := range spreads {
			if !odds.SameLine(sp.Hdp, -line) {
				continue
			}
			rows = appendRow(rows, e, prefix+"Spread", period, "Away", -sp.Hdp,
				opt.Odds, sp.NvpAway, sp.NvpAmericanAway, marketLimit(sp.MaxBet, limits, "spread"))
			break
		}
	}

	rows = append(rows, totalRows(e, ref, sec, period, prefix)...)
	return rows
}

// totalRows pairs secondary totals against reference totals on the same
// line. The aggregate shape keeps the best over and best under row; the
// per-side shape prices the Over from home rows and the Under from away rows.
func totalRows(e *pinnacle_http.Event, ref *pinnacle_http.PeriodMarkets, sec betbck_http.MarketPrices, period int, prefix string) []Opportunity {
	totals := sortedTotals(ref.Totals)
	var rows []Opportunity

	if sec.TotalLine != "" {
		if line, ok := odds.ParseLine(sec.TotalLine, odds.TotalLine); ok {
			var bestOver, bestUnder *Opportunity
			for _, tot := range totals {
				if !odds.SameLine(tot.Points, line) {
					continue
				}
				if row := buildRow(e, prefix+"Total", period, "Over", tot.Points,
					sec.TotalOverOdds, tot.NvpOver, tot.NvpAmericanOver, marketLimit(tot.MaxBet, ref.Meta, "total")); row != nil {
					if bestOver == nil || row.EVRatio > bestOver.EVRatio {
						bestOver = row
					}
				}
				if row := buildRow(e, prefix+"Total", period, "Under", tot.Points,
					sec.TotalUnderOdds, tot.NvpUnder, tot.NvpAmericanUnder, marketLimit(tot.MaxBet, ref.Meta, "total")); row != nil {
					if bestUnder == nil || row.EVRatio > bestUnder.EVRatio {
						bestUnder = row
					}
				}
			}
			if bestOver != nil {
				rows = append(rows, *bestOver)
			}
			if bestUnder != nil {
				rows = append(rows, *bestUnder)
			}
		}
	}

	for _, opt := range sec.HomeTotals {
		line, ok := odds.ParseLine(opt.Line, odds.TotalLine)
		if !ok {
			continue
		}
		for _, tot := range totals {
			if !odds.SameLine(tot.Points, line) {
				continue
			}
			rows = appendRow(rows, e, prefix+"Total", period, "Over", tot.Points,
				opt.Odds, tot.NvpOver, tot.NvpAmericanOver, marketLimit(tot.MaxBet, ref.Meta, "total"))
			break
		}
	}
	for _, opt := range sec.AwayTotals {
		line, ok := odds.ParseLine(opt.Line, odds.TotalLine)
		if !ok {
			continue
		}
		for _, tot := range totals {
			if !odds.SameLine(tot.Points, line) {
				continue
			}
			rows = appendRow(rows, e, prefix+"Total", period, "Under", tot.Points,
				opt.Odds, tot.NvpUnder, tot.NvpAmericanUnder, marketLimit(tot.MaxBet, ref.Meta, "total"))
			break
		}
	}
	return rows
}

func appendRow(rows []Opportunity, e *pinnacle_http.Event, market string, period int, selection string, line float64, secOdds string, nvp float64, nvpAmerican int, maxLimit float64) []Opportunity {
	if row := buildRow(e, market, period, selection, line, secOdds, nvp, nvpAmerican, maxLimit); row != nil {
		rows = append(rows, *row)
	}
	return rows
}

// buildRow computes one EV row, or nil when either side is absent or
// unparseable. The reference price must be the enriched fair price; raw
// book prices never reach this point.
func buildRow(e *pinnacle_http.Event, market string, period int, selection string, line float64, secOdds string, nvp float64, nvpAmerican int, maxLimit float64) *Opportunity {
	if nvp == 0 || nvpAmerican == 0 {
		return nil
	}
	secAmerican, ok := odds.ParseAmerican(secOdds)
	if !ok {
		return nil
	}
	secDecimal, ok := odds.AmericanToDecimal(secAmerican)
	if !ok {
		return nil
	}
	ev, ok := odds.EV(secDecimal, nvp)
	if !ok {
		return nil
	}
	return &Opportunity{
		Market:                market,
		Period:                period,
		Selection:             selection,
		Line:                  line,
		ReferenceFairAmerican: nvpAmerican,
		SecondaryAmerican:     secAmerican,
		EV:                    fmt.Sprintf("%+.2f%%", ev*100),
		EVRatio:               ev,
		MaxLimit:              maxLimit,
		HomeTeam:              e.HomeTeam,
		AwayTeam:              e.AwayTeam,
		Bet:                   FormatBet(market, selection, line, e.HomeTeam, e.AwayTeam),
	}
}

// marketLimit prefers the matched market's own max bet; the period meta
// limits are the fallback when the market carries none.
func marketLimit(maxBet float64, l *pinnacle_http.Limits, kind string) float64 {
	if maxBet > 0 {
		return maxBet
	}
	return limitOf(l, kind)
}

func limitOf(l *pinnacle_http.Limits, kind string) float64 {
	if l == nil {
		return 0
	}
	switch kind {
	case "moneyline":
		return l.MaxMoneyline
	case "spread":
		return l.MaxSpread
	default:
		return l.MaxTotal
	}
}

func sortedSpreads(m map[string]*pinnacle_http.Spread) []*pinnacle_http.Spread {
	out := make([]*pinnacle_http.Spread, 0, len(m))
	for _, sp := range m {
		if sp != nil {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hdp < out[j].Hdp })
	return out
}

func sortedTotals(m map[string]*pinnacle_http.Total) []*pinnacle_http.Total {
	out := make([]*pinnacle_http.Total, 0, len(m))
	for _, tot := range m {
		if tot != nil {
			out = append(out, tot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points < out[j].Points })
	return out
}

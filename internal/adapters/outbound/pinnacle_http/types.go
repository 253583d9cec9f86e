package pinnacle_http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is one reference-book event. Periods are keyed by integer index:
// 0 is the full game, 1 the first-half equivalent. The feed emits period
// keys as either "0" or "num_0"; both forms are accepted at this boundary
// and never leak past it.
type Event struct {
	EventID  string
	HomeTeam string
	AwayTeam string
	Starts   time.Time
	League   string
	Periods  map[int]*PeriodMarkets
}

// PeriodMarkets carries one period's markets. Odds are decimal; zero means
// the book did not post that side. Nvp fields are filled by Enrich.
type PeriodMarkets struct {
	Moneyline *Moneyline         `json:"money_line,omitempty"`
	Spreads   map[string]*Spread `json:"spreads,omitempty"`
	Totals    map[string]*Total  `json:"totals,omitempty"`
	Meta      *Limits            `json:"meta,omitempty"`
}

type Moneyline struct {
	Home float64 `json:"home,omitempty"`
	Draw float64 `json:"draw,omitempty"`
	Away float64 `json:"away,omitempty"`

	NvpHome float64 `json:"nvp_home,omitempty"`
	NvpDraw float64 `json:"nvp_draw,omitempty"`
	NvpAway float64 `json:"nvp_away,omitempty"`

	NvpAmericanHome int `json:"nvp_american_home,omitempty"`
	NvpAmericanDraw int `json:"nvp_american_draw,omitempty"`
	NvpAmericanAway int `json:"nvp_american_away,omitempty"`
}

type Spread struct {
	Hdp    float64 `json:"hdp"`
	Home   float64 `json:"home,omitempty"`
	Away   float64 `json:"away,omitempty"`
	MaxBet float64 `json:"max,omitempty"`

	NvpHome float64 `json:"nvp_home,omitempty"`
	NvpAway float64 `json:"nvp_away,omitempty"`

	NvpAmericanHome int `json:"nvp_american_home,omitempty"`
	NvpAmericanAway int `json:"nvp_american_away,omitempty"`
}

type Total struct {
	Points float64 `json:"points"`
	Over   float64 `json:"over,omitempty"`
	Under  float64 `json:"under,omitempty"`
	MaxBet float64 `json:"max,omitempty"`

	NvpOver  float64 `json:"nvp_over,omitempty"`
	NvpUnder float64 `json:"nvp_under,omitempty"`

	NvpAmericanOver  int `json:"nvp_american_over,omitempty"`
	NvpAmericanUnder int `json:"nvp_american_under,omitempty"`
}

type Limits struct {
	MaxMoneyline float64 `json:"max_moneyline,omitempty"`
	MaxSpread    float64 `json:"max_spread,omitempty"`
	MaxTotal     float64 `json:"max_total,omitempty"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		EventID  json.Number               `json:"event_id"`
		HomeTeam string                    `json:"home_team"`
		AwayTeam string                    `json:"away_team"`
		Starts   string                    `json:"starts"`
		League   string                    `json:"league_name"`
		Periods  map[string]*PeriodMarkets `json:"periods"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	e.EventID = raw.EventID.String()
	e.HomeTeam = raw.HomeTeam
	e.AwayTeam = raw.AwayTeam
	e.League = raw.League
	e.Starts = parseStarts(raw.Starts)

	e.Periods = make(map[int]*PeriodMarkets, len(raw.Periods))
	for key, pm := range raw.Periods {
		idx, ok := periodIndex(key)
		if !ok || pm == nil {
			continue
		}
		e.Periods[idx] = pm
	}
	return nil
}

// periodIndex accepts "0", "1", "num_0", "num_1", ...
func periodIndex(key string) (int, bool) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "num_")
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseStarts(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

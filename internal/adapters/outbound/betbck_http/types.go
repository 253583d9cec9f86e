package betbck_http

import "time"

// Game is one scraped secondary-book game. Odds and lines stay raw strings
// as scraped ("+170", "-1,-1.5", "pk"); parsing happens in the analyzer so
// a malformed cell only voids its own selection.
type Game struct {
	GameID   string    `json:"betbck_game_id"`
	HomeTeam string    `json:"home_team_raw"`
	AwayTeam string    `json:"away_team_raw"`
	Start    time.Time `json:"event_datetime,omitempty"`
	League   string    `json:"league,omitempty"`

	FullGame  MarketPrices  `json:"full_game"`
	FirstHalf *MarketPrices `json:"first_half,omitempty"`

	// Diagnostic fields passed through from the scraper.
	DisplayedLocal   string `json:"betbck_displayed_local,omitempty"`
	DisplayedVisitor string `json:"betbck_displayed_visitor,omitempty"`
}

// MarketPrices is one period's worth of scraped prices. Empty strings mean
// the book did not post that side.
type MarketPrices struct {
	HomeMoneyline string `json:"home_moneyline_american,omitempty"`
	AwayMoneyline string `json:"away_moneyline_american,omitempty"`
	DrawMoneyline string `json:"draw_moneyline_american,omitempty"`

	HomeSpreads []SpreadOption `json:"home_spreads,omitempty"`
	AwaySpreads []SpreadOption `json:"away_spreads,omitempty"`

	// Totals arrive in one of two shapes: a single aggregate line with both
	// prices, or per-side grids where home rows price the Over and away rows
	// the Under.
	TotalLine      string        `json:"game_total_line,omitempty"`
	TotalOverOdds  string        `json:"game_total_over_odds,omitempty"`
	TotalUnderOdds string        `json:"game_total_under_odds,omitempty"`
	HomeTotals     []TotalOption `json:"home_totals,omitempty"`
	AwayTotals     []TotalOption `json:"away_totals,omitempty"`
}

type SpreadOption struct {
	Line string `json:"line"`
	Odds string `json:"odds"`
}

type TotalOption struct {
	Line string `json:"line"`
	Odds string `json:"odds"`
}

// ScrapeRequest identifies the game to search for on the secondary book.
type ScrapeRequest struct {
	HomeTeam   string `json:"home"`
	AwayTeam   string `json:"away"`
	SearchTerm string `json:"search_term,omitempty"`
	EventID    string `json:"event_id,omitempty"`
}

package events

// MatchFound is published when the matcher pairs a secondary game with a
// reference event.
type MatchFound struct {
	EventID     string `json:"event_id"`
	GameID      string `json:"game_id"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	Orientation string `json:"orientation"`
	Score       int    `json:"score"`
	Sport       string `json:"sport"`
}

// OpportunityFound is published per EV row above the alert threshold.
type OpportunityFound struct {
	EventID   string  `json:"event_id"`
	GameID    string  `json:"game_id"`
	Market    string  `json:"market"`
	Selection string  `json:"selection"`
	Line      float64 `json:"line,omitempty"`
	EV        string  `json:"ev"`
	EVRatio   float64 `json:"ev_ratio"`
	Bet       string  `json:"bet"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
}

// ScrapeError is published when one game's scrape fails; the run continues.
type ScrapeError struct {
	EventID string `json:"event_id"`
	Home    string `json:"home"`
	Away    string `json:"away"`
	Error   string `json:"error"`
}

// RunCompleted summarizes one full pipeline pass.
type RunCompleted struct {
	Matched        int `json:"matched"`
	UnmatchedGames int `json:"unmatched_games"`
	UnmatchedRefs  int `json:"unmatched_refs"`
	Opportunities  int `json:"opportunities"`
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkelly/plusev/internal/core/market"
	"github.com/pkelly/plusev/internal/core/match"
)

// MatchedGame is one match record with its EV rows, denormalized for display.
type MatchedGame struct {
	EventID        string               `json:"event_id"`
	GameID         string               `json:"game_id"`
	Orientation    string               `json:"orientation"`
	MatchScore     int                  `json:"match_score"`
	Sport          string               `json:"sport"`
	HomeTeam       string               `json:"home_team"`
	AwayTeam       string               `json:"away_team"`
	BetbckHomeTeam string               `json:"betbck_home_team"`
	BetbckAwayTeam string               `json:"betbck_away_team"`
	Opportunities  []market.Opportunity `json:"opportunities"`
}

// Report is one run's full output, written to the sink as JSON.
type Report struct {
	RunID           string                `json:"run_id"`
	MatchedGames    []MatchedGame         `json:"matched_games"`
	TotalMatches    int                   `json:"total_matches"`
	Timestamp       time.Time             `json:"timestamp"`
	UnmatchedGames  []match.UnmatchedGame `json:"unmatched_games,omitempty"`
	UnmatchedEvents []string              `json:"unmatched_events,omitempty"`
}

// WriteSink writes the report to path as indented JSON.
func (r *Report) WriteSink(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sink: %w", err)
	}
	return nil
}

package normalize

import "strings"

// propIndicators mark event rows whose "team names" are really prop or
// futures selections, not two sides of a game.
var propIndicators = []string{
	"to lift the trophy", "lift the trophy", "mvp", "futures", "outright",
	"coach of the year", "player of the year", "series correct score",
	"when will series finish", "most points in series", "most assists in series",
	"most rebounds in series", "most threes made in series", "margin of victory",
	"exact outcome", "winner", "to win the tournament", "to win group", "series price",
	"(corners)",
}

// IsPropMarket reports whether an event's raw participant names describe a
// prop or futures market rather than a team-vs-team game.
func IsPropMarket(homeTeam, awayTeam string) bool {
	if homeTeam == "" || awayTeam == "" {
		return false
	}
	for _, name := range []string{strings.ToLower(homeTeam), strings.ToLower(awayTeam)} {
		for _, indicator := range propIndicators {
			if strings.Contains(name, indicator) {
				return true
			}
		}
	}
	away := strings.ToLower(awayTeam)
	if strings.Contains(away, "field") && strings.Contains(away, "the") {
		return true
	}
	if strings.EqualFold(homeTeam, "yes") && strings.EqualFold(awayTeam, "no") {
		return true
	}
	return false
}

package market

import (
	"fmt"
	"strings"
)

// FormatBet renders the human-readable bet string for an opportunity:
// "ML - <team>", "<team> <signed line>", "Over <line>", "Under <line>".
// First-half markets keep their "1H " prefix on the rendered string.
func FormatBet(market, selection string, line float64, homeTeam, awayTeam string) string {
	prefix := ""
	base := market
	if rest, ok := strings.CutPrefix(market, "1H "); ok {
		prefix = "1H "
		base = rest
	}

	team := selection
	switch selection {
	case "Home":
		if homeTeam != "" {
			team = homeTeam
		}
	case "Away":
		if awayTeam != "" {
			team = awayTeam
		}
	}

	switch base {
	case "Moneyline":
		return prefix + "ML - " + team
	case "Spread":
		return fmt.Sprintf("%s%s %+g", prefix, team, line)
	case "Total":
		return fmt.Sprintf("%s%s %g", prefix, selection, line)
	default:
		return fmt.Sprintf("%s%s %s", prefix, base, selection)
	}
}

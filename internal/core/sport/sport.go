// Package sport tags events with a sport category from team-name keywords.
// The category partitions events before matching so a fuzzy score never
// pairs a baseball club with a soccer club that shares a nickname.
package sport

import (
	"fmt"
	"strings"
)

type Sport string

const (
	Baseball   Sport = "baseball"
	Basketball Sport = "basketball"
	Football   Sport = "football"
	Soccer     Sport = "soccer"
	Hockey     Sport = "hockey"
	Tennis     Sport = "tennis"
	Combat     Sport = "combat"
	Other      Sport = "other"
)

// Classifier maps a pair of normalized team names to a Sport by keyword
// lookup. Keyword sets are read-only after construction.
type Classifier struct {
	order    []Sport
	keywords map[Sport][]string
	combat   map[string]bool // first-name tokens of individual fighters
}

// NewClassifier validates that no keyword appears under two sports and
// returns a ready classifier. Combat first names are checked separately;
// they match whole tokens, not substrings.
func NewClassifier(keywords map[Sport][]string, combatNames []string) (*Classifier, error) {
	seen := make(map[string]Sport)
	for s, words := range keywords {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if prev, dup := seen[w]; dup && prev != s {
				return nil, fmt.Errorf("keyword %q listed under both %s and %s", w, prev, s)
			}
			seen[w] = s
		}
	}
	combat := make(map[string]bool, len(combatNames))
	for _, n := range combatNames {
		combat[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return &Classifier{
		order:    []Sport{Baseball, Soccer, Basketball, Football, Hockey, Tennis},
		keywords: keywords,
		combat:   combat,
	}, nil
}

// Classify returns the sport for a pair of team names. Combat sports are
// detected first from individual-athlete first names, then keyword sets are
// consulted in a fixed priority order. Unrecognized pairs are Other.
func (c *Classifier) Classify(homeTeam, awayTeam string) Sport {
	combined := strings.ToLower(homeTeam + " " + awayTeam)

	for _, token := range strings.Fields(combined) {
		if c.combat[token] {
			return Combat
		}
	}

	for _, s := range c.order {
		for _, kw := range c.keywords[s] {
			if strings.Contains(combined, kw) {
				return s
			}
		}
	}
	return Other
}

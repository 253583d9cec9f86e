// Package match pairs secondary-book games with reference events by
// normalized-name similarity. The matcher is pure: callers collect games
// first (scrapes run in parallel upstream) and matching runs sequentially,
// which is what enforces the one-match-per-event invariant.
package match

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkelly/plusev/internal/core/normalize"
	"github.com/pkelly/plusev/internal/core/sport"
)

type Orientation string

const (
	Direct  Orientation = "direct"
	Flipped Orientation = "flipped"
)

// Event is a reference-book event as seen by the matcher.
type Event struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Start    time.Time // zero when the feed omits it
	League   string
}

// Game is a secondary-book game as seen by the matcher.
type Game struct {
	ID       string
	HomeTeam string
	AwayTeam string
	Start    time.Time
	League   string
}

// Record pairs one reference event with one secondary game.
type Record struct {
	EventID     string
	GameID      string
	Orientation Orientation
	Score       int
	Sport       sport.Sport
	HomeTeam    string // reference event names, for display
	AwayTeam    string
}

// UnmatchedGame carries the best runner-up for a game that found no event.
type UnmatchedGame struct {
	GameID      string `json:"game_id"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	Reason      string `json:"reason"`
	BestEventID string `json:"best_event_id,omitempty"`
	BestScore   int    `json:"best_score,omitempty"`
}

// Result is one full matching pass over a run's events and games.
type Result struct {
	Records         []Record
	UnmatchedGames  []UnmatchedGame
	UnmatchedEvents []string
	MinorLeague     int // reference events dropped by the denylist
}

// Config holds the matcher thresholds. Scores are on the 0-100 scale.
type Config struct {
	Threshold          int           // minimum combined score to accept
	ComponentThreshold int           // minimum per-name score in tie-breaks
	Margin             int           // score gap under which tie-breaks apply
	EarlyBreak         int           // stop scanning candidates at this score
	TimeWindow         time.Duration // max start-time difference
	Denylist           []string      // minor-league tokens, matched as substrings
}

func DefaultConfig() Config {
	return Config{
		Threshold:          65,
		ComponentThreshold: 60,
		Margin:             10,
		EarlyBreak:         95,
		TimeWindow:         24 * time.Hour,
		Denylist:           DefaultDenylist(),
	}
}

// DefaultDenylist lists minor-league team tokens. Entries are full enough
// not to collide with major-league names that share a nickname.
func DefaultDenylist() []string {
	return []string{
		"durham bulls", "salt lake bees", "st. paul saints", "columbus clippers",
		"tacoma rainiers", "norfolk tides", "jumbo shrimp", "mud hens", "reno aces",
		"oklahoma city comets", "rochester red wings", "syracuse mets",
		"indianapolis indians", "storm chasers", "railriders",
	}
}

type Matcher struct {
	cfg        Config
	norm       *normalize.Normalizer
	classifier *sport.Classifier
}

func New(cfg Config, norm *normalize.Normalizer, classifier *sport.Classifier) *Matcher {
	return &Matcher{cfg: cfg, norm: norm, classifier: classifier}
}

type refEvent struct {
	Event
	normHome string
	normAway string
	sport    sport.Sport
}

type candidate struct {
	ev          *refEvent
	orientation Orientation
	score       int
	homeComp    int
	awayComp    int
}

func (c candidate) bothComponents(min int) bool {
	return c.ev != nil && c.homeComp >= min && c.awayComp >= min
}

// Match pairs games with events. Each event and each game lands in at most
// one record; leftovers are reported on both sides for diagnostics.
func (m *Matcher) Match(events []Event, games []Game) Result {
	var res Result

	partitions := make(map[sport.Sport][]*refEvent)
	all := make([]*refEvent, 0, len(events))
	for i := range events {
		e := events[i]
		if m.denied(e.HomeTeam) || m.denied(e.AwayTeam) {
			res.MinorLeague++
			continue
		}
		re := &refEvent{
			Event:    e,
			normHome: m.norm.Normalize(e.HomeTeam),
			normAway: m.norm.Normalize(e.AwayTeam),
		}
		re.sport = m.classifier.Classify(re.normHome, re.normAway)
		partitions[re.sport] = append(partitions[re.sport], re)
		all = append(all, re)
	}

	consumed := make(map[string]bool, len(events))
	for _, g := range games {
		gameID := g.ID
		if gameID == "" {
			gameID = uuid.NewString()
		}
		gHome := m.norm.Normalize(g.HomeTeam)
		gAway := m.norm.Normalize(g.AwayTeam)
		if gHome == "" || gAway == "" {
			res.UnmatchedGames = append(res.UnmatchedGames, UnmatchedGame{
				GameID: gameID, HomeTeam: g.HomeTeam, AwayTeam: g.AwayTeam,
				Reason: "normalization_failed",
			})
			continue
		}
		gSport := m.classifier.Classify(gHome, gAway)
		gCombined := gHome + " " + gAway

		var best, second candidate
		for _, e := range partitions[gSport] {
			if consumed[e.ID] {
				continue
			}
			if normalize.IsPropMarket(e.HomeTeam, e.AwayTeam) {
				continue
			}
			if !g.Start.IsZero() && !e.Start.IsZero() {
				if absDuration(g.Start.Sub(e.Start)) > m.cfg.TimeWindow {
					continue
				}
			}
			if g.League != "" && e.League != "" && !leaguesCompatible(g.League, e.League) {
				continue
			}

			c := m.score(gHome, gAway, gCombined, gSport, e)
			if c.score > best.score {
				second = best
				best = c
			} else if c.score > second.score {
				second = c
			}
			if best.score >= m.cfg.EarlyBreak {
				break
			}
		}

		if best.ev == nil || best.score < m.cfg.Threshold {
			ug := UnmatchedGame{
				GameID: gameID, HomeTeam: g.HomeTeam, AwayTeam: g.AwayTeam,
				Reason: "below_threshold", BestScore: best.score,
			}
			if best.ev != nil {
				ug.BestEventID = best.ev.ID
			}
			res.UnmatchedGames = append(res.UnmatchedGames, ug)
			continue
		}

		chosen := best
		if second.ev != nil && best.score-second.score < m.cfg.Margin {
			// Near-tie: prefer the candidate where both names match well.
			if !best.bothComponents(m.cfg.ComponentThreshold) &&
				second.bothComponents(m.cfg.ComponentThreshold) &&
				second.score >= m.cfg.Threshold {
				chosen = second
			}
		}

		res.Records = append(res.Records, Record{
			EventID:     chosen.ev.ID,
			GameID:      gameID,
			Orientation: chosen.orientation,
			Score:       chosen.score,
			Sport:       gSport,
			HomeTeam:    chosen.ev.HomeTeam,
			AwayTeam:    chosen.ev.AwayTeam,
		})
		consumed[chosen.ev.ID] = true
	}

	for _, e := range all {
		if !consumed[e.ID] {
			res.UnmatchedEvents = append(res.UnmatchedEvents, e.ID)
		}
	}
	return res
}

// score rates one candidate event in both orientations and keeps the better.
func (m *Matcher) score(gHome, gAway, gCombined string, s sport.Sport, e *refEvent) candidate {
	if s == sport.Tennis {
		if o, ok := lastNameMatch(gHome, gAway, e.normHome, e.normAway); ok {
			return candidate{ev: e, orientation: o, score: 100, homeComp: 100, awayComp: 100}
		}
	}

	direct := TokenSetRatio(gCombined, e.normHome+" "+e.normAway)
	flipped := TokenSetRatio(gCombined, e.normAway+" "+e.normHome)

	dh, da := TokenSetRatio(gHome, e.normHome), TokenSetRatio(gAway, e.normAway)
	fh, fa := TokenSetRatio(gHome, e.normAway), TokenSetRatio(gAway, e.normHome)

	// Token sets ignore word order, so the combined scores rarely separate
	// the orientations. Within the confidence margin, the per-name scores
	// decide which side is which.
	var orient Orientation
	switch {
	case flipped-direct >= m.cfg.Margin:
		orient = Flipped
	case direct-flipped >= m.cfg.Margin:
		orient = Direct
	case fh+fa > dh+da:
		orient = Flipped
	default:
		orient = Direct
	}

	if orient == Flipped {
		return candidate{ev: e, orientation: Flipped, score: flipped, homeComp: fh, awayComp: fa}
	}
	return candidate{ev: e, orientation: Direct, score: direct, homeComp: dh, awayComp: da}
}

// lastNameMatch compares tennis players by final name token in both
// orientations.
func lastNameMatch(gHome, gAway, eHome, eAway string) (Orientation, bool) {
	lh, la := lastToken(gHome), lastToken(gAway)
	if lh == "" || la == "" {
		return "", false
	}
	if lh == lastToken(eHome) && la == lastToken(eAway) {
		return Direct, true
	}
	if lh == lastToken(eAway) && la == lastToken(eHome) {
		return Flipped, true
	}
	return "", false
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func (m *Matcher) denied(team string) bool {
	t := strings.ToLower(team)
	for _, token := range m.cfg.Denylist {
		if strings.Contains(t, token) {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

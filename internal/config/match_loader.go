package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/core/normalize"
	"github.com/pkelly/plusev/internal/core/sport"
)

// Matching is the on-disk form of the matching configuration. Every field
// has a built-in default; a missing file is not an error.
type Matching struct {
	FuzzyMatchThreshold         int `yaml:"fuzzy_match_threshold"`
	MinComponentMatchScore      int `yaml:"min_component_match_score"`
	OrientationConfidenceMargin int `yaml:"orientation_confidence_margin"`
	TimeWindowSeconds           int `yaml:"time_window_seconds"`

	AliasTable          map[string][]string `yaml:"alias_table"`
	MinorLeagueDenylist []string            `yaml:"minor_league_denylist"`

	SportKeywords map[string][]string `yaml:"sport_keywords"`
	CombatNames   []string            `yaml:"combat_first_names"`
}

// LoadMatching reads the matching config file. An empty path or a missing
// file yields the built-in defaults.
func LoadMatching(path string) (Matching, error) {
	m := Matching{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return Matching{}, fmt.Errorf("read matching config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &m); err != nil {
				return Matching{}, fmt.Errorf("parse matching config: %w", err)
			}
		}
	}
	m.applyDefaults()
	return m, nil
}

func (m *Matching) applyDefaults() {
	if m.FuzzyMatchThreshold == 0 {
		m.FuzzyMatchThreshold = 65
	}
	if m.MinComponentMatchScore == 0 {
		m.MinComponentMatchScore = 60
	}
	if m.OrientationConfidenceMargin == 0 {
		m.OrientationConfidenceMargin = 10
	}
	if m.TimeWindowSeconds == 0 {
		m.TimeWindowSeconds = 86400
	}
	if m.AliasTable == nil {
		m.AliasTable = normalize.DefaultAliasTable()
	}
	if m.MinorLeagueDenylist == nil {
		m.MinorLeagueDenylist = match.DefaultDenylist()
	}
}

// MatcherConfig converts the loaded values to the matcher's config type.
func (m Matching) MatcherConfig() match.Config {
	cfg := match.DefaultConfig()
	cfg.Threshold = m.FuzzyMatchThreshold
	cfg.ComponentThreshold = m.MinComponentMatchScore
	cfg.Margin = m.OrientationConfidenceMargin
	cfg.TimeWindow = time.Duration(m.TimeWindowSeconds) * time.Second
	cfg.Denylist = m.MinorLeagueDenylist
	return cfg
}

// Normalizer builds the name normalizer from the configured alias table.
func (m Matching) Normalizer() *normalize.Normalizer {
	return normalize.New(m.AliasTable)
}

// Classifier builds the sport classifier, validating keyword disjointness.
// With no override configured the built-in tables are used.
func (m Matching) Classifier() (*sport.Classifier, error) {
	keywords := sport.DefaultKeywords()
	if len(m.SportKeywords) > 0 {
		keywords = make(map[sport.Sport][]string, len(m.SportKeywords))
		for name, words := range m.SportKeywords {
			keywords[sport.Sport(name)] = words
		}
	}
	combat := m.CombatNames
	if combat == nil {
		combat = sport.DefaultCombatNames()
	}
	return sport.NewClassifier(keywords, combat)
}

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes raw team and player names into stable lowercase
// keys. The alias table is injected at construction so tests can override it;
// a Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	canon map[string]string // alias or canonical -> canonical
}

// New builds a Normalizer from a canonical-name -> aliases table.
// Table keys and values are expected in already-normalized lowercase form.
func New(aliasTable map[string][]string) *Normalizer {
	canon := make(map[string]string, len(aliasTable)*3)
	for canonical, aliases := range aliasTable {
		c := strings.ToLower(strings.TrimSpace(canonical))
		canon[tableKey(c)] = c
		for _, a := range aliases {
			canon[tableKey(a)] = c
		}
	}
	return &Normalizer{canon: canon}
}

// tableKey runs an alias-table entry through the same charset filter as
// Normalize so entries with apostrophes or accents still match.
func tableKey(s string) string {
	s = stripDiacritics(strings.ToLower(strings.TrimSpace(s)))
	s = charsetRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

var (
	leadingDigitsRe = regexp.MustCompile(`^\d+\s*`)

	// Pitcher annotations trail MLB team names, often glued straight onto the
	// last word: "Houston AstrosJ Alexander - R must start".
	pitcherRes = []*regexp.Regexp{
		regexp.MustCompile(`^([A-Za-z\s]+?)[A-Z][a-z]*\s+[A-Z][a-z]*\s*-\s*[LR]\s+must\s+start$`),
		regexp.MustCompile(`^([A-Za-z\s]+?)[A-Z][a-z]*\s*-\s*[LR]\s+must\s+start$`),
		regexp.MustCompile(`^([A-Za-z\s]+?)[A-Z]\s*-\s*[LR]\s+must\s+start$`),
	}

	trophyRe     = regexp.MustCompile(`(?i)^(.+?)\s*(?:to lift the trophy|lift the trophy|to win.*|wins.*|\(match\)|series price|to win series|\(corners\))`)
	marketTailRe = regexp.MustCompile(`\s*\((?:games|sets|match|hits\+runs\+errors|h\+r\+e|hre|corners)\)$`)
	parenRe      = regexp.MustCompile(`\s*\([^)]*\)`)
	edgeJunkRe   = regexp.MustCompile(`^[^a-z0-9]+|[^a-z0-9]+$`)
	charsetRe    = regexp.MustCompile(`[^a-z0-9 .\-+]`)
)

// leagueCountrySuffixes are trailing league/country markers the secondary
// book appends to team names.
var leagueCountrySuffixes = []string{
	"mlb", "nba", "nfl", "nhl", "ncaaf", "ncaab", "wnba",
	"poland", "bulgaria", "uruguay", "colombia", "peru", "argentina",
	"sweden", "romania", "finland", "england", "japan", "austria",
	"liga 1", "serie a", "bundesliga", "la liga", "ligue 1", "premier league",
	"epl", "mls", "tipico bundesliga",
}

var clubPrefixes = []string{
	"if", "fc", "sc", "bk", "sk", "ac", "as", "fk", "cd", "ca", "afc", "cfr", "kc", "scr",
}

// Normalize canonicalizes a raw name. The transforms run in a fixed order:
// bet-slip numbering, pitcher annotations, prop/future phrases, parentheses,
// league and country suffixes, club prefixes, fixed rewrites, charset filter,
// alias table. The result is idempotent: Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(name string) string {
	original := name
	if strings.TrimSpace(name) == "" {
		return ""
	}

	name = leadingDigitsRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	for _, re := range pitcherRes {
		if m := re.FindStringSubmatch(name); m != nil {
			name = strings.TrimSpace(m[1])
			break
		}
	}

	if m := trophyRe.FindStringSubmatch(name); m != nil {
		name = strings.TrimSpace(m[1])
	}

	name = stripDiacritics(strings.ToLower(name))
	name = marketTailRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(parenRe.ReplaceAllString(name, ""))

	for _, suffix := range leagueCountrySuffixes {
		trimmed, ok := trimSuffixToken(name, suffix)
		if ok {
			name = trimmed
		}
	}

	for i := 0; i < 2; i++ {
		for _, prefix := range clubPrefixes {
			if rest, ok := strings.CutPrefix(name, prefix+" "); ok {
				name = strings.TrimSpace(rest)
			}
		}
	}

	name = applyRewrites(name)

	name = edgeJunkRe.ReplaceAllString(name, "")
	name = charsetRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")

	if name == "" {
		return strings.ToLower(strings.TrimSpace(original))
	}

	if canonical, ok := n.canon[name]; ok {
		return canonical
	}
	return name
}

// trimSuffixToken removes suffix from the end of name when it stands alone:
// either the whole name or preceded by a space.
func trimSuffixToken(name, suffix string) (string, bool) {
	if name == suffix {
		return "", true
	}
	if rest, ok := strings.CutSuffix(name, " "+suffix); ok {
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest, true
		}
	}
	return name, false
}

// applyRewrites collapses well-known multi-form names to one spelling.
func applyRewrites(name string) string {
	switch {
	case strings.Contains(name, "tottenham hotspur"):
		return "tottenham"
	case strings.Contains(name, "paris saint germain"), strings.Contains(name, "paris sg"):
		return "psg"
	case strings.Contains(name, "inter milan"), name == "internazionale":
		return "inter"
	case strings.Contains(name, "rheindorf altach"), strings.Contains(name, "scr altach"):
		return "altach"
	}
	name = strings.ReplaceAll(name, "new york", "ny")
	name = strings.ReplaceAll(name, "los angeles", "la")
	name = strings.ReplaceAll(name, "st louis", "st. louis")
	return name
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing (combining accents)
			b.WriteRune(r)
		}
	}
	return b.String()
}

package normalize

import "strings"

// knownSearchTerms overrides the derived search term for names where the
// secondary book's search box wants a specific spelling.
var knownSearchTerms = map[string]string{
	"south korea":           "Korea",
	"faroe islands":         "Faroe",
	"milwaukee brewers":     "Brewers",
	"philadelphia phillies": "Phillies",
	"la angels":             "Angels",
	"pittsburgh pirates":    "Pirates",
	"arizona diamondbacks":  "Diamondbacks",
	"san diego padres":      "Padres",
	"italy":                 "Italy",
	"st. louis cardinals":   "Cardinals",
	"china pr":              "China",
	"bahrain":               "Bahrain",
	"czechia":               "Czech Republic",
	"czech republic":        "Czech Republic",
	"athletic club":         "Athletic Club",
	"romania":               "Romania",
	"cyprus":                "Cyprus",
}

// searchStopWords never stand alone as a search term.
var searchStopWords = map[string]bool{
	"fc": true, "sc": true, "united": true, "city": true, "club": true,
	"de": true, "do": true, "ac": true, "if": true, "bk": true, "aif": true,
	"kc": true, "sr": true, "mg": true, "us": true, "br": true,
}

// SearchTerm derives the query to type into the secondary book's search box
// for a reference event. Known names map directly; otherwise it prefers a
// distinctive last word of the home team, then a distinctive first word,
// then the whole cleaned home name.
func (n *Normalizer) SearchTerm(homeTeamRaw, awayTeamRaw string) string {
	home := n.Normalize(homeTeamRaw)
	away := n.Normalize(awayTeamRaw)

	if term, ok := knownSearchTerms[home]; ok {
		return term
	}
	if term, ok := knownSearchTerms[away]; ok {
		return term
	}

	parts := strings.Fields(home)
	if len(parts) == 0 {
		return home
	}
	last := parts[len(parts)-1]
	if len(parts) > 1 && len(last) > 3 && !searchStopWords[last] {
		return last
	}
	if len(parts[0]) > 2 && !searchStopWords[parts[0]] {
		return parts[0]
	}
	return home
}

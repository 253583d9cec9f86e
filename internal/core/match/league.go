package match

import "strings"

// leagueCategories resolves a league string to a coarse category. Checked in
// order so specific acronyms win over generic words like "league".
var leagueCategories = []struct {
	category string
	tokens   []string
}{
	{"baseball", []string{"mlb", "npb", "kbo", "baseball"}},
	{"hockey", []string{"nhl", "shl", "khl", "hockey"}},
	{"basketball", []string{"nba", "wnba", "ncaab", "euroleague", "basketball"}},
	{"football", []string{"nfl", "ncaaf", "cfl", "xfl"}},
	{"tennis", []string{"atp", "wta", "itf", "tennis"}},
	{"combat", []string{"ufc", "mma", "boxing", "bellator"}},
	{"soccer", []string{
		"premier league", "la liga", "serie a", "bundesliga", "ligue 1", "mls",
		"uefa", "fifa", "conmebol", "concacaf", "eredivisie", "primeira",
		"champions league", "europa", "soccer",
	}},
}

func leagueCategory(league string) string {
	l := strings.ToLower(league)
	for _, lc := range leagueCategories {
		for _, tok := range lc.tokens {
			if strings.Contains(l, tok) {
				return lc.category
			}
		}
	}
	return ""
}

// leaguesCompatible reports whether two league strings could describe the
// same competition. Unrecognized leagues are treated as compatible.
func leaguesCompatible(a, b string) bool {
	ca := leagueCategory(a)
	cb := leagueCategory(b)
	if ca == "" || cb == "" {
		return true
	}
	return ca == cb
}

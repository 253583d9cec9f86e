package match

import (
	"math"
	"sort"
	"strings"

	edlib "github.com/hbollon/go-edlib"
)

// TokenSetRatio scores two names on a 0-100 scale, insensitive to word order
// and to tokens the longer name carries beyond the shorter one. Both inputs
// are tokenized into sorted unique word sets; the score is the best pairwise
// similarity between the intersection and each set's remainder-augmented
// form. A name whose tokens are a subset of the other's scores 100.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := make([]string, 0, len(ta))
	diffA := make([]string, 0, len(ta))
	for _, t := range ta {
		if contains(tb, t) {
			inter = append(inter, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	diffB := make([]string, 0, len(tb))
	for _, t := range tb {
		if !contains(ta, t) {
			diffB = append(diffB, t)
		}
	}

	base := strings.Join(inter, " ")
	combA := joinParts(base, diffA)
	combB := joinParts(base, diffB)

	best := similarity(base, combA)
	if s := similarity(base, combB); s > best {
		best = s
	}
	if s := similarity(combA, combB); s > best {
		best = s
	}
	return best
}

func tokenSet(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func contains(sorted []string, s string) bool {
	i := sort.SearchStrings(sorted, s)
	return i < len(sorted) && sorted[i] == s
}

func joinParts(base string, rest []string) string {
	if len(rest) == 0 {
		return base
	}
	if base == "" {
		return strings.Join(rest, " ")
	}
	return base + " " + strings.Join(rest, " ")
}

func similarity(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(math.Round(float64(score) * 100))
}

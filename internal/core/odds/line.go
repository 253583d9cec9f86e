package odds

import (
	"regexp"
	"strconv"
	"strings"
)

// MarketKind selects the parsing rules for a market line. It is always
// passed explicitly; line parsing has no ambient state.
type MarketKind int

const (
	SpreadLine MarketKind = iota
	TotalLine
)

func (k MarketKind) String() string {
	if k == TotalLine {
		return "Total"
	}
	return "Spread"
}

var splitLineRe = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)[,/]([+-]?\d+(?:\.\d+)?)$`)

// ParseLine parses a market line into a signed quarter-step value.
// Accepts plain numbers ("-1.5"), the half symbol ("7½"), and Asian split
// lines ("+1,+1.5" or "2.5/3") which average to a quarter step. "pk" and
// "pick" are a zero spread.
func ParseLine(s string, kind MarketKind) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, "½", ".5")
	s = strings.ReplaceAll(s, " ", "")

	if kind == SpreadLine && (s == "pk" || s == "pick" || s == "pk'em" || s == "pick'em") {
		return 0, true
	}

	if m := splitLineRe.FindStringSubmatch(s); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA != nil || errB != nil {
			return 0, false
		}
		// A split line's second half inherits the sign of the first when the
		// book writes "-1,1.5" for "-1,-1.5".
		if kind == SpreadLine && a < 0 && b > 0 && !strings.HasPrefix(m[2], "+") {
			b = -b
		}
		return (a + b) / 2.0, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if kind == TotalLine && v < 0 {
		return 0, false
	}
	return v, true
}

// SameLine reports whether two lines are equal within pairing tolerance.
func SameLine(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 0.01
}

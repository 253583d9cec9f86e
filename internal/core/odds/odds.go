package odds

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Decimal odds at or below this are treated as absent: they carry no payout.
const minDecimal = 1.0001

var americanRe = regexp.MustCompile(`^[+-]?\d+$`)

// ParseAmerican parses an American odds string ("+170", "-110").
// Returns false for anything that is not a signed integer, or for zero.
func ParseAmerican(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !americanRe.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// AmericanToDecimal converts American odds to decimal odds.
// Zero is not a valid American price and yields false.
func AmericanToDecimal(american int) (float64, bool) {
	switch {
	case american > 0:
		return float64(american)/100.0 + 1.0, true
	case american < 0:
		return 100.0/math.Abs(float64(american)) + 1.0, true
	default:
		return 0, false
	}
}

// DecimalToAmerican converts decimal odds to American odds.
// Decimals at or below 1.0001 have no American representation.
func DecimalToAmerican(decimal float64) (int, bool) {
	if decimal <= minDecimal || math.IsInf(decimal, 0) || math.IsNaN(decimal) {
		return 0, false
	}
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), true
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), true
}

// EV returns the expected value of betting betDecimal when the fair price is
// fairDecimal: bet/fair − 1. Non-positive inputs yield false.
func EV(betDecimal, fairDecimal float64) (float64, bool) {
	if betDecimal <= 0 || fairDecimal <= 0 {
		return 0, false
	}
	return betDecimal/fairDecimal - 1.0, true
}

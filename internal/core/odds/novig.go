package odds

import "math"

const (
	novigTolerance  = 1e-4
	novigIterations = 100
)

// NoVig removes the bookmaker margin from a market's decimal odds using the
// power method: find k such that the implied probabilities raised to k sum
// to one. Zero entries mark absent prices and stay absent in the output.
//
// Markets with fewer than two priced sides, or whose implied probabilities
// already sum to at most one, are returned unchanged: there is no vig to
// remove.
func NoVig(decimals []float64) []float64 {
	valid := make([]int, 0, len(decimals))
	for i, d := range decimals {
		if d > minDecimal {
			valid = append(valid, i)
		}
	}

	out := make([]float64, len(decimals))
	if len(valid) < 2 {
		return out
	}

	probs := make([]float64, len(valid))
	sum := 0.0
	for i, idx := range valid {
		probs[i] = 1.0 / decimals[idx]
		sum += probs[i]
	}
	if sum <= minDecimal {
		// The book left no margin; the posted prices are already fair.
		for _, idx := range valid {
			out[idx] = decimals[idx]
		}
		return out
	}

	fair := powerAdjust(probs)
	for i, idx := range valid {
		if fair[i] > 1e-9 {
			out[idx] = round3(1.0 / fair[i])
		}
	}
	return out
}

// powerAdjust finds k>0 with Σ p_i^k = 1 by Newton iteration and returns the
// normalized powered probabilities. Degenerate inputs (p ≤ 0 or p ≥ 1 making
// the logarithm blow up, or a vanishing derivative) fall back to proportional
// normalization.
func powerAdjust(probs []float64) []float64 {
	k := 1.0
	for iter := 0; iter < novigIterations; iter++ {
		sumPow := 0.0
		deriv := 0.0
		for _, p := range probs {
			if p <= 0 || p >= 1 {
				return proportional(probs)
			}
			pk := math.Pow(p, k)
			sumPow += pk
			deriv += pk * math.Log(p)
		}
		if sumPow == 0 {
			break
		}
		overround := sumPow - 1.0
		if math.Abs(overround) < novigTolerance {
			break
		}
		if math.Abs(deriv) < 1e-9 {
			break
		}
		k -= overround / deriv
	}

	powered := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		powered[i] = math.Pow(p, k)
		total += powered[i]
	}
	if total == 0 {
		return proportional(probs)
	}
	for i := range powered {
		powered[i] /= total
	}
	return powered
}

func proportional(probs []float64) []float64 {
	total := 0.0
	for _, p := range probs {
		total += p
	}
	out := make([]float64, len(probs))
	if total == 0 {
		eq := 1.0 / float64(len(probs))
		for i := range out {
			out[i] = eq
		}
		return out
	}
	for i, p := range probs {
		out[i] = p / total
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

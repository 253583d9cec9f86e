package pinnacle_http

import "github.com/pkelly/plusev/internal/core/odds"

// Enrich fills the fair-price (nvp) fields of every market in every period.
// The margin is removed independently per market: moneyline across its two
// or three sides, each spread across home/away, each total across over/under.
// Enrich is the only place fair prices are computed; downstream code reads
// the nvp fields and never re-derives them.
func Enrich(e *Event) {
	for _, pm := range e.Periods {
		if pm == nil {
			continue
		}
		if ml := pm.Moneyline; ml != nil {
			fair := odds.NoVig([]float64{ml.Home, ml.Draw, ml.Away})
			ml.NvpHome, ml.NvpAmericanHome = fairPair(fair[0])
			ml.NvpDraw, ml.NvpAmericanDraw = fairPair(fair[1])
			ml.NvpAway, ml.NvpAmericanAway = fairPair(fair[2])
		}
		for _, sp := range pm.Spreads {
			if sp == nil {
				continue
			}
			fair := odds.NoVig([]float64{sp.Home, sp.Away})
			sp.NvpHome, sp.NvpAmericanHome = fairPair(fair[0])
			sp.NvpAway, sp.NvpAmericanAway = fairPair(fair[1])
		}
		for _, tot := range pm.Totals {
			if tot == nil {
				continue
			}
			fair := odds.NoVig([]float64{tot.Over, tot.Under})
			tot.NvpOver, tot.NvpAmericanOver = fairPair(fair[0])
			tot.NvpUnder, tot.NvpAmericanUnder = fairPair(fair[1])
		}
	}
}

func fairPair(decimal float64) (float64, int) {
	if decimal == 0 {
		return 0, 0
	}
	american, ok := odds.DecimalToAmerican(decimal)
	if !ok {
		return decimal, 0
	}
	return decimal, american
}

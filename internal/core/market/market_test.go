package market

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pkelly/plusev/internal/adapters/outbound/betbck_http"
	"github.com/pkelly/plusev/internal/adapters/outbound/pinnacle_http"
	"github.com/pkelly/plusev/internal/core/match"
)

func refEvent(periods map[int]*pinnacle_http.PeriodMarkets) *pinnacle_http.Event {
	e := &pinnacle_http.Event{
		EventID:  "1611309203",
		HomeTeam: "Boston Red Sox",
		AwayTeam: "New York Yankees",
		Periods:  periods,
	}
	pinnacle_http.Enrich(e)
	return e
}

func findRow(t *testing.T, rows []Opportunity, market, selection string) Opportunity {
	t.Helper()
	for _, r := range rows {
		if r.Market == market && r.Selection == selection {
			return r
		}
	}
	t.Fatalf("no %s/%s row in %+v", market, selection, rows)
	return Opportunity{}
}

func TestAnalyzeMoneyline(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			HomeMoneyline: "+100",
			AwayMoneyline: "-110",
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	home := findRow(t, rows, "Moneyline", "Home")
	if math.Abs(home.EVRatio-0.0225) > 0.003 {
		t.Errorf("home EV = %f, want ≈ +2.25%%", home.EVRatio)
	}
	if home.SecondaryAmerican != 100 {
		t.Errorf("home secondary american = %d", home.SecondaryAmerican)
	}
	if home.ReferenceFairAmerican >= 0 {
		t.Errorf("home fair american should be negative (favorite), got %d", home.ReferenceFairAmerican)
	}
	if home.Bet != "ML - Boston Red Sox" {
		t.Errorf("home bet = %q", home.Bet)
	}

	away := findRow(t, rows, "Moneyline", "Away")
	if math.Abs(away.EVRatio-(-0.0669)) > 0.003 {
		t.Errorf("away EV = %f, want ≈ -6.69%%", away.EVRatio)
	}
	if !strings.HasPrefix(away.EV, "-6.") {
		t.Errorf("away EV string = %q", away.EV)
	}
}

func TestAnalyzeSpread(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Spreads: map[string]*pinnacle_http.Spread{
			"-1.5": {Hdp: -1.5, Home: 2.70, Away: 1.48},
		}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			HomeSpreads: []betbck_http.SpreadOption{{Line: "-1.5", Odds: "+170"}},
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Market != "Spread" || r.Selection != "Home" || r.Line != -1.5 {
		t.Errorf("unexpected row %+v", r)
	}
	if math.Abs(r.EVRatio-(-0.0715)) > 0.005 {
		t.Errorf("spread EV = %f, want ≈ -7.15%%", r.EVRatio)
	}
	if r.Bet != "Boston Red Sox -1.5" {
		t.Errorf("bet = %q", r.Bet)
	}
}

func TestAnalyzeSpreadLineSymmetry(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Spreads: map[string]*pinnacle_http.Spread{
			"-1.5": {Hdp: -1.5, Home: 2.70, Away: 1.48},
		}},
	})

	// Away side pairs only against the negated home handicap.
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			AwaySpreads: []betbck_http.SpreadOption{{Line: "+1.5", Odds: "-120"}},
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 1 || rows[0].Selection != "Away" || rows[0].Line != 1.5 {
		t.Fatalf("away +1.5 should pair against hdp -1.5, got %+v", rows)
	}
	if rows[0].Bet != "New York Yankees +1.5" {
		t.Errorf("bet = %q", rows[0].Bet)
	}

	// An away -1.5 would need a reference hdp of +1.5, which does not exist.
	g.FullGame.AwaySpreads = []betbck_http.SpreadOption{{Line: "-1.5", Odds: "-120"}}
	rows, err = Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("mismatched line produced rows: %+v", rows)
	}
}

func TestAnalyzeSplitLine(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Spreads: map[string]*pinnacle_http.Spread{
			"1.25": {Hdp: 1.25, Home: 1.90, Away: 1.95},
		}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			HomeSpreads: []betbck_http.SpreadOption{{Line: "+1,+1.5", Odds: "-110"}},
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 1 || rows[0].Line != 1.25 {
		t.Fatalf("split line should parse to 1.25 and pair, got %+v", rows)
	}

	// Whole and half lines are not a quarter line; strict tolerance.
	e2 := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Spreads: map[string]*pinnacle_http.Spread{
			"1":   {Hdp: 1.0, Home: 1.90, Away: 1.95},
			"1.5": {Hdp: 1.5, Home: 1.85, Away: 2.00},
		}},
	})
	rows, err = Analyze(e2, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("1.25 must not pair against 1.0 or 1.5: %+v", rows)
	}
}

func TestAnalyzeTotals(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Totals: map[string]*pinnacle_http.Total{
			"8.5": {Points: 8.5, Over: 1.952, Under: 1.952},
		}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			TotalLine:      "8.5",
			TotalOverOdds:  "+105",
			TotalUnderOdds: "-115",
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	over := findRow(t, rows, "Total", "Over")
	// Fair is even money; +105 is +2.5%.
	if math.Abs(over.EVRatio-0.025) > 0.01 {
		t.Errorf("over EV = %f, want ≈ +2.5%%", over.EVRatio)
	}
	if over.Bet != "Over 8.5" {
		t.Errorf("bet = %q", over.Bet)
	}
	under := findRow(t, rows, "Total", "Under")
	if under.EVRatio >= 0 {
		t.Errorf("under -115 against even money should be negative, got %f", under.EVRatio)
	}
}

func TestAnalyzePerSideTotals(t *testing.T) {
	// First-half totals often arrive as per-side grids rather than one
	// aggregate line: home rows price the Over, away rows the Under.
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95}},
		1: {Totals: map[string]*pinnacle_http.Total{
			"4.5": {Points: 4.5, Over: 1.90, Under: 1.90},
		}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{HomeMoneyline: "+100"},
		FirstHalf: &betbck_http.MarketPrices{
			HomeTotals: []betbck_http.TotalOption{{Line: "4.5", Odds: "+105"}},
			AwayTotals: []betbck_http.TotalOption{{Line: "4.5", Odds: "-115"}},
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	over := findRow(t, rows, "1H Total", "Over")
	if over.Period != 1 || over.Line != 4.5 {
		t.Errorf("unexpected over row %+v", over)
	}
	// 1.90/1.90 de-vigs to evens; +105 is +2.5%.
	if math.Abs(over.EVRatio-0.025) > 0.01 {
		t.Errorf("over EV = %f, want ≈ +2.5%%", over.EVRatio)
	}
	if over.Bet != "1H Over 4.5" {
		t.Errorf("over bet = %q", over.Bet)
	}

	under := findRow(t, rows, "1H Total", "Under")
	if under.EVRatio >= 0 {
		t.Errorf("under -115 against even money should be negative, got %f", under.EVRatio)
	}

	// A line the reference never posted pairs nothing.
	g.FirstHalf.HomeTotals = []betbck_http.TotalOption{{Line: "5.5", Odds: "+105"}}
	g.FirstHalf.AwayTotals = nil
	rows, err = Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range rows {
		if r.Market == "1H Total" {
			t.Errorf("unposted line produced a row: %+v", r)
		}
	}
}

func TestAnalyzeMarketLimitPreference(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {
			Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95},
			Spreads: map[string]*pinnacle_http.Spread{
				"-1.5": {Hdp: -1.5, Home: 2.70, Away: 1.48, MaxBet: 500},
			},
			Totals: map[string]*pinnacle_http.Total{
				"8.5": {Points: 8.5, Over: 1.952, Under: 1.952},
			},
			Meta: &pinnacle_http.Limits{MaxMoneyline: 3000, MaxSpread: 2000, MaxTotal: 1000},
		},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			HomeMoneyline: "+100",
			HomeSpreads:   []betbck_http.SpreadOption{{Line: "-1.5", Odds: "+170"}},
			TotalLine:     "8.5", TotalOverOdds: "+100", TotalUnderOdds: "-110",
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// The spread carries its own max bet; it wins over the period meta.
	if sp := findRow(t, rows, "Spread", "Home"); sp.MaxLimit != 500 {
		t.Errorf("spread limit = %g, want the market's own 500", sp.MaxLimit)
	}
	// The total carries none; the meta limit is the fallback.
	if tot := findRow(t, rows, "Total", "Over"); tot.MaxLimit != 1000 {
		t.Errorf("total limit = %g, want meta fallback 1000", tot.MaxLimit)
	}
	if ml := findRow(t, rows, "Moneyline", "Home"); ml.MaxLimit != 3000 {
		t.Errorf("moneyline limit = %g, want 3000", ml.MaxLimit)
	}
}

func TestAnalyzeOrientationFlip(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.50, Away: 2.80}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			HomeMoneyline: "+200", // secondary home is the reference away side
			AwayMoneyline: "-180",
		},
	}
	rows, err := Analyze(e, g, match.Flipped)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	away := findRow(t, rows, "Moneyline", "Away")
	if away.SecondaryAmerican != 200 {
		t.Errorf("flipped away row should carry the secondary home price, got %d", away.SecondaryAmerican)
	}
	home := findRow(t, rows, "Moneyline", "Home")
	if home.SecondaryAmerican != -180 {
		t.Errorf("flipped home row should carry the secondary away price, got %d", home.SecondaryAmerican)
	}
}

func TestAnalyzePeriodIsolation(t *testing.T) {
	// Reference has only the full game; 1H rows are suppressed, not mispaired.
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Totals: map[string]*pinnacle_http.Total{
			"8.5": {Points: 8.5, Over: 1.952, Under: 1.952},
		}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{
			TotalLine: "8.5", TotalOverOdds: "+100", TotalUnderOdds: "-110",
		},
		FirstHalf: &betbck_http.MarketPrices{
			TotalLine: "4.5", TotalOverOdds: "+100", TotalUnderOdds: "-110",
		},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range rows {
		if r.Period != 0 || strings.HasPrefix(r.Market, "1H") {
			t.Errorf("first-half row leaked: %+v", r)
		}
	}
	if len(rows) != 2 {
		t.Errorf("full-game rows missing: %+v", rows)
	}
}

func TestAnalyzePeriodMismatch(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{})
	g := &betbck_http.Game{
		FirstHalf: &betbck_http.MarketPrices{TotalLine: "4.5", TotalOverOdds: "+100"},
	}
	rows, err := Analyze(e, g, match.Direct)
	if !errors.Is(err, ErrPeriodMismatch) {
		t.Fatalf("err = %v, want ErrPeriodMismatch", err)
	}
	if len(rows) != 0 {
		t.Errorf("mismatch must emit no rows, got %+v", rows)
	}
}

func TestAnalyzeFirstHalf(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95}},
		1: {Moneyline: &pinnacle_http.Moneyline{Home: 1.90, Away: 1.90}},
	})
	g := &betbck_http.Game{
		FullGame:  betbck_http.MarketPrices{HomeMoneyline: "+100"},
		FirstHalf: &betbck_http.MarketPrices{HomeMoneyline: "+105"},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	fh := findRow(t, rows, "1H Moneyline", "Home")
	if fh.Period != 1 {
		t.Errorf("1H row period = %d", fh.Period)
	}
	if !strings.HasPrefix(fh.Bet, "1H ML - ") {
		t.Errorf("1H bet = %q", fh.Bet)
	}
	// 1.90/1.90 de-vigs to evens; +105 is +2.5%.
	if math.Abs(fh.EVRatio-0.025) > 0.01 {
		t.Errorf("1H EV = %f, want ≈ +2.5%%", fh.EVRatio)
	}
}

func TestAnalyzeUnparseableOdds(t *testing.T) {
	e := refEvent(map[int]*pinnacle_http.PeriodMarkets{
		0: {Moneyline: &pinnacle_http.Moneyline{Home: 1.87, Away: 1.95}},
	})
	g := &betbck_http.Game{
		FullGame: betbck_http.MarketPrices{HomeMoneyline: "EV", AwayMoneyline: ""},
	}
	rows, err := Analyze(e, g, match.Direct)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("unparseable odds must void the selection only: %+v", rows)
	}
}

func TestFormatBet(t *testing.T) {
	tests := []struct {
		market, selection string
		line              float64
		want              string
	}{
		{"Moneyline", "Home", 0, "ML - Boston Red Sox"},
		{"Moneyline", "Draw", 0, "ML - Draw"},
		{"Spread", "Away", 1.25, "New York Yankees +1.25"},
		{"Spread", "Home", -1.5, "Boston Red Sox -1.5"},
		{"Total", "Over", 8.5, "Over 8.5"},
		{"1H Total", "Under", 4.5, "1H Under 4.5"},
		{"1H Moneyline", "Home", 0, "1H ML - Boston Red Sox"},
	}
	for _, tt := range tests {
		got := FormatBet(tt.market, tt.selection, tt.line, "Boston Red Sox", "New York Yankees")
		if got != tt.want {
			t.Errorf("FormatBet(%q, %q, %g) = %q, want %q", tt.market, tt.selection, tt.line, got, tt.want)
		}
	}
}

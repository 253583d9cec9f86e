// scrapemock serves canned reference-feed and scraper responses so the
// scanner can run end-to-end with no live upstreams. It answers both ports'
// worth of traffic on one listener: GET /v1/events with a small fixed event
// list, POST /scrape with a matching secondary-book game for the events it
// knows and a not-found payload for everything else.
//
// Usage:
//
//	go run cmd/scrapemock/main.go
//
// then point both base URLs at it:
//
//	PINNACLE_BASE_URL=http://localhost:8008 BETBCK_BASE_URL=http://localhost:8008 go run cmd/run/main.go
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const addr = ":8008"

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/events", handleEvents)
	mux.HandleFunc("/scrape", handleScrape)

	fmt.Printf("scrapemock listening on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "scrapemock: %v\n", err)
		os.Exit(1)
	}
}

func handleEvents(w http.ResponseWriter, r *http.Request) {
	starts := time.Now().UTC().Add(6 * time.Hour).Format(time.RFC3339)

	// Period keys deliberately mix the two feed shapes.
	doc := fmt.Sprintf(`{
  "events": [
    {
      "event_id": 1600001,
      "home_team": "Boston Red Sox",
      "away_team": "New York Yankees",
      "starts": %q,
      "league_name": "MLB",
      "periods": {
        "num_0": {
          "money_line": {"home": 1.87, "away": 1.95},
          "spreads": {"-1.5": {"hdp": -1.5, "home": 2.70, "away": 1.48}},
          "totals": {"8.5": {"points": 8.5, "over": 1.91, "under": 1.91}},
          "meta": {"max_moneyline": 3000, "max_spread": 2000, "max_total": 1000}
        },
        "num_1": {
          "money_line": {"home": 1.952, "away": 1.952}
        }
      }
    },
    {
      "event_id": 1600002,
      "home_team": "Internazionale",
      "away_team": "Juventus",
      "starts": %q,
      "league_name": "Italy - Serie A",
      "periods": {
        "0": {
          "money_line": {"home": 2.38, "draw": 3.10, "away": 3.25}
        }
      }
    }
  ]
}`, starts, starts)

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// scrapes maps reference event id to the canned scraper payload. The soccer
// game comes back with the sides swapped to exercise orientation detection.
var scrapes = map[string]string{
	"1600001": `{
  "status": "ok",
  "game": {
    "betbck_game_id": "bck-1001",
    "home_team_raw": "Boston Red Sox",
    "away_team_raw": "NY Yankees",
    "full_game": {
      "home_moneyline_american": "-105",
      "away_moneyline_american": "-105",
      "home_spreads": [{"line": "-1.5", "odds": "+170"}],
      "away_spreads": [{"line": "+1.5", "odds": "-200"}],
      "game_total_line": "8.5",
      "game_total_over_odds": "-108",
      "game_total_under_odds": "-104"
    },
    "first_half": {
      "home_moneyline_american": "+105",
      "away_moneyline_american": "-115"
    }
  }
}`,
	"1600002": `{
  "status": "ok",
  "game": {
    "betbck_game_id": "bck-1002",
    "home_team_raw": "Juventus",
    "away_team_raw": "Inter Milan",
    "full_game": {
      "home_moneyline_american": "+240",
      "away_moneyline_american": "+145",
      "draw_moneyline_american": "+215"
    }
  }
}`,
}

func handleScrape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if doc, ok := scrapes[req.EventID]; ok {
		w.Write([]byte(doc))
		return
	}
	w.Write([]byte(`{"status": "ok", "game": null}`))
}

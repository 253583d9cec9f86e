package events

import "time"

// Event is the envelope that flows through the event bus.
// Every domain event (match found, EV opportunity, scrape error) is wrapped in one.
type Event struct {
	ID        string
	Type      EventType
	Sport     string
	EventID   string // reference event id, when known
	GameID    string // secondary game id, when known
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventMatchFound   EventType = "match_found"
	EventOpportunity  EventType = "ev_opportunity"
	EventScrapeError  EventType = "scrape_error"
	EventRunCompleted EventType = "run_completed"
)

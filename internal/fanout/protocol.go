package fanout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkelly/plusev/internal/events"
)

// Envelope is the wire format for events sent over the fanout WebSocket.
type Envelope struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Sport     string          `json:"sport,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
	GameID    string          `json:"game_id,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalEvent serializes an Event into a JSON-encoded Envelope.
func MarshalEvent(evt events.Event) ([]byte, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{
		Type:      string(evt.Type),
		ID:        evt.ID,
		Sport:     evt.Sport,
		EventID:   evt.EventID,
		GameID:    evt.GameID,
		Timestamp: evt.Timestamp,
		Payload:   payload,
	}
	return json.Marshal(env)
}

// UnmarshalEvent deserializes a JSON Envelope back into a typed Event.
func UnmarshalEvent(data []byte) (events.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.Event{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	evt := events.Event{
		ID:        env.ID,
		Type:      events.EventType(env.Type),
		Sport:     env.Sport,
		EventID:   env.EventID,
		GameID:    env.GameID,
		Timestamp: env.Timestamp,
	}

	switch evt.Type {
	case events.EventMatchFound:
		var mf events.MatchFound
		if err := json.Unmarshal(env.Payload, &mf); err != nil {
			return evt, fmt.Errorf("unmarshal match_found: %w", err)
		}
		evt.Payload = mf
	case events.EventOpportunity:
		var op events.OpportunityFound
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return evt, fmt.Errorf("unmarshal ev_opportunity: %w", err)
		}
		evt.Payload = op
	case events.EventScrapeError:
		var se events.ScrapeError
		if err := json.Unmarshal(env.Payload, &se); err != nil {
			return evt, fmt.Errorf("unmarshal scrape_error: %w", err)
		}
		evt.Payload = se
	case events.EventRunCompleted:
		var rc events.RunCompleted
		if err := json.Unmarshal(env.Payload, &rc); err != nil {
			return evt, fmt.Errorf("unmarshal run_completed: %w", err)
		}
		evt.Payload = rc
	default:
		return evt, fmt.Errorf("unknown event type: %s", env.Type)
	}

	return evt, nil
}

// Package payload formats transition and lifecycle events as JSON for
// the message transports.
package payload

import (
	"encoding/json"
	"time"

	"github.com/sweeney/headroom-pager/internal/logic"
)

// SystemEvent represents a lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT", "OFFLINE"
	Reason     string // e.g. "SIGTERM", "quit" (shutdown only)
	RawPayload []byte // Pre-formatted JSON; if set, FormatSystem returns it directly
	Retained   bool   // Whether the broker should retain the message
}

// Event is the envelope for a transition.
type Event struct {
	Headroom EventInner `json:"headroom"`
}

// EventInner contains the transition details.
type EventInner struct {
	Timestamp string  `json:"timestamp"`
	Session   string  `json:"session"`
	Event     string  `json:"event"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	ScrollY   float64 `json:"scroll_y"`
}

// FormatEvent creates the JSON payload for a transition.
func FormatEvent(session string, e logic.Event) ([]byte, error) {
	return json.Marshal(Event{
		Headroom: EventInner{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
			Session:   session,
			Event:     string(e.Action),
			From:      string(e.From),
			To:        string(e.To),
			ScrollY:   e.ScrollY,
		},
	})
}

// System is the envelope for simple lifecycle events that do not carry a
// status snapshot.
type System struct {
	System SystemInner `json:"system"`
}

// SystemInner contains the lifecycle event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystem creates the JSON payload for a lifecycle event.
// If e.RawPayload is set, it is returned directly.
func FormatSystem(e SystemEvent) ([]byte, error) {
	if e.RawPayload != nil {
		return e.RawPayload, nil
	}
	return json.Marshal(System{
		System: SystemInner{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Event:     e.Event,
			Reason:    e.Reason,
		},
	})
}

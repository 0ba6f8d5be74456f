package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Session       string     `json:"session"`
	State         string     `json:"state"`
	LastAction    string     `json:"last_action"`
	ScrollY       float64    `json:"scroll_y"`
	Disabled      bool       `json:"disabled"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Broker        BrokerJSON `json:"broker"`
	Counts        CountsJSON `json:"transition_counts"`
	Config        ConfigJSON `json:"config"`
}

// BrokerJSON reports event sink connection state.
type BrokerJSON struct {
	Sink      string `json:"sink"`
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Pin   int `json:"pin"`
	Unpin int `json:"unpin"`
	Unfix int `json:"unfix"`
}

// ConfigJSON is the JSON representation of the pager config.
type ConfigJSON struct {
	UpTolerance   float64 `json:"up_tolerance"`
	DownTolerance float64 `json:"down_tolerance"`
	PinStart      float64 `json:"pin_start"`
	AlwaysPinned  bool    `json:"always_pinned"`
	Footer        bool    `json:"footer"`
	FrameMs       int64   `json:"frame_ms"`
	HTTPAddr      string  `json:"http_addr"`
	Document      string  `json:"document,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		Session:       snap.Session,
		State:         state,
		LastAction:    string(snap.LastAction),
		ScrollY:       snap.ScrollY,
		Disabled:      snap.Disabled,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Broker: BrokerJSON{
			Sink:      snap.Config.Sink,
			Connected: snap.BrokerConnected,
			URL:       snap.Config.Broker,
		},
		Counts: CountsJSON{
			Pin:   snap.Counts.Pin,
			Unpin: snap.Counts.Unpin,
			Unfix: snap.Counts.Unfix,
		},
		Config: ConfigJSON{
			UpTolerance:   snap.Config.UpTolerance,
			DownTolerance: snap.Config.DownTolerance,
			PinStart:      snap.Config.PinStart,
			AlwaysPinned:  snap.Config.AlwaysPinned,
			Footer:        snap.Config.Footer,
			FrameMs:       snap.Config.FrameMs,
			HTTPAddr:      snap.Config.HTTPAddr,
			Document:      snap.Config.Document,
		},
	}
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for a lifecycle event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

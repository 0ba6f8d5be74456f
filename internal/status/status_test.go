package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/headroom-pager/internal/logic"
)

func fixedTracker(start, now time.Time, cfg Config) *Tracker {
	tr := NewTracker(start, "sess-1", cfg)
	tr.now = func() time.Time { return now }
	return tr
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{UpTolerance: 5, FrameMs: 16, HTTPAddr: ":8080"}
	tr := NewTracker(start, "sess-1", cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Session != "sess-1" {
		t.Errorf("Session: got %q", snap.Session)
	}
	if snap.Config.FrameMs != 16 {
		t.Errorf("Config.FrameMs: got %d, want 16", snap.Config.FrameMs)
	}
	if snap.LastAction != logic.ActionNone {
		t.Errorf("LastAction: got %q, want none", snap.LastAction)
	}
	if snap.BrokerConnected {
		t.Error("expected BrokerConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.Update(logic.StatePinned, 120, logic.TransitionCounts{Pin: 3, Unpin: 2}, true)

	snap := tr.Snapshot()
	if snap.State != logic.StatePinned {
		t.Errorf("State: got %q, want pinned", snap.State)
	}
	if snap.ScrollY != 120 {
		t.Errorf("ScrollY: got %v, want 120", snap.ScrollY)
	}
	if snap.Counts.Pin != 3 || snap.Counts.Unpin != 2 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if !snap.Disabled {
		t.Error("expected Disabled=true")
	}
}

func TestRecordTransition(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.RecordTransition(logic.Event{Action: logic.ActionUnpin, From: logic.StatePinned, To: logic.StateUnpinned, ScrollY: 44})

	snap := tr.Snapshot()
	if snap.LastAction != logic.ActionUnpin || snap.State != logic.StateUnpinned || snap.ScrollY != 44 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	tr.Update(logic.StatePinned, 1, logic.TransitionCounts{}, false)
	snap := tr.Snapshot()
	tr.Update(logic.StateUnfixed, 2, logic.TransitionCounts{}, false)

	if snap.State != logic.StatePinned {
		t.Error("snapshot changed after tracker update")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), "s", Config{})
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Update(logic.StatePinned, float64(i), logic.TransitionCounts{Pin: i}, false)
			tr.SetBrokerConnected(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := fixedTracker(start, start.Add(90*time.Second+500*time.Millisecond), Config{
		UpTolerance: 5,
		PinStart:    2,
		Footer:      true,
		FrameMs:     16,
		Sink:        "mqtt",
		Broker:      "tcp://localhost:1883",
		HTTPAddr:    ":8080",
	})
	tr.Update(logic.StateUnpinned, 30, logic.TransitionCounts{Unpin: 1}, false)
	tr.SetBrokerConnected(true)

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.State != "unpinned" {
		t.Errorf("State: got %q", s.State)
	}
	if s.UptimeSeconds != 90 {
		t.Errorf("UptimeSeconds: got %d, want 90", s.UptimeSeconds)
	}
	if s.Event != "" || s.Reason != "" {
		t.Error("web JSON should not carry event/reason")
	}
	if !s.Broker.Connected || s.Broker.Sink != "mqtt" {
		t.Errorf("Broker: got %+v", s.Broker)
	}
	if s.Counts.Unpin != 1 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if !s.Config.Footer || s.Config.PinStart != 2 {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	snap := Snapshot{}
	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.State != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %q", parsed.Status.State)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := fixedTracker(start, start.Add(time.Minute), Config{})

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("unexpected event/reason: %+v", parsed.Status)
	}
	if parsed.Status.Timestamp != "2026-01-01T00:01:00Z" {
		t.Errorf("unexpected timestamp %q", parsed.Status.Timestamp)
	}
}

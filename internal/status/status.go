// Package status provides a thread-safe status tracker for the pager.
// It is written by the UI loop and read by HTTP handlers and heartbeats.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/headroom-pager/internal/logic"
)

// Config contains pager configuration for display.
type Config struct {
	UpTolerance   float64
	DownTolerance float64
	PinStart      float64
	AlwaysPinned  bool
	Footer        bool
	FrameMs       int64
	Sink          string
	Broker        string
	HTTPAddr      string
	Document      string
}

// Snapshot is a point-in-time view of pager state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State           logic.PinState
	LastAction      logic.Action
	ScrollY         float64
	Counts          logic.TransitionCounts
	Disabled        bool
	StartTime       time.Time
	Now             time.Time
	BrokerConnected bool
	Session         string
	Config          Config
}

// Uptime returns the duration since the pager started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable pager state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time, session and config.
func NewTracker(startTime time.Time, session string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			Session:    session,
			Config:     cfg,
			LastAction: logic.ActionNone,
		},
		now: time.Now,
	}
}

// Update sets the pin state, scroll position, counts and disabled flag.
// Called from the UI loop on every frame.
func (t *Tracker) Update(state logic.PinState, scrollY float64, counts logic.TransitionCounts, disabled bool) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.ScrollY = scrollY
	t.snap.Counts = counts
	t.snap.Disabled = disabled
	t.mu.Unlock()
}

// RecordTransition stores the most recent applied action.
func (t *Tracker) RecordTransition(e logic.Event) {
	t.mu.Lock()
	t.snap.LastAction = e.Action
	t.snap.State = e.To
	t.snap.ScrollY = e.ScrollY
	t.mu.Unlock()
}

// SetBrokerConnected sets the event sink connection status.
func (t *Tracker) SetBrokerConnected(connected bool) {
	t.mu.Lock()
	t.snap.BrokerConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the pager state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}

// Package logic contains the pure decision engine for a scroll-aware
// fixed bar (header or footer).
// This package has NO external dependencies (no terminal, MQTT, OS, or timers).
// All state is owned by the caller and passed in on every call.
package logic

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// PinState is the presentation state of the bar.
type PinState string

const (
	// StatePinned means fully visible and fixed in place.
	StatePinned PinState = "pinned"
	// StateUnpinned means fixed but translated out of view.
	StateUnpinned PinState = "unpinned"
	// StateUnfixed means in normal document flow.
	StateUnfixed PinState = "unfixed"
)

// Action is the outcome of a single decision.
type Action string

const (
	ActionPin   Action = "pin"
	ActionUnpin Action = "unpin"
	ActionUnfix Action = "unfix"
	ActionNone  Action = "none"
)

// ErrInvalidConfig is returned when thresholds are negative or not finite.
var ErrInvalidConfig = errors.New("invalid headroom config")

// Sample is two consecutive scroll offsets along the scroll axis.
type Sample struct {
	PreviousY float64
	CurrentY  float64
}

// Delta returns CurrentY - PreviousY. Positive means scrolling down.
func (s Sample) Delta() float64 {
	return s.CurrentY - s.PreviousY
}

// Valid reports whether both readings are finite numbers.
func (s Sample) Valid() bool {
	return finite(s.PreviousY) && finite(s.CurrentY)
}

// Config holds the thresholds read on every decision.
type Config struct {
	// Minimum upward delta required to pin.
	UpTolerance float64
	// Minimum downward delta required to unpin.
	DownTolerance float64
	// Offset below which the bar always returns to normal flow.
	PinStart float64
	// Never unpin; a would-be unpin becomes a pin.
	AlwaysPinned bool
	// Footer mode rests in StatePinned instead of StateUnfixed.
	Footer bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		UpTolerance:   5,
		DownTolerance: 0,
		PinStart:      0,
	}
}

// Validate rejects negative, NaN and infinite thresholds.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"up tolerance", c.UpTolerance},
		{"down tolerance", c.DownTolerance},
		{"pin start", c.PinStart},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidConfig, f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	return nil
}

// Event records an applied transition, for publishing.
type Event struct {
	Timestamp time.Time
	Action    Action
	From      PinState
	To        PinState
	ScrollY   float64
}

// TransitionCounts tracks the number of applied transitions since startup.
type TransitionCounts struct {
	Pin   int
	Unpin int
	Unfix int
}

// Add increments the counter for a. ActionNone is ignored.
func (c *TransitionCounts) Add(a Action) {
	switch a {
	case ActionPin:
		c.Pin++
	case ActionUnpin:
		c.Unpin++
	case ActionUnfix:
		c.Unfix++
	}
}

// Total returns the sum of all counters.
func (c TransitionCounts) Total() int {
	return c.Pin + c.Unpin + c.Unfix
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

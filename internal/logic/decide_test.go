package logic

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.UpTolerance != 5 {
		t.Errorf("expected up tolerance 5, got %v", cfg.UpTolerance)
	}
	if cfg.DownTolerance != 0 {
		t.Errorf("expected down tolerance 0, got %v", cfg.DownTolerance)
	}
	if cfg.PinStart != 0 {
		t.Errorf("expected pin start 0, got %v", cfg.PinStart)
	}
	if cfg.AlwaysPinned || cfg.Footer {
		t.Error("expected alwaysPinned and footer to default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative up tolerance", Config{UpTolerance: -1}},
		{"negative down tolerance", Config{DownTolerance: -0.5}},
		{"negative pin start", Config{PinStart: -10}},
		{"NaN up tolerance", Config{UpTolerance: math.NaN()}},
		{"Inf down tolerance", Config{DownTolerance: math.Inf(1)}},
		{"-Inf pin start", Config{PinStart: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	e, err := NewEngine(Config{DownTolerance: -3})
	if err == nil {
		t.Fatal("expected error for negative tolerance")
	}
	if e != nil {
		t.Error("expected nil engine on error")
	}
}

func TestNewEngineDelegates(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Decide(Sample{PreviousY: 100, CurrentY: 110}, StateUnfixed); got != ActionUnpin {
		t.Errorf("expected unpin, got %s", got)
	}
	if e.Config() != DefaultConfig() {
		t.Errorf("unexpected config: %+v", e.Config())
	}
}

func TestInitialState(t *testing.T) {
	if got := InitialState(true); got != StatePinned {
		t.Errorf("footer: expected pinned, got %s", got)
	}
	if got := InitialState(false); got != StateUnfixed {
		t.Errorf("header: expected unfixed, got %s", got)
	}
}

func TestDecideScenarios(t *testing.T) {
	base := Config{PinStart: 0, UpTolerance: 5, DownTolerance: 0}

	tests := []struct {
		name    string
		cfg     Config
		sample  Sample
		current PinState
		want    Action
	}{
		{
			name:    "scroll down from unfixed unpins",
			cfg:     base,
			sample:  Sample{PreviousY: 100, CurrentY: 110},
			current: StateUnfixed,
			want:    ActionUnpin,
		},
		{
			name:    "scroll up past tolerance pins",
			cfg:     base,
			sample:  Sample{PreviousY: 110, CurrentY: 100},
			current: StateUnpinned,
			want:    ActionPin,
		},
		{
			name:    "dead zone unfixes while scrolling up",
			cfg:     Config{PinStart: 50, UpTolerance: 5},
			sample:  Sample{PreviousY: 60, CurrentY: 40},
			current: StatePinned,
			want:    ActionUnfix,
		},
		{
			name:    "always pinned turns unpin into pin",
			cfg:     Config{AlwaysPinned: true, UpTolerance: 5},
			sample:  Sample{PreviousY: 0, CurrentY: 20},
			current: StateUnfixed,
			want:    ActionPin,
		},
		{
			name:    "delta within down tolerance",
			cfg:     Config{DownTolerance: 5, UpTolerance: 5},
			sample:  Sample{PreviousY: 100, CurrentY: 104},
			current: StatePinned,
			want:    ActionNone,
		},
		{
			name:    "always pinned already pinned",
			cfg:     Config{AlwaysPinned: true, UpTolerance: 5},
			sample:  Sample{PreviousY: 100, CurrentY: 200},
			current: StatePinned,
			want:    ActionNone,
		},
		{
			name:    "always pinned still unfixes in dead zone",
			cfg:     Config{AlwaysPinned: true, PinStart: 30},
			sample:  Sample{PreviousY: 40, CurrentY: 10},
			current: StatePinned,
			want:    ActionUnfix,
		},
		{
			name:    "dead zone wins over fast downward scroll",
			cfg:     Config{PinStart: 500},
			sample:  Sample{PreviousY: 0, CurrentY: 400},
			current: StatePinned,
			want:    ActionUnfix,
		},
		{
			name:    "dead zone while unfixed is a no-op",
			cfg:     Config{PinStart: 500},
			sample:  Sample{PreviousY: 0, CurrentY: 400},
			current: StateUnfixed,
			want:    ActionNone,
		},
		{
			name:    "pinned scrolling down unpins",
			cfg:     base,
			sample:  Sample{PreviousY: 200, CurrentY: 201},
			current: StatePinned,
			want:    ActionUnpin,
		},
		{
			name:    "already unpinned scrolling down",
			cfg:     base,
			sample:  Sample{PreviousY: 200, CurrentY: 300},
			current: StateUnpinned,
			want:    ActionNone,
		},
		{
			name:    "already pinned scrolling up",
			cfg:     base,
			sample:  Sample{PreviousY: 300, CurrentY: 200},
			current: StatePinned,
			want:    ActionNone,
		},
		{
			name:    "unfixed scrolling up pins",
			cfg:     base,
			sample:  Sample{PreviousY: 300, CurrentY: 200},
			current: StateUnfixed,
			want:    ActionPin,
		},
		{
			name:    "fractional position",
			cfg:     base,
			sample:  Sample{PreviousY: 100, CurrentY: 100.25},
			current: StatePinned,
			want:    ActionUnpin,
		},
		{
			name:    "at rest at the top",
			cfg:     base,
			sample:  Sample{PreviousY: 0, CurrentY: 0},
			current: StateUnfixed,
			want:    ActionNone,
		},
		{
			name:    "exactly at pin start is outside the dead zone",
			cfg:     Config{PinStart: 50},
			sample:  Sample{PreviousY: 40, CurrentY: 50},
			current: StatePinned,
			want:    ActionUnpin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.sample, tt.cfg, tt.current)
			if got != tt.want {
				t.Errorf("Decide(%+v, %s) = %s, want %s", tt.sample, tt.current, got, tt.want)
			}
		})
	}
}

func TestDecideToleranceBoundaries(t *testing.T) {
	cfg := Config{UpTolerance: 5, DownTolerance: 3}
	states := []PinState{StatePinned, StateUnpinned, StateUnfixed}

	// Every delta in [-up, +down] must be inert, whatever the state.
	for _, current := range states {
		for _, delta := range []float64{-5, -4.999, -1, 0, 1, 2.5, 3} {
			s := Sample{PreviousY: 100, CurrentY: 100 + delta}
			if got := Decide(s, cfg, current); got != ActionNone {
				t.Errorf("state=%s delta=%v: expected none, got %s", current, delta, got)
			}
		}
	}

	if got := Decide(Sample{PreviousY: 100, CurrentY: 103.001}, cfg, StatePinned); got != ActionUnpin {
		t.Errorf("just past down tolerance: expected unpin, got %s", got)
	}
	if got := Decide(Sample{PreviousY: 100, CurrentY: 94.999}, cfg, StateUnpinned); got != ActionPin {
		t.Errorf("just past up tolerance: expected pin, got %s", got)
	}
}

func TestDecideDeadZoneProperty(t *testing.T) {
	for _, alwaysPinned := range []bool{false, true} {
		cfg := Config{PinStart: 100, UpTolerance: 5, AlwaysPinned: alwaysPinned}
		for _, current := range []PinState{StatePinned, StateUnpinned} {
			for _, prev := range []float64{0, 50, 99, 150, 1000} {
				s := Sample{PreviousY: prev, CurrentY: 99.5}
				if got := Decide(s, cfg, current); got != ActionUnfix {
					t.Errorf("alwaysPinned=%v state=%s prev=%v: expected unfix, got %s",
						alwaysPinned, current, prev, got)
				}
			}
		}
	}
}

func TestDecideAlwaysPinnedNeverUnpins(t *testing.T) {
	cfg := Config{AlwaysPinned: true, UpTolerance: 5}
	for _, current := range []PinState{StatePinned, StateUnpinned, StateUnfixed} {
		for _, delta := range []float64{-100, -6, 0, 1, 50, 1000} {
			got := Decide(Sample{PreviousY: 500, CurrentY: 500 + delta}, cfg, current)
			if got == ActionUnpin {
				t.Errorf("state=%s delta=%v: alwaysPinned produced unpin", current, delta)
			}
			if got == ActionUnfix {
				t.Errorf("state=%s delta=%v: alwaysPinned produced unfix outside dead zone", current, delta)
			}
		}
	}
}

func TestDecideIdempotentAtRest(t *testing.T) {
	cfg := DefaultConfig()
	samples := []Sample{
		{PreviousY: 100, CurrentY: 110},
		{PreviousY: 110, CurrentY: 100},
		{PreviousY: 0, CurrentY: 300},
	}
	for _, start := range []PinState{StatePinned, StateUnpinned, StateUnfixed} {
		for _, s := range samples {
			state := Apply(start, Decide(s, cfg, start))
			if got := Decide(s, cfg, state); got != ActionNone {
				t.Errorf("start=%s sample=%+v: second decision expected none, got %s", start, s, got)
			}
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		current PinState
		action  Action
		want    PinState
	}{
		{StateUnfixed, ActionPin, StatePinned},
		{StatePinned, ActionUnpin, StateUnpinned},
		{StateUnpinned, ActionUnfix, StateUnfixed},
		{StateUnpinned, ActionNone, StateUnpinned},
		{StatePinned, ActionNone, StatePinned},
	}
	for _, tt := range tests {
		if got := Apply(tt.current, tt.action); got != tt.want {
			t.Errorf("Apply(%s, %s) = %s, want %s", tt.current, tt.action, got, tt.want)
		}
	}
}

func TestSampleValid(t *testing.T) {
	if !(Sample{PreviousY: 0, CurrentY: 12.5}).Valid() {
		t.Error("expected finite sample to be valid")
	}
	if (Sample{PreviousY: math.NaN(), CurrentY: 1}).Valid() {
		t.Error("expected NaN sample to be invalid")
	}
	if (Sample{PreviousY: 1, CurrentY: math.Inf(1)}).Valid() {
		t.Error("expected Inf sample to be invalid")
	}
}

func TestTransitionCounts(t *testing.T) {
	var c TransitionCounts
	for _, a := range []Action{ActionPin, ActionPin, ActionUnpin, ActionUnfix, ActionNone} {
		c.Add(a)
	}
	if c.Pin != 2 || c.Unpin != 1 || c.Unfix != 1 {
		t.Errorf("unexpected counts: %+v", c)
	}
	if c.Total() != 4 {
		t.Errorf("expected total 4, got %d", c.Total())
	}
}

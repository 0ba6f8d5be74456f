package logic

// Decide returns the action for one scroll sample given the current state.
// Rules are evaluated in order and the first match wins:
//
//  1. Inside the dead zone (CurrentY < PinStart) the bar returns to normal
//     flow. This beats direction and AlwaysPinned.
//  2. Scrolling down by more than DownTolerance unpins, or pins when
//     AlwaysPinned is set.
//  3. Scrolling up by more than UpTolerance pins.
//
// Tolerances are strict: a delta equal to a tolerance does nothing.
func Decide(s Sample, cfg Config, current PinState) Action {
	if s.CurrentY < cfg.PinStart {
		if current != StateUnfixed {
			return ActionUnfix
		}
		// Already in flow; direction is meaningless inside the dead zone.
		return ActionNone
	}

	delta := s.Delta()

	if delta > cfg.DownTolerance && current != StateUnpinned {
		if cfg.AlwaysPinned {
			if current != StatePinned {
				return ActionPin
			}
			return ActionNone
		}
		return ActionUnpin
	}

	if delta < -cfg.UpTolerance && current != StatePinned {
		return ActionPin
	}

	return ActionNone
}

// InitialState returns the state a bar starts in before any scroll sample.
func InitialState(footer bool) PinState {
	if footer {
		return StatePinned
	}
	return StateUnfixed
}

// Apply returns the state reached by applying a to current.
func Apply(current PinState, a Action) PinState {
	switch a {
	case ActionPin:
		return StatePinned
	case ActionUnpin:
		return StateUnpinned
	case ActionUnfix:
		return StateUnfixed
	default:
		return current
	}
}

// Engine is a Config that has passed validation.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's thresholds.
func (e *Engine) Config() Config {
	return e.cfg
}

// Decide runs Decide with the engine's config.
func (e *Engine) Decide(s Sample, current PinState) Action {
	return Decide(s, e.cfg, current)
}

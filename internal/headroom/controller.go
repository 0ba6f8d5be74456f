// Package headroom hosts the decision engine: it owns the pin state and the
// last known scroll offset, throttles scroll notifications to one decision
// per frame, and turns actions into hooks and a render model.
package headroom

import (
	"fmt"
	"time"

	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/scroll"
)

// Outcome classifies what happened to a scheduled update.
type Outcome string

const (
	OutcomeDecided    Outcome = "decided"
	OutcomeNone       Outcome = "none"
	OutcomeOutOfBound Outcome = "out_of_bound"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeDisabled   Outcome = "disabled"
)

// Hooks are invoked once per applied transition. Nil hooks are skipped.
type Hooks struct {
	OnPin   func()
	OnUnpin func()
	OnUnfix func()
}

// Options configures a Controller.
type Options struct {
	Config   logic.Config
	Disabled bool
	Hooks    Hooks

	// OnTransition receives every applied transition.
	OnTransition func(logic.Event)
	// OnSample receives the outcome of every update.
	OnSample func(Outcome)
	// Now defaults to time.Now.
	Now func() time.Time
}

// View is the render model derived from controller state.
type View struct {
	// State is the settled bookkeeping state.
	State logic.PinState
	// ClassName is "headroom headroom--<visual state>", plus
	// " headroom--scrolled" once the bar has left the unfixed state.
	ClassName string
	// Fixed is true when the bar is taken out of document flow.
	Fixed bool
	// Offset is the translation along the scroll axis in rows: negative
	// hides a header above the viewport, positive hides a footer below it.
	Offset int
	// Scrolled is true when State is not unfixed.
	Scrolled bool
}

// Controller is the host-side owner of one bar's pin state.
// It is not safe for concurrent use; drive it from a single loop.
type Controller struct {
	reader scroll.Reader
	engine *logic.Engine
	sched  Scheduler

	hooks        Hooks
	onTransition func(logic.Event)
	onSample     func(Outcome)
	now          func() time.Time

	state   logic.PinState
	visual  logic.PinState
	offset  int
	height  int
	counts  logic.TransitionCounts
	lastY   float64
	ticking bool
	// unpin applied visually; bookkeeping state catches up on Settle
	settlePending bool
	disabled      bool
}

// New creates a Controller. It fails if the config thresholds are invalid.
func New(reader scroll.Reader, sched Scheduler, opts Options) (*Controller, error) {
	if reader == nil {
		return nil, fmt.Errorf("headroom: nil scroll reader")
	}
	if sched == nil {
		sched = ImmediateScheduler{}
	}
	engine, err := logic.NewEngine(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("headroom: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	initial := logic.InitialState(opts.Config.Footer)
	return &Controller{
		reader:       reader,
		engine:       engine,
		sched:        sched,
		hooks:        opts.Hooks,
		onTransition: opts.OnTransition,
		onSample:     opts.OnSample,
		now:          now,
		state:        initial,
		visual:       initial,
		disabled:     opts.Disabled,
	}, nil
}

// HandleScroll notes that the scroll position changed. At most one update
// is outstanding at a time; further notifications are coalesced into it.
func (c *Controller) HandleScroll() {
	if c.disabled || c.ticking {
		return
	}
	c.ticking = true
	c.sched.Schedule(func() { c.Update() })
}

// Update reads the scroll position, decides, and applies the action.
// Out-of-bound and non-finite readings skip the engine but still become
// the last known position.
func (c *Controller) Update() logic.Action {
	defer func() { c.ticking = false }()

	c.Settle()

	y := c.reader.ScrollY()
	if c.disabled {
		c.lastY = y
		c.report(OutcomeDisabled)
		return logic.ActionNone
	}

	sample := logic.Sample{PreviousY: c.lastY, CurrentY: y}
	c.lastY = y

	if !sample.Valid() {
		c.report(OutcomeInvalid)
		return logic.ActionNone
	}
	if scroll.OutOfBound(y, c.reader.Metrics()) {
		c.report(OutcomeOutOfBound)
		return logic.ActionNone
	}

	action := c.engine.Decide(sample, c.state)
	switch action {
	case logic.ActionPin:
		c.pin(y)
	case logic.ActionUnpin:
		c.unpin(y)
	case logic.ActionUnfix:
		c.unfix(y)
	default:
		c.report(OutcomeNone)
		return logic.ActionNone
	}
	c.report(OutcomeDecided)
	return action
}

// Settle completes a deferred unpin. The host calls it once per frame;
// Update also calls it so a decision never sees a stale state.
func (c *Controller) Settle() {
	if !c.settlePending {
		return
	}
	c.settlePending = false
	c.state = logic.StateUnpinned
}

// SetDisabled stops or resumes scroll tracking. Disabling returns the bar
// to normal flow.
func (c *Controller) SetDisabled(disabled bool) {
	if disabled == c.disabled {
		return
	}
	c.disabled = disabled
	if disabled {
		c.Settle()
		if c.state != logic.StateUnfixed {
			c.unfix(c.lastY)
		}
	}
}

// Disabled reports whether scroll tracking is off.
func (c *Controller) Disabled() bool {
	return c.disabled
}

// SetHeight records the measured bar height in rows, used for footers.
func (c *Controller) SetHeight(rows int) {
	if rows < 0 {
		rows = 0
	}
	c.height = rows
	if c.visual == logic.StateUnpinned {
		c.offset = c.hiddenOffset()
	}
}

// State returns the settled pin state.
func (c *Controller) State() logic.PinState {
	return c.state
}

// Counts returns the number of transitions applied so far.
func (c *Controller) Counts() logic.TransitionCounts {
	return c.counts
}

// LastScrollY returns the last position read.
func (c *Controller) LastScrollY() float64 {
	return c.lastY
}

// Config returns the engine thresholds.
func (c *Controller) Config() logic.Config {
	return c.engine.Config()
}

// View returns the render model for the bar.
func (c *Controller) View() View {
	class := "headroom headroom--" + string(c.visual)
	scrolled := c.state != logic.StateUnfixed
	if scrolled {
		class += " headroom--scrolled"
	}
	return View{
		State:     c.state,
		ClassName: class,
		Fixed:     !c.disabled && c.state != logic.StateUnfixed,
		Offset:    c.offset,
		Scrolled:  scrolled,
	}
}

func (c *Controller) pin(y float64) {
	call(c.hooks.OnPin)
	from := c.state
	c.offset = 0
	c.visual = logic.StatePinned
	c.state = logic.StatePinned
	c.settlePending = false
	c.record(logic.ActionPin, from, y)
}

func (c *Controller) unpin(y float64) {
	call(c.hooks.OnUnpin)
	from := c.state
	c.visual = logic.StateUnpinned
	c.offset = c.hiddenOffset()
	c.settlePending = true
	c.record(logic.ActionUnpin, from, y)
}

func (c *Controller) unfix(y float64) {
	call(c.hooks.OnUnfix)
	from := c.state
	c.offset = 0
	c.visual = logic.StateUnfixed
	c.state = logic.StateUnfixed
	c.record(logic.ActionUnfix, from, y)
}

func (c *Controller) hiddenOffset() int {
	if c.engine.Config().Footer {
		return c.height
	}
	// A header slides up by its full height (translateY(-100%)).
	if c.height == 0 {
		return -1
	}
	return -c.height
}

func (c *Controller) record(a logic.Action, from logic.PinState, y float64) {
	c.counts.Add(a)
	if c.onTransition != nil {
		c.onTransition(logic.Event{
			Timestamp: c.now(),
			Action:    a,
			From:      from,
			To:        logic.Apply(from, a),
			ScrollY:   y,
		})
	}
}

func (c *Controller) report(o Outcome) {
	if c.onSample != nil {
		c.onSample(o)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

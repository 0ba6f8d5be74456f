// Package pager is a terminal document viewer whose title bar hides while
// reading downwards and comes back when scrolling up.
package pager

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/headroom-pager/internal/gpio"
	"github.com/sweeney/headroom-pager/internal/headroom"
	"github.com/sweeney/headroom-pager/internal/scroll"
)

const tabWidth = 4

// Options configures the host side of a Pager.
type Options struct {
	Title      string
	ScrollStep int
	Frame      time.Duration

	// Buttons, if set, is polled every ButtonPoll for scroll presses.
	Buttons    gpio.Reader
	ButtonPoll time.Duration

	// OnFrame runs after every frame, before the screen is shown.
	OnFrame func(*headroom.Controller)

	Logger *slog.Logger
}

// Pager renders lines on a tcell screen and drives a headroom.Controller
// from the scroll offset. It implements scroll.Reader.
type Pager struct {
	screen tcell.Screen
	lines  []string
	offset int
	title  string
	step   int

	ctl   *headroom.Controller
	sched *headroom.FrameScheduler
	every time.Duration

	buttons gpio.Reader
	edges   gpio.Edges
	poll    time.Duration

	onFrame func(*headroom.Controller)
	logger  *slog.Logger
}

// New builds a Pager over screen and creates its controller from hopts.
// The screen must already be initialised.
func New(screen tcell.Screen, lines []string, hopts headroom.Options, opts Options) (*Pager, error) {
	if screen == nil {
		return nil, fmt.Errorf("pager: nil screen")
	}
	step := opts.ScrollStep
	if step <= 0 {
		step = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	every := opts.Frame
	if every <= 0 {
		every = headroom.DefaultFrame
	}
	poll := opts.ButtonPoll
	if poll <= 0 {
		poll = 20 * time.Millisecond
	}

	p := &Pager{
		screen:  screen,
		lines:   lines,
		title:   opts.Title,
		step:    step,
		sched:   headroom.NewFrameScheduler(every),
		every:   every,
		buttons: opts.Buttons,
		poll:    poll,
		onFrame: opts.OnFrame,
		logger:  logger,
	}

	ctl, err := headroom.New(p, p.sched, hopts)
	if err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	ctl.SetHeight(1)
	p.ctl = ctl
	return p, nil
}

// ReadLines splits r into display lines, expanding tabs.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", strings.Repeat(" ", tabWidth)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// ReadFile loads path, or standard input when path is "-".
func ReadFile(path string) ([]string, error) {
	if path == "-" {
		return ReadLines(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return ReadLines(f)
}

// Controller returns the controller driven by this pager.
func (p *Pager) Controller() *headroom.Controller {
	return p.ctl
}

// ScrollY returns the top document row shown on screen.
func (p *Pager) ScrollY() float64 {
	return float64(p.offset)
}

// Metrics returns the viewport and document heights in rows. The document
// is never shorter than the viewport.
func (p *Pager) Metrics() scroll.Metrics {
	_, h := p.screen.Size()
	total := p.docRows()
	if total < h {
		total = h
	}
	return scroll.Metrics{Physical: float64(h), Total: float64(total)}
}

// Offset returns the top document row shown on screen.
func (p *Pager) Offset() int {
	return p.offset
}

// ScrollTo moves the viewport to row, clamped to the document.
func (p *Pager) ScrollTo(row int) {
	if row > p.maxOffset() {
		row = p.maxOffset()
	}
	if row < 0 {
		row = 0
	}
	if row == p.offset {
		return
	}
	p.offset = row
	p.ctl.HandleScroll()
}

// ScrollBy moves the viewport by rows; negative values scroll up.
func (p *Pager) ScrollBy(rows int) {
	p.ScrollTo(p.offset + rows)
}

// Page scrolls by one screen, keeping a row of overlap.
func (p *Pager) Page(dir int) {
	_, h := p.screen.Size()
	n := h - 1
	if n < 1 {
		n = 1
	}
	p.ScrollBy(dir * n)
}

// ToggleDisabled switches scroll tracking off or back on.
func (p *Pager) ToggleDisabled() {
	disabled := !p.ctl.Disabled()
	p.ctl.SetDisabled(disabled)
	p.logger.Info("headroom tracking", "disabled", disabled)
}

// Run shows the document until the user quits or ctx is cancelled.
func (p *Pager) Run(ctx context.Context) error {
	p.screen.EnableMouse()
	defer p.screen.DisableMouse()

	ticker := time.NewTicker(p.every)
	defer ticker.Stop()

	var buttonTick <-chan time.Time
	if p.buttons != nil {
		bt := time.NewTicker(p.poll)
		defer bt.Stop()
		buttonTick = bt.C
	}

	quit := make(chan struct{})
	defer close(quit)
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	p.Frame(time.Now())

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !p.HandleEvent(ev) {
				return nil
			}

		case <-buttonTick:
			p.pollButtons()

		case now := <-ticker.C:
			p.Frame(now)
		}
	}
}

// Frame completes a deferred unpin, runs any scheduled update and redraws.
func (p *Pager) Frame(now time.Time) {
	p.ctl.Settle()
	p.sched.Flush(now)
	if p.onFrame != nil {
		p.onFrame(p.ctl)
	}
	p.draw()
}

// HandleEvent applies one terminal event. It returns false to quit.
func (p *Pager) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev.Key(), ev.Rune())

	case *tcell.EventMouse:
		p.handleWheel(ev.Buttons())

	case *tcell.EventResize:
		p.screen.Sync()
		// Geometry changed; re-clamp and let the controller look again.
		if p.offset > p.maxOffset() {
			p.offset = p.maxOffset()
		}
		p.ctl.HandleScroll()
	}
	return true
}

func (p *Pager) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyDown, tcell.KeyEnter:
		p.ScrollBy(1)
	case tcell.KeyUp:
		p.ScrollBy(-1)
	case tcell.KeyPgDn:
		p.Page(1)
	case tcell.KeyPgUp:
		p.Page(-1)
	case tcell.KeyHome:
		p.ScrollTo(0)
	case tcell.KeyEnd:
		p.ScrollTo(p.maxOffset())
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'j':
			p.ScrollBy(1)
		case 'k':
			p.ScrollBy(-1)
		case ' ', 'f':
			p.Page(1)
		case 'b':
			p.Page(-1)
		case 'g':
			p.ScrollTo(0)
		case 'G':
			p.ScrollTo(p.maxOffset())
		case 'd':
			p.ToggleDisabled()
		}
	}
	return true
}

func (p *Pager) handleWheel(buttons tcell.ButtonMask) {
	if buttons&tcell.WheelUp != 0 {
		p.ScrollBy(-p.step)
	}
	if buttons&tcell.WheelDown != 0 {
		p.ScrollBy(p.step)
	}
}

func (p *Pager) pollButtons() {
	up, down, err := p.buttons.Read()
	if err != nil {
		p.logger.Warn("button read failed", "error", err)
		return
	}
	switch p.edges.Next(up, down) {
	case gpio.Up:
		p.ScrollBy(-p.step)
	case gpio.Down:
		p.ScrollBy(p.step)
	}
}

// docRows is the document height: every line plus one row for the bar.
func (p *Pager) docRows() int {
	return len(p.lines) + 1
}

func (p *Pager) maxOffset() int {
	_, h := p.screen.Size()
	m := p.docRows() - h
	if m < 0 {
		return 0
	}
	return m
}

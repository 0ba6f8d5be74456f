package headroom

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFrame is the frame interval used when none is configured (~60 FPS).
const DefaultFrame = 16 * time.Millisecond

// Scheduler defers a callback to a later frame.
type Scheduler interface {
	Schedule(fn func())
}

// FrameScheduler runs at most one scheduled callback per frame interval.
// The host calls Flush from its frame ticker; a callback scheduled while
// another is pending replaces it.
type FrameScheduler struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	pending func()
}

// NewFrameScheduler creates a scheduler that allows one callback per frame.
func NewFrameScheduler(frame time.Duration) *FrameScheduler {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &FrameScheduler{
		limiter: rate.NewLimiter(rate.Every(frame), 1),
	}
}

// Schedule stores fn to run on the next allowed Flush.
func (s *FrameScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.pending = fn
	s.mu.Unlock()
}

// Flush runs the pending callback if one exists and the frame budget at
// now allows it. It reports whether a callback ran.
func (s *FrameScheduler) Flush(now time.Time) bool {
	s.mu.Lock()
	if s.pending == nil || !s.limiter.AllowN(now, 1) {
		s.mu.Unlock()
		return false
	}
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a callback is waiting for a frame.
func (s *FrameScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// ImmediateScheduler runs callbacks synchronously.
type ImmediateScheduler struct{}

// Schedule calls fn immediately.
func (ImmediateScheduler) Schedule(fn func()) {
	fn()
}

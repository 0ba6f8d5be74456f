// Package gpio reads a pair of scroll buttons with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the scroll button inputs.
type Reader interface {
	// Read returns whether the up and down buttons are held.
	// Returns (upHeld, downHeld, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering).
const (
	DefaultChip    = "gpiochip0"
	DefaultPinUp   = 26
	DefaultPinDown = 16
)

// Direction is a scroll request from a button press.
type Direction int

const (
	None Direction = 0
	Up   Direction = -1
	Down Direction = 1
)

// Edges turns held-button samples into one scroll request per press.
type Edges struct {
	up, down bool
}

// Next returns the direction of a newly pressed button. A button held
// across samples only fires once; if both are newly pressed they cancel.
func (e *Edges) Next(up, down bool) Direction {
	upPressed := up && !e.up
	downPressed := down && !e.down
	e.up, e.down = up, down

	switch {
	case upPressed && !downPressed:
		return Up
	case downPressed && !upPressed:
		return Down
	default:
		return None
	}
}

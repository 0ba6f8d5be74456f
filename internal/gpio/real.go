//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the scroll buttons through the Linux GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	up   *gpiocdev.Line
	down *gpiocdev.Line
}

// NewRealReader requests the two button lines on the named chip.
// Buttons pull their line high when pressed.
func NewRealReader(chipName string, pinUp, pinDown int) (*RealReader, error) {
	if chipName == "" {
		chipName = DefaultChip
	}
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	up, err := chip.RequestLine(pinUp, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request up pin %d: %w", pinUp, err)
	}

	down, err := chip.RequestLine(pinDown, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		up.Close()
		chip.Close()
		return nil, fmt.Errorf("request down pin %d: %w", pinDown, err)
	}

	return &RealReader{chip: chip, up: up, down: down}, nil
}

// Read returns whether each button is held (line active).
func (r *RealReader) Read() (bool, bool, error) {
	upRaw, err := r.up.Value()
	if err != nil {
		return false, false, fmt.Errorf("read up pin: %w", err)
	}
	downRaw, err := r.down.Value()
	if err != nil {
		return false, false, fmt.Errorf("read down pin: %w", err)
	}
	return upRaw == 1, downRaw == 1, nil
}

// Close releases the lines and the chip, collecting every failure.
func (r *RealReader) Close() error {
	var errs []error
	for name, line := range map[string]*gpiocdev.Line{"up": r.up, "down": r.down} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

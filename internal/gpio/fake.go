package gpio

import (
	"errors"
	"fmt"
)

// Sample is one reading of both buttons.
type Sample struct {
	Up   bool
	Down bool
}

// FakeReader replays scripted button samples. After the script runs out
// the final sample repeats, as if the buttons stayed where they were.
type FakeReader struct {
	Samples   []Sample
	ReadError error
	Closed    bool
	Reads     int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// ParseScript builds samples from a compact script, one rune per poll:
// '.' nothing held, 'u' up held, 'd' down held, 'b' both held.
func ParseScript(script string) ([]Sample, error) {
	samples := make([]Sample, 0, len(script))
	for i, r := range script {
		switch r {
		case '.':
			samples = append(samples, Sample{})
		case 'u':
			samples = append(samples, Sample{Up: true})
		case 'd':
			samples = append(samples, Sample{Down: true})
		case 'b':
			samples = append(samples, Sample{Up: true, Down: true})
		default:
			return nil, fmt.Errorf("gpio script: unexpected %q at %d", r, i)
		}
	}
	return samples, nil
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}
	i := f.Reads
	if i >= len(f.Samples) {
		i = len(f.Samples) - 1
	}
	f.Reads++
	s := f.Samples[i]
	return s.Up, s.Down, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

package scroll

// FakeReader is a test double that returns scripted scroll offsets.
type FakeReader struct {
	// Positions contains offsets not yet returned. Each call to ScrollY
	// consumes the next one; once exhausted the last is returned repeatedly.
	Positions []float64

	// Geometry is returned by Metrics.
	Geometry Metrics

	last float64
}

// NewFakeReader creates a FakeReader with the given geometry and positions.
func NewFakeReader(m Metrics, positions ...float64) *FakeReader {
	return &FakeReader{Positions: positions, Geometry: m}
}

// ScrollY returns the next scripted offset. It returns 0 before any
// position has been scripted.
func (f *FakeReader) ScrollY() float64 {
	if len(f.Positions) > 0 {
		f.last = f.Positions[0]
		f.Positions = f.Positions[1:]
	}
	return f.last
}

// Metrics returns the configured geometry.
func (f *FakeReader) Metrics() Metrics {
	return f.Geometry
}

// Push appends offsets to the script.
func (f *FakeReader) Push(positions ...float64) {
	f.Positions = append(f.Positions, positions...)
}

// Package scroll abstracts reading a scroll position and the size of the
// area being scrolled. The pager implements Reader over a tcell screen;
// FakeReader allows testing without a terminal.
package scroll

// Reader reports the current scroll offset and the scroller's geometry.
type Reader interface {
	// ScrollY returns the offset of the top of the viewport.
	ScrollY() float64

	// Metrics returns the viewport and content heights.
	Metrics() Metrics
}

// Metrics describes a scroll container along the scroll axis.
type Metrics struct {
	// Physical is the visible height of the viewport.
	Physical float64
	// Total is the full scrollable height of the content.
	Total float64
}

// OutOfBound reports whether y lies past the top or past the bottom of the
// scrollable area. Readings there come from overscroll and have no
// reliable direction.
func OutOfBound(y float64, m Metrics) bool {
	pastTop := y < 0
	pastBottom := y+m.Physical > m.Total
	return pastTop || pastBottom
}

package scroll

import "testing"

func TestOutOfBound(t *testing.T) {
	m := Metrics{Physical: 20, Total: 100}

	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"top", 0, false},
		{"middle", 40, false},
		{"exactly at bottom", 80, false},
		{"past top", -1, true},
		{"rubber band above", -0.5, true},
		{"past bottom", 80.5, true},
		{"far past bottom", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutOfBound(tt.y, m); got != tt.want {
				t.Errorf("OutOfBound(%v) = %v, want %v", tt.y, got, tt.want)
			}
		})
	}
}

func TestOutOfBoundShortContent(t *testing.T) {
	// Content shorter than the viewport cannot scroll at all.
	m := Metrics{Physical: 50, Total: 10}
	if !OutOfBound(0, m) {
		t.Error("expected any offset to be out of bound when content is shorter than the viewport")
	}
}

func TestFakeReaderScript(t *testing.T) {
	f := NewFakeReader(Metrics{Physical: 10, Total: 100}, 1, 2, 3)

	for i, want := range []float64{1, 2, 3, 3} {
		if got := f.ScrollY(); got != want {
			t.Errorf("read %d: expected %v, got %v", i, want, got)
		}
	}

	f.Push(7)
	if got := f.ScrollY(); got != 7 {
		t.Errorf("after push: expected 7, got %v", got)
	}
	if got := f.Metrics(); got.Physical != 10 || got.Total != 100 {
		t.Errorf("unexpected metrics: %+v", got)
	}
}

func TestFakeReaderEmpty(t *testing.T) {
	f := NewFakeReader(Metrics{})
	if got := f.ScrollY(); got != 0 {
		t.Errorf("expected 0 from empty script, got %v", got)
	}
}

package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestRectInner(t *testing.T) {
	inner := NewRect(2, 3, 22, 12).Inner()
	if inner != NewRect(3, 4, 20, 10) {
		t.Errorf("Inner() = %+v, expected {3 4 20 10}", inner)
	}

	// Degenerate boxes never produce negative sizes
	tiny := NewRect(0, 0, 1, 1).Inner()
	if tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inner() of 1x1 = %+v, expected zero size", tiny)
	}
}

func TestColorDim(t *testing.T) {
	if ColorBrightCyan.Dim() != ColorCyan {
		t.Errorf("BrightCyan.Dim() = %d, expected Cyan", ColorBrightCyan.Dim())
	}
	if ColorOrange.Dim() != ColorDarkGray {
		t.Errorf("Orange.Dim() = %d, expected DarkGray", ColorOrange.Dim())
	}
}

package hub75

import "math"

// Transformer maps logical canvas coordinates onto the physical panel.
type Transformer interface {
	// Size returns the logical size of a physical w x h panel.
	Size(w, h int) (int, int)
	// Transform maps logical (x, y) to physical coordinates.
	Transform(x, y, w, h int) (int, int)
}

type identity struct{}

func (identity) Size(w, h int) (int, int)            { return w, h }
func (identity) Transform(x, y, _, _ int) (int, int) { return x, y }

// RotateTransformer rotates the output clockwise by angle degrees. The angle
// is rounded to a multiple of 90.
type RotateTransformer int

// Size swaps the dimensions for quarter turns.
func (r RotateTransformer) Size(w, h int) (int, int) {
	if r.quarters()%2 == 1 {
		return h, w
	}
	return w, h
}

// Transform maps logical coordinates to physical ones. w and h are the
// physical dimensions.
func (r RotateTransformer) Transform(x, y, w, h int) (int, int) {
	switch r.quarters() {
	case 1:
		return w - 1 - y, x
	case 2:
		return w - 1 - x, h - 1 - y
	case 3:
		return y, h - 1 - x
	default:
		return x, y
	}
}

func (r RotateTransformer) quarters() int {
	q := int(math.Round(float64(r)/90)) % 4
	if q < 0 {
		q += 4
	}
	return q
}

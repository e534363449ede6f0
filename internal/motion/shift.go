// Package motion implements the motion estimator and frame
// shifter: picking an integer (dx, dy) shift of the previous
// reconstructed frame that best predicts the current frame, and
// applying such a shift with edge-replication semantics.
package motion

import "github.com/bitv-codec/bitv"

// Shift applies a signed (dx, dy) pixel shift to src, producing a new
// frame of the same dimensions with edge-replication fill.
//
// Positive dx shifts content right (source columns move toward larger
// x); each vacated left column is a copy of the source's leftmost
// column. Negative dx mirrors this to the left (vacated right columns
// copy the source's rightmost column). dy follows the same rule on
// rows: positive shifts down (vacated top rows copy the source's top
// row), negative shifts up (vacated bottom rows copy the source's
// bottom row).
func Shift(src *bitv.Frame, dx, dy int) *bitv.Frame {
	w, h := int(src.W), int(src.H)
	dst := bitv.NewFrame(src.W, src.H)

	srcX := func(x int) int {
		sx := x - dx
		switch {
		case sx < 0:
			return 0
		case sx >= w:
			return w - 1
		default:
			return sx
		}
	}
	srcY := func(y int) int {
		sy := y - dy
		switch {
		case sy < 0:
			return 0
		case sy >= h:
			return h - 1
		default:
			return sy
		}
	}

	for y := 0; y < h; y++ {
		sy := srcY(y)
		for x := 0; x < w; x++ {
			sx := srcX(x)
			dst.Set(x, y, src.Get(sx, sy))
		}
	}
	return dst
}

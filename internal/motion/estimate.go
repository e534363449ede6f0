package motion

import "github.com/bitv-codec/bitv"

// Mode selects whether the estimator performs a real search or is
// disabled: the shifter and FLIP command are
// fully wired end to end, so MotionSearch is the sensible default, but
// MotionNone is kept as an explicit opt-out.
type Mode int

const (
	// MotionNone always returns (0, 0) without searching.
	MotionNone Mode = iota
	// MotionSearch performs the exhaustive window search.
	MotionSearch
)

// The search window: dx, dy each range over [-16, 16) in steps of 2.
const (
	searchLo   = -16
	searchHi   = 16
	searchStep = 2
)

// Estimator picks a motion vector between a quantized previous frame
// and the current frame.
type Estimator struct {
	Mode Mode
}

// NewEstimator creates an Estimator in the given mode.
func NewEstimator(mode Mode) *Estimator {
	return &Estimator{Mode: mode}
}

// Search returns the (dx, dy) shift of prev that minimizes Hamming
// distance to curr. Ties are broken by the lexicographic
// order of the search loop (y outer, x inner, both ascending from
// -16), i.e. the first minimizer encountered wins.
//
// prev must be the *quantized* previous frame, not a reconstructed
// one: motion estimation runs on the ideal pipeline and its result is
// applied identically by encoder and decoder before diffing.
func (e *Estimator) Search(prev, curr *bitv.Frame) (dx, dy int8) {
	if e.Mode == MotionNone {
		return 0, 0
	}

	bestDx, bestDy := 0, 0
	bestScore := -1
	for y := searchLo; y < searchHi; y += searchStep {
		for x := searchLo; x < searchHi; x += searchStep {
			shifted := Shift(prev, x, y)
			score := hamming(shifted, curr)
			if bestScore < 0 || score < bestScore {
				bestScore = score
				bestDx, bestDy = x, y
			}
		}
	}
	return int8(bestDx), int8(bestDy)
}

// hamming counts differing bits between two same-sized frames.
func hamming(a, b *bitv.Frame) int {
	n := 0
	for i := range a.Bits {
		n += popcount(a.Bits[i] ^ b.Bits[i])
	}
	return n
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

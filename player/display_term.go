// Headless display backend: renders the surface as ASCII art to an
// io.Writer instead of opening a window, for CI and for bitvplay
// -headless, keeping GUI dependencies out of anything that must run
// without a display.
package player

import (
	"fmt"
	"io"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/motion"
)

// TermDisplay renders the surface as rows of '#' (white) and ' '
// (black), one call to Present per completed frame.
type TermDisplay struct {
	w     io.Writer
	frame *bitv.Frame
}

// NewTermDisplay creates a TermDisplay for a width x height surface.
func NewTermDisplay(w io.Writer, width, height uint16) *TermDisplay {
	return &TermDisplay{w: w, frame: bitv.ZeroFrame(width, height)}
}

// DrawTile implements Display.
func (t *TermDisplay) DrawTile(x, y int, bits uint16) error {
	t.frame.SetTilePattern(x, y, bits)
	return nil
}

// Scroll implements Display.
func (t *TermDisplay) Scroll(dx, dy int) error {
	t.frame = motion.Shift(t.frame, dx, dy)
	return nil
}

// Present implements Display, writing the current surface as one frame
// of ASCII art.
func (t *TermDisplay) Present() error {
	w, h := int(t.frame.W), int(t.frame.H)
	for y := 0; y < h; y++ {
		row := make([]byte, w)
		for x := 0; x < w; x++ {
			if t.frame.Get(x, y) {
				row[x] = '#'
			} else {
				row[x] = ' '
			}
		}
		if _, err := fmt.Fprintln(t.w, string(row)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(t.w)
	return err
}

// NoopInput is an Input that never reports a key event, used by
// bitvplay -headless to run a stream start to finish unattended.
type NoopInput struct{}

func (NoopInput) PollPauseToggle() bool { return false }
func (NoopInput) PollStep() bool        { return false }
func (NoopInput) PollClose() bool       { return false }

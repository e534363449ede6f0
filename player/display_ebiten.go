// Ebiten GUI display backend, following IntuitionAmiga-IntuitionEngine's
// EbitenOutput pattern: a frameBuffer kept under a mutex, written from
// DrawTile/Scroll calls and blitted onto an
// *ebiten.Image in Draw, with window-close and key-edge detection
// driven by ebiten.IsWindowBeingClosed and inpututil.IsKeyJustPressed.
package player

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/motion"
)

// EbitenDisplay renders a BitV surface to a real window, each pixel of
// the surface scaled up to a scale x scale block of the window,
// white/black pixels mapped to opaque white/black.
type EbitenDisplay struct {
	mu     sync.RWMutex
	frame  *bitv.Frame
	window *ebiten.Image
	scale  int
}

// NewEbitenDisplay creates a display for a width x height BitV surface,
// each surface pixel drawn as a scale x scale window pixel block.
func NewEbitenDisplay(width, height uint16, scale int) *EbitenDisplay {
	if scale < 1 {
		scale = 1
	}
	return &EbitenDisplay{
		frame: bitv.ZeroFrame(width, height),
		scale: scale,
	}
}

// DrawTile implements Display.
func (e *EbitenDisplay) DrawTile(x, y int, bits uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame.SetTilePattern(x, y, bits)
	return nil
}

// Scroll implements Display, reusing the same edge-replicating shift
// the decoder applies to its own reconstruction surface, so the
// displayed image and the decoder's internal state never diverge.
func (e *EbitenDisplay) Scroll(dx, dy int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame = motion.Shift(e.frame, dx, dy)
	return nil
}

// Present is a no-op here; ebiten pulls the current frame via Draw on
// its own schedule rather than being pushed to.
func (e *EbitenDisplay) Present() error { return nil }

// Start opens the window and runs the ebiten game loop, calling
// update once per tick until it returns ebiten.Termination or an error.
// This blocks, matching ebiten.RunGame's own contract.
func (e *EbitenDisplay) Start(title string, update func() error) error {
	w, h := int(e.frame.W)*e.scale, int(e.frame.H)*e.scale
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(&ebitenGame{display: e, update: update})
}

// ebitenGame adapts EbitenDisplay + a cooperative update callback to
// ebiten.Game's Update/Draw/Layout trio.
type ebitenGame struct {
	display *EbitenDisplay
	update  func() error
}

func (g *ebitenGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if err := g.update(); err != nil {
		return err
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	d := g.display
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.window == nil {
		d.window = ebiten.NewImage(int(d.frame.W), int(d.frame.H))
	}
	pixels := make([]byte, int(d.frame.W)*int(d.frame.H)*4)
	for y := 0; y < int(d.frame.H); y++ {
		for x := 0; x < int(d.frame.W); x++ {
			idx := (y*int(d.frame.W) + x) * 4
			if d.frame.Get(x, y) {
				pixels[idx], pixels[idx+1], pixels[idx+2], pixels[idx+3] = 0xFF, 0xFF, 0xFF, 0xFF
			} else {
				pixels[idx], pixels[idx+1], pixels[idx+2], pixels[idx+3] = 0, 0, 0, 0xFF
			}
		}
	}
	d.window.WritePixels(pixels)
	screen.DrawImage(d.window, nil)
}

func (g *ebitenGame) Layout(_, _ int) (int, int) {
	return int(g.display.frame.W), int(g.display.frame.H)
}

// EbitenInput implements Input against the real keyboard: Right Arrow
// steps one frame while paused, Space toggles pause, and window close
// is reported separately by ebitenGame.Update (ebiten.IsWindowBeingClosed
// is only queryable from inside the game loop), so PollClose here always
// reports false — callers driving the GUI backend should rely on the
// error ebiten.Termination returned from Start instead.
type EbitenInput struct{}

// NewEbitenInput creates an Input backed by inpututil key-edge detection.
func NewEbitenInput() *EbitenInput { return &EbitenInput{} }

func (EbitenInput) PollPauseToggle() bool { return inpututil.IsKeyJustPressed(ebiten.KeySpace) }
func (EbitenInput) PollStep() bool        { return inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) }
func (EbitenInput) PollClose() bool       { return false }

package diffcodec

import (
	"errors"
	"fmt"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/bitio"
	"github.com/bitv-codec/bitv/internal/motion"
	"github.com/bitv-codec/bitv/internal/tileset"
)

// ErrStreamDone is returned by NextFrame once every command has been
// consumed and the final frame has already been handed back.
var ErrStreamDone = errors.New("diffcodec: stream exhausted")

// ErrUnexpectedEOF reports that the bit stream ended before a command
// or its payload could be fully read, a fatal FormatError.
var ErrUnexpectedEOF = errors.New("diffcodec: unexpected end of stream mid-command")

// ErrCursorOutOfRange reports that a MOVE, or the implicit cursor
// advance following a STILE, placed the cursor outside the frame's
// Ws x Hs supertile grid at the moment the next command began to read
// it, a fatal FormatError.
var ErrCursorOutOfRange = errors.New("diffcodec: cursor out of range")

// minCommandBits is the length in bits of the shortest well-formed
// command (MOVE: 2-bit prefix + 5-bit sx + 5-bit sy). Writer.Finish
// zero-pads the final partial byte with at most 7 bits, strictly fewer
// than this, so at a command boundary a run of fewer than
// minCommandBits remaining bits that are all zero can only be that
// trailing pad, never the start of a truncated real command.
const minCommandBits = 12

// Sink receives tile-level drawing events as the decoder walks the
// command stream, for callers (the player) that drive a live display
// surface directly instead of collecting whole Frame snapshots. x, y
// are absolute pixel coordinates of the tile's top-left corner.
type Sink interface {
	DrawTile(x, y int, pattern uint16) error
	Scroll(dx, dy int) error
	Present() error
}

// Decoder drives the command stream's state machine, handing
// back one fully reconstructed frame per call to NextFrame, in the
// generator style of HasNext/NextFrame. It always maintains its own
// reconstruction
// surface; a Sink, if set, is additionally notified of every tile write,
// scroll, and frame boundary so a live Display can stay in lockstep
// without the decoder ever holding a second copy of the surface.
type Decoder struct {
	r      *bitio.Reader
	cfg    bitv.StreamConfig
	dict   *tileset.Dictionary
	recon  *bitv.Frame
	cursor SupertileCoord
	sink   Sink
	done   bool
}

// NewDecoder creates a Decoder reading commands from r. recon starts as
// the all-zero frame, matching the encoder's implicit first diff source.
func NewDecoder(r *bitio.Reader, cfg bitv.StreamConfig, dict *tileset.Dictionary) *Decoder {
	return &Decoder{
		r:     r,
		cfg:   cfg,
		dict:  dict,
		recon: bitv.ZeroFrame(cfg.W, cfg.H),
	}
}

// HasNext reports whether at least one more frame remains to be decoded.
func (d *Decoder) HasNext() bool { return !d.done }

// SetSink attaches a Sink that is notified of every tile write, scroll,
// and Present point as the decoder advances. Pass nil to detach.
func (d *Decoder) SetSink(s Sink) { d.sink = s }

// Reset rewinds the decoder to its initial state over a fresh reader.
func (d *Decoder) Reset(r *bitio.Reader) {
	d.r = r
	d.recon = bitv.ZeroFrame(d.cfg.W, d.cfg.H)
	d.cursor = SupertileCoord{}
	d.done = false
}

// NextFrame runs the cursor walk (EXPECT_CMD/IN_STILE_BODY) until it
// reaches a FLIP or stream exhaustion, then returns the frame that was
// complete at that point: the reconstruction is presented before the
// motion shift carried by FLIP is applied, since the shift produces the
// *next* frame's diff source rather than a displayable frame in its own
// right (see DESIGN.md).
func (d *Decoder) NextFrame() (*bitv.Frame, error) {
	if d.done {
		return nil, ErrStreamDone
	}
	for {
		if d.r.BitsRemaining() < minCommandBits && d.r.TailAllZero() {
			d.done = true
			if d.sink != nil {
				if err := d.sink.Present(); err != nil {
					return nil, err
				}
			}
			return d.recon.Clone(), nil
		}

		first, err := d.r.ReadBits(1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
		}
		if first == 1 {
			if err := d.applyStile(); err != nil {
				return nil, err
			}
			continue
		}

		second, err := d.r.ReadBits(1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
		}
		if second == prefixMove {
			if err := d.applyMove(); err != nil {
				return nil, err
			}
			continue
		}

		frame, err := d.applyFlip()
		if err != nil {
			return nil, err
		}
		return frame, nil
	}
}

// cursorValid reports whether the cursor currently sits inside the
// frame's Ws x Hs supertile grid.
func (d *Decoder) cursorValid() bool {
	ws, hs := d.cfg.SupertileGrid()
	return d.cursor.X >= 0 && d.cursor.X < ws && d.cursor.Y >= 0 && d.cursor.Y < hs
}

func (d *Decoder) applyMove() error {
	sx, err := d.r.ReadBits(5)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	sy, err := d.r.ReadBits(5)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	d.cursor = SupertileCoord{X: int(sx), Y: int(sy)}
	if !d.cursorValid() {
		return fmt.Errorf("%w: MOVE to (%d,%d)", ErrCursorOutOfRange, sx, sy)
	}
	return nil
}

func (d *Decoder) applyFlip() (*bitv.Frame, error) {
	dx, err := d.r.ReadInt8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	dy, err := d.r.ReadInt8()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	if d.sink != nil {
		if err := d.sink.Present(); err != nil {
			return nil, err
		}
	}
	frame := d.recon.Clone()
	d.recon = motion.Shift(d.recon, int(dx), int(dy))
	if d.sink != nil {
		if err := d.sink.Scroll(int(dx), int(dy)); err != nil {
			return nil, err
		}
	}
	d.cursor = SupertileCoord{}
	return frame, nil
}

func (d *Decoder) applyStile() error {
	if !d.cursorValid() {
		return fmt.Errorf("%w: STILE at (%d,%d)", ErrCursorOutOfRange, d.cursor.X, d.cursor.Y)
	}

	adj, err := d.r.ReadBits(2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	mask, err := d.r.ReadBits(16)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}

	sc := d.cursor
	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 4; tx++ {
			bit := uint(ty*4 + tx)
			if mask&(1<<bit) == 0 {
				continue
			}
			pattern, err := d.readChild()
			if err != nil {
				return err
			}
			x0 := sc.X*bitv.SupertileSize + tx*bitv.TileSize
			y0 := sc.Y*bitv.SupertileSize + ty*bitv.TileSize
			d.recon.SetTilePattern(x0, y0, pattern)
			if d.sink != nil {
				if err := d.sink.DrawTile(x0, y0, pattern); err != nil {
					return err
				}
			}
		}
	}
	d.cursor = neighbour(sc, int(adj))
	return nil
}

func (d *Decoder) readChild() (uint16, error) {
	code, err := d.r.ReadBits(2)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	switch code {
	case childUniformWhite:
		return 0xFFFF, nil
	case childUniformBlack:
		return 0x0000, nil
	case childDictionary:
		idx, err := d.r.ReadBits(8)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
		}
		return d.dict.Lookup(uint8(idx)), nil
	default: // childInline
		p, err := d.r.ReadBits(16)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
		}
		return uint16(p), nil
	}
}

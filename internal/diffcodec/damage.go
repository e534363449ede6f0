// Package diffcodec implements the diff encoder and decoder:
// the command stream walking damaged supertiles, and its
// inverse applying commands to a reconstruction surface.
package diffcodec

import "github.com/bitv-codec/bitv"

// SupertileCoord addresses one supertile in the frame's Ws x Hs grid.
type SupertileCoord struct{ X, Y int }

// ChildMask is a 16-bit bitmask over a supertile's 4x4 tile grid,
// indexed tx + 4*ty (bit=1 means that child tile is damaged).
type ChildMask uint16

// Damage is the per-frame damage set: the supertiles containing
// at least one differing pixel, each with its damaged-child subset,
// in first-discovery order (y outer, x inner), matching the order the
// damage scan walks the frame.
type Damage struct {
	order []SupertileCoord
	mask  map[SupertileCoord]ChildMask
}

// Order returns the supertile coordinates in first-discovery order.
func (d *Damage) Order() []SupertileCoord { return d.order }

// Len reports how many supertiles are still damaged (i.e. not yet
// consumed by delete); Order, by contrast, always reflects the original
// discovery order regardless of deletions.
func (d *Damage) Len() int { return len(d.mask) }

// Mask returns the child-tile damage mask for a supertile, and whether
// that supertile is present in the damage set.
func (d *Damage) Mask(c SupertileCoord) (ChildMask, bool) {
	m, ok := d.mask[c]
	return m, ok
}

// delete removes a supertile from the damage set (used by the walk
// algorithm once its STILE command has been emitted/applied).
func (d *Damage) delete(c SupertileCoord) {
	delete(d.mask, c)
}

// Scan computes the damage set between two reconstructed frames (after
// motion compensation has already been applied to prev). It is a pure
// function, safe to run in parallel across frame pairs.
func Scan(prev, curr *bitv.Frame, cfg bitv.StreamConfig) *Damage {
	ws, hs := cfg.SupertileGrid()
	d := &Damage{mask: make(map[SupertileCoord]ChildMask)}

	for sy := 0; sy < hs; sy++ {
		for sx := 0; sx < ws; sx++ {
			var m ChildMask
			for ty := 0; ty < 4; ty++ {
				for tx := 0; tx < 4; tx++ {
					x0 := sx*bitv.SupertileSize + tx*bitv.TileSize
					y0 := sy*bitv.SupertileSize + ty*bitv.TileSize
					if tileDiffers(prev, curr, x0, y0) {
						m |= 1 << uint(ty*4+tx)
					}
				}
			}
			if m != 0 {
				c := SupertileCoord{X: sx, Y: sy}
				d.order = append(d.order, c)
				d.mask[c] = m
			}
		}
	}
	return d
}

func tileDiffers(prev, curr *bitv.Frame, x0, y0 int) bool {
	for y := 0; y < bitv.TileSize; y++ {
		for x := 0; x < bitv.TileSize; x++ {
			if prev.Get(x0+x, y0+y) != curr.Get(x0+x, y0+y) {
				return true
			}
		}
	}
	return false
}

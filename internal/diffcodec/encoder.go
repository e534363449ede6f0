package diffcodec

import (
	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/bitio"
	"github.com/bitv-codec/bitv/internal/tileset"
)

// WriteFlip appends a FLIP command carrying the motion vector for the
// next frame.
func WriteFlip(w *bitio.Writer, dx, dy int8) {
	w.WriteBits(prefixFlip, 2)
	w.WriteBits(uint32(uint8(dx)), 8)
	w.WriteBits(uint32(uint8(dy)), 8)
}

// EncodeDiff walks the damage set between prevRecon and curr (prevRecon
// already motion-compensated) and appends the resulting
// MOVE/STILE commands to w. The cursor starts at (0,0), as at the
// beginning of every frame.
func EncodeDiff(w *bitio.Writer, prevRecon, curr *bitv.Frame, cfg bitv.StreamConfig, dict *tileset.Dictionary) {
	damaged := Scan(prevRecon, curr, cfg)
	cursor := SupertileCoord{0, 0}

	for damaged.Len() > 0 {
		if _, ok := damaged.Mask(cursor); !ok {
			next, ok := firstRemaining(damaged)
			if !ok {
				break
			}
			writeMove(w, next)
			cursor = next
		}

		mask, _ := damaged.Mask(cursor)
		damaged.delete(cursor)

		adj := defaultAdjacency(damaged, cursor)
		writeStile(w, curr, cfg, cursor, mask, adj, dict)
		cursor = neighbour(cursor, adj)
	}
}

// firstRemaining returns the earliest-inserted supertile coordinate
// still present in the damage set: an arbitrary but deterministic
// choice for where the cursor resumes after exhausting adjacency.
func firstRemaining(d *Damage) (SupertileCoord, bool) {
	for _, c := range d.order {
		if _, ok := d.mask[c]; ok {
			return c, true
		}
	}
	return SupertileCoord{}, false
}

// defaultAdjacency picks the first neighbour (in +x,-x,+y,-y priority)
// still present in the damage set, or AdjMinusY if none are.
func defaultAdjacency(d *Damage, cursor SupertileCoord) int {
	for _, adj := range adjacencyPriority {
		if _, ok := d.mask[neighbour(cursor, adj)]; ok {
			return adj
		}
	}
	return AdjMinusY
}

func writeMove(w *bitio.Writer, c SupertileCoord) {
	w.WriteBits(prefixMove, 2)
	w.WriteBits(uint32(c.X), 5)
	w.WriteBits(uint32(c.Y), 5)
}

func writeStile(w *bitio.Writer, curr *bitv.Frame, cfg bitv.StreamConfig, sc SupertileCoord, mask ChildMask, adj int, dict *tileset.Dictionary) {
	w.WriteBits(prefixStile, 1)
	w.WriteBits(uint32(adj), 2)
	w.WriteBits(uint32(mask), 16)

	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 4; tx++ {
			bit := uint(ty*4 + tx)
			if mask&(1<<bit) == 0 {
				continue
			}
			x0 := sc.X*bitv.SupertileSize + tx*bitv.TileSize
			y0 := sc.Y*bitv.SupertileSize + ty*bitv.TileSize
			pattern := curr.TilePattern(x0, y0)
			writeChild(w, pattern, dict)
		}
	}
}

func writeChild(w *bitio.Writer, pattern uint16, dict *tileset.Dictionary) {
	switch {
	case bitv.IsUniformWhite(pattern):
		w.WriteBits(childUniformWhite, 2)
	case bitv.IsUniformBlack(pattern):
		w.WriteBits(childUniformBlack, 2)
	default:
		if idx, ok := dict.IndexOf(pattern); ok {
			w.WriteBits(childDictionary, 2)
			w.WriteBits(uint32(idx), 8)
		} else {
			w.WriteBits(childInline, 2)
			w.WriteBits(uint32(pattern), 16)
		}
	}
}

// Package tileset implements the tile-set (dictionary) builder:
// a two-pass scan over every frame diff in the stream that chooses the
// 256 most frequent non-uniform 4x4 tile patterns.
//
// Frequency counting uses a dense 65536-entry array rather than a map,
// the same fixed-size-count-array-over-map idiom as a per-symbol
// Huffman histogram (e.g. Histogram.Red/Blue/Alpha
// [NumLiteralCodes]uint32).
package tileset

import (
	"sort"

	"github.com/bitv-codec/bitv"
)

// BenignPattern fills unused dictionary slots: an arbitrary
// non-meaningful but well-formed tile pattern (vertical stripes:
// columns 1 and 3 set in every row).
const BenignPattern uint16 = 0xAAAA

// Builder accumulates per-tile frequencies across every frame diff in
// the stream, then produces a stable 256-entry dictionary.
type Builder struct {
	freq      [1 << 16]uint32
	firstSeen [1 << 16]int
	seen      [1 << 16]bool
	order     int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Observe records one occurrence of a damaged tile's pattern,
// materialised from dst. Uniform tiles are skipped;
// they never occupy a dictionary slot.
func (b *Builder) Observe(pattern uint16) {
	if bitv.IsUniform(pattern) {
		return
	}
	if !b.seen[pattern] {
		b.seen[pattern] = true
		b.firstSeen[pattern] = b.order
		b.order++
	}
	b.freq[pattern]++
}

// tileCount is one candidate dictionary entry during sorting.
type tileCount struct {
	pattern uint16
	count   uint32
	first   int
}

// Build sorts observed patterns by descending frequency, breaking ties
// by first-occurrence order, and returns the top 256 (or
// fewer, if fewer than 256 distinct non-uniform patterns were
// observed) as a Dictionary.
func (b *Builder) Build() *Dictionary {
	var candidates []tileCount
	for p := 0; p < 1<<16; p++ {
		if b.seen[p] {
			candidates = append(candidates, tileCount{
				pattern: uint16(p),
				count:   b.freq[p],
				first:   b.firstSeen[p],
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].first < candidates[j].first
	})
	if len(candidates) > bitv.TileTableSize {
		candidates = candidates[:bitv.TileTableSize]
	}

	d := &Dictionary{
		entries: make([]uint16, bitv.TileTableSize),
		index:   make(map[uint16]int, len(candidates)),
	}
	for i := range d.entries {
		d.entries[i] = BenignPattern
	}
	for i, c := range candidates {
		d.entries[i] = c.pattern
		d.index[c.pattern] = i
	}
	return d
}

// Dictionary is the stream-global tile-set: a stable ordered mapping
// between dictionary codes (0..255) and tile patterns.
type Dictionary struct {
	entries []uint16 // always length TileTableSize
	index   map[uint16]int
}

// NewDictionaryFromEntries builds a Dictionary from the raw 256-entry
// table as read from a container's tile table, without
// recomputing frequencies — used by the decoder.
func NewDictionaryFromEntries(entries []uint16) *Dictionary {
	d := &Dictionary{
		entries: append([]uint16(nil), entries...),
		index:   make(map[uint16]int, len(entries)),
	}
	for i, p := range d.entries {
		if !bitv.IsUniform(p) {
			// Only the first occurrence maps to an index; a
			// well-formed encoder never emits duplicate or uniform
			// entries, but decoding must still be total.
			if _, ok := d.index[p]; !ok {
				d.index[p] = i
			}
		}
	}
	return d
}

// Entries returns the raw 256-entry table, suitable for container
// serialization.
func (d *Dictionary) Entries() []uint16 { return d.entries }

// Lookup returns the pattern at dictionary code idx (0..255).
func (d *Dictionary) Lookup(idx uint8) uint16 { return d.entries[idx] }

// IndexOf returns the dictionary code for pattern, if present.
func (d *Dictionary) IndexOf(pattern uint16) (uint8, bool) {
	i, ok := d.index[pattern]
	return uint8(i), ok
}

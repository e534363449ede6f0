package tileset

import (
	"testing"

	"github.com/bitv-codec/bitv"
)

func TestObserveSkipsUniform(t *testing.T) {
	b := NewBuilder()
	b.Observe(0x0000)
	b.Observe(0xFFFF)
	d := b.Build()
	for _, e := range d.Entries() {
		if e != BenignPattern {
			t.Fatalf("expected all-benign dictionary, found %04x", e)
		}
	}
}

func TestBuildOrdersByFrequencyThenFirstSeen(t *testing.T) {
	b := NewBuilder()
	// 0x1234 occurs 3 times, 0x5678 occurs 3 times but seen later,
	// 0x9ABC occurs once.
	b.Observe(0x1234)
	b.Observe(0x5678)
	b.Observe(0x1234)
	b.Observe(0x5678)
	b.Observe(0x1234)
	b.Observe(0x5678)
	b.Observe(0x9ABC)

	d := b.Build()
	if d.Entries()[0] != 0x1234 {
		t.Fatalf("entry 0 = %04x, want 0x1234 (tie broken by first-occurrence)", d.Entries()[0])
	}
	if d.Entries()[1] != 0x5678 {
		t.Fatalf("entry 1 = %04x, want 0x5678", d.Entries()[1])
	}
	if d.Entries()[2] != 0x9ABC {
		t.Fatalf("entry 2 = %04x, want 0x9ABC", d.Entries()[2])
	}
	if idx, ok := d.IndexOf(0x1234); !ok || idx != 0 {
		t.Fatalf("IndexOf(0x1234) = (%d,%v), want (0,true)", idx, ok)
	}
}

func TestBuildIsStableAcrossRuns(t *testing.T) {
	patterns := []uint16{0x0001, 0x0002, 0x0001, 0x0003, 0x0002, 0x0001}
	build := func() *Dictionary {
		b := NewBuilder()
		for _, p := range patterns {
			b.Observe(p)
		}
		return b.Build()
	}
	d1 := build()
	d2 := build()
	for i := range d1.Entries() {
		if d1.Entries()[i] != d2.Entries()[i] {
			t.Fatalf("entry %d differs across runs: %04x vs %04x", i, d1.Entries()[i], d2.Entries()[i])
		}
	}
}

func TestBuildCapsAt256(t *testing.T) {
	b := NewBuilder()
	for p := 1; p <= 300; p++ {
		if bitv.IsUniform(uint16(p)) {
			continue
		}
		b.Observe(uint16(p))
	}
	d := b.Build()
	if len(d.Entries()) != bitv.TileTableSize {
		t.Fatalf("len(Entries()) = %d, want %d", len(d.Entries()), bitv.TileTableSize)
	}
	// With all frequencies equal (1), ties break by first-occurrence,
	// so the first 256 distinct patterns observed should all appear.
	for p := 1; p <= 256; p++ {
		if _, ok := d.IndexOf(uint16(p)); !ok {
			t.Fatalf("expected pattern %04x in dictionary", p)
		}
	}
	for p := 257; p <= 300; p++ {
		if _, ok := d.IndexOf(uint16(p)); ok {
			t.Fatalf("pattern %04x should not fit in a 256-entry dictionary", p)
		}
	}
}

func TestDictionaryFromEntriesRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.Observe(0x1111)
	b.Observe(0x2222)
	orig := b.Build()

	reloaded := NewDictionaryFromEntries(orig.Entries())
	for i, p := range orig.Entries() {
		if reloaded.Lookup(uint8(i)) != p {
			t.Fatalf("entry %d mismatch after reload: %04x vs %04x", i, reloaded.Lookup(uint8(i)), p)
		}
	}
	idx, ok := reloaded.IndexOf(0x1111)
	if !ok || idx != 0 {
		t.Fatalf("IndexOf(0x1111) after reload = (%d,%v), want (0,true)", idx, ok)
	}
}

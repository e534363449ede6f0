package container

import (
	"bytes"
	"testing"

	"github.com/bitv-codec/bitv"
)

func TestHeaderRoundTrip(t *testing.T) {
	cfg, err := bitv.NewStreamConfig(32, 16, 12)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, Header{Config: cfg}); err != nil {
		t.Fatal(err)
	}
	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Config != cfg {
		t.Fatalf("got %+v, want %+v", got.Config, cfg)
	}
}

func TestReadHeaderBadMagic(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, headerSize))
	if _, err := ReadHeader(buf); err == nil {
		t.Fatal("expected error for zeroed magic")
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	buf := bytes.NewBuffer(Magic[:])
	if _, err := ReadHeader(buf); err == nil {
		t.Fatal("expected truncated-header error")
	}
}

func TestTileTableRoundTrip(t *testing.T) {
	entries := make([]uint16, bitv.TileTableSize)
	for i := range entries {
		entries[i] = uint16(i * 7)
	}
	var buf bytes.Buffer
	if err := WriteTileTable(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != tileTableSize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), tileTableSize)
	}
	got, err := ReadTileTable(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Fatalf("entry %d = %d, want %d", i, got[i], entries[i])
		}
	}
}

func TestWriteTileTableWrongLength(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTileTable(&buf, make([]uint16, 10)); err == nil {
		t.Fatal("expected error for wrong-length tile table")
	}
}

func TestReadTileTableTruncated(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 10))
	if _, err := ReadTileTable(buf); err == nil {
		t.Fatal("expected truncated tile table error")
	}
}

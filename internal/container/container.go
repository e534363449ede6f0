// Package container implements the BitV file layout: a 6-byte
// magic, a 6-byte header (W, H, framerate as little-endian uint16s), a
// fixed 512-byte tile table (256 little-endian uint16 entries), and a
// bit-packed command payload for the remainder of the file.
//
// The sentinel-error style (a flat var block of errors.New values,
// wrapped with fmt.Errorf for context at call sites) follows the
// RIFF-container convention of naming each validation failure.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bitv-codec/bitv"
)

// Magic is the fixed 6-byte file signature.
var Magic = [6]byte{'B', 'i', 't', 'V', 0, 0}

const (
	headerSize    = 6 + 6 // magic + (W,H,framerate)
	tileTableSize = bitv.TileTableSize * 2
	// PreludeSize is the number of bytes preceding the bit-packed
	// payload: magic, header fields, and the tile table.
	PreludeSize = headerSize + tileTableSize
)

// Sentinel errors making up the FormatError taxonomy for container-level
// validation.
var (
	ErrBadMagic           = errors.New("bitv: bad magic")
	ErrTruncatedHeader    = errors.New("bitv: truncated header")
	ErrTruncatedTileTable = errors.New("bitv: truncated tile table")
)

// Header holds the fixed-size file header.
type Header struct {
	Config bitv.StreamConfig
}

// WriteHeader writes the magic and header fields (but not the tile
// table or payload) to w.
func WriteHeader(w io.Writer, h Header) error {
	buf := make([]byte, headerSize)
	copy(buf[0:6], Magic[:])
	binary.LittleEndian.PutUint16(buf[6:8], h.Config.W)
	binary.LittleEndian.PutUint16(buf[8:10], h.Config.H)
	binary.LittleEndian.PutUint16(buf[10:12], h.Config.Framerate)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates the magic and header fields from r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Header{}, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
		}
		return Header{}, err
	}
	if string(buf[0:6]) != string(Magic[:]) {
		return Header{}, fmt.Errorf("%w: got %x", ErrBadMagic, buf[0:6])
	}
	w := binary.LittleEndian.Uint16(buf[6:8])
	h := binary.LittleEndian.Uint16(buf[8:10])
	framerate := binary.LittleEndian.Uint16(buf[10:12])
	cfg, err := bitv.NewStreamConfig(w, h, framerate)
	if err != nil {
		return Header{}, err
	}
	return Header{Config: cfg}, nil
}

// WriteTileTable writes the fixed 256-entry tile table,
// one little-endian uint16 per entry. entries must have length
// bitv.TileTableSize.
func WriteTileTable(w io.Writer, entries []uint16) error {
	if len(entries) != bitv.TileTableSize {
		return fmt.Errorf("bitv: tile table must have %d entries, got %d", bitv.TileTableSize, len(entries))
	}
	buf := make([]byte, tileTableSize)
	for i, e := range entries {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], e)
	}
	_, err := w.Write(buf)
	return err
}

// ReadTileTable reads the fixed 256-entry tile table.
func ReadTileTable(r io.Reader) ([]uint16, error) {
	buf := make([]byte, tileTableSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedTileTable, err)
	}
	entries := make([]uint16, bitv.TileTableSize)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint16(buf[i*2 : i*2+2])
	}
	return entries, nil
}

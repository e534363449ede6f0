package bitv

import (
	"fmt"
	"io"

	"github.com/bitv-codec/bitv/internal/bitio"
	"github.com/bitv-codec/bitv/internal/container"
	"github.com/bitv-codec/bitv/internal/diffcodec"
	"github.com/bitv-codec/bitv/internal/tileset"
)

// Decoder reads a .bitv stream and produces one fully-reconstructed
// Frame per call to NextFrame, in an AnimDecoder-style generator
// shape (HasNext/NextFrame).
type Decoder struct {
	Config StreamConfig
	dict   *tileset.Dictionary
	core   *diffcodec.Decoder
}

// NewDecoder reads the container header and tile table from src, then
// returns a Decoder ready to stream frames from the remaining payload.
// src must not be read from again afterwards; the payload is read into
// memory in full since the bitio.Reader operates on a byte slice.
func NewDecoder(src io.Reader) (*Decoder, error) {
	hdr, err := container.ReadHeader(src)
	if err != nil {
		return nil, err
	}
	entries, err := container.ReadTileTable(src)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("bitv: reading payload: %w", err)
	}

	dict := tileset.NewDictionaryFromEntries(entries)
	return &Decoder{
		Config: hdr.Config,
		dict:   dict,
		core:   diffcodec.NewDecoder(bitio.NewReader(payload), hdr.Config, dict),
	}, nil
}

// HasNext reports whether at least one more frame remains.
func (d *Decoder) HasNext() bool { return d.core.HasNext() }

// NextFrame returns the next fully reconstructed frame.
func (d *Decoder) NextFrame() (*Frame, error) {
	return d.core.NextFrame()
}

// DecodeAll drains the decoder into a slice, for callers that want the
// whole sequence rather than streaming it (e.g. tests).
func DecodeAll(src io.Reader) (StreamConfig, []*Frame, error) {
	dec, err := NewDecoder(src)
	if err != nil {
		return StreamConfig{}, nil, err
	}
	var frames []*Frame
	for dec.HasNext() {
		f, err := dec.NextFrame()
		if err != nil {
			return StreamConfig{}, nil, err
		}
		frames = append(frames, f)
	}
	return dec.Config, frames, nil
}

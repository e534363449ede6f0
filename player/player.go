// Package player implements the cooperative, single-threaded BitV
// player: FLIP is the sole suspension point, so advancing by one
// frame is always an atomic unit of work regardless of which Display
// backend is driving the surface.
package player

import (
	"io"
	"time"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/bitio"
	"github.com/bitv-codec/bitv/internal/container"
	"github.com/bitv-codec/bitv/internal/diffcodec"
	"github.com/bitv-codec/bitv/internal/tileset"
)

// Display receives tile-level drawing events as the player advances.
// Its method set is identical to diffcodec.Sink by construction, so any
// Display value is itself a valid diffcodec.Sink.
type Display interface {
	DrawTile(x, y int, bits uint16) error
	Scroll(dx, dy int) error
	Present() error
}

// Clock paces playback; Tick fires once per frame interval.
type Clock interface {
	Tick() <-chan time.Time
}

// Input reports edge-triggered key state: each Poll* call should return
// true at most once per physical key press, matching
// inpututil.IsKeyJustPressed's semantics.
type Input interface {
	PollPauseToggle() bool
	PollStep() bool
	PollClose() bool
}

// Player drives a single decoded stream against a Display, pacing
// against a Clock and reading transport commands from an Input.
type Player struct {
	Config  bitv.StreamConfig
	core    *diffcodec.Decoder
	display Display
	clock   Clock
	input   Input
	paused  bool
	closed  bool
}

// New reads the container header and tile table from src, attaches
// display as the decoder's sink, and returns a Player ready to run.
func New(src io.Reader, display Display, clock Clock, input Input) (*Player, error) {
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
		return nil, err
	}

	dict := tileset.NewDictionaryFromEntries(entries)
	core := diffcodec.NewDecoder(bitio.NewReader(payload), hdr.Config, dict)
	core.SetSink(display)

	return &Player{
		Config:  hdr.Config,
		core:    core,
		display: display,
		clock:   clock,
		input:   input,
	}, nil
}

// Paused reports whether playback is currently paused.
func (p *Player) Paused() bool { return p.paused }

// Closed reports whether the player has been asked to exit, either via
// Input.PollClose or stream exhaustion.
func (p *Player) Closed() bool { return p.closed }

// Update runs one iteration of the cooperative loop: polls Input, and
// advances exactly one frame if playback is unpaused and the clock has
// ticked, or if playback is paused and a step was requested. It never
// blocks, which is what lets player/display_ebiten.go call it once per
// ebiten.Game.Update invocation.
func (p *Player) Update() error {
	if p.closed || !p.core.HasNext() {
		p.closed = true
		return nil
	}
	if p.input.PollClose() {
		p.closed = true
		return nil
	}
	if p.input.PollPauseToggle() {
		p.paused = !p.paused
	}

	advance := false
	if p.paused {
		advance = p.input.PollStep()
	} else {
		select {
		case <-p.clock.Tick():
			advance = true
		default:
		}
	}
	if !advance {
		return nil
	}

	if _, err := p.core.NextFrame(); err != nil {
		return err
	}
	if !p.core.HasNext() {
		p.closed = true
	}
	return nil
}

// Run blocks, advancing one frame per Clock tick (or per step request
// while paused), until the player closes (via PollClose or stream
// exhaustion) or decoding returns an error. Intended for the headless/CI display backend, where no
// external game loop drives Update.
func (p *Player) Run() error {
	for !p.closed {
		if p.paused {
			if p.input.PollClose() {
				return nil
			}
			if p.input.PollPauseToggle() {
				p.paused = !p.paused
			}
			if p.input.PollStep() {
				if err := p.stepOnce(); err != nil {
					return err
				}
			}
			continue
		}
		<-p.clock.Tick()
		if p.input.PollClose() {
			return nil
		}
		if p.input.PollPauseToggle() {
			p.paused = !p.paused
			continue
		}
		if err := p.stepOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) stepOnce() error {
	if !p.core.HasNext() {
		p.closed = true
		return nil
	}
	if _, err := p.core.NextFrame(); err != nil {
		return err
	}
	if !p.core.HasNext() {
		p.closed = true
	}
	return nil
}

package player

import (
	"bytes"
	"testing"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/motion"
)

// scriptedInput lets a test drive pause/step/close deterministically.
type scriptedInput struct {
	pauseToggle []bool
	step        []bool
	close       []bool
	i           int
}

func (s *scriptedInput) at(script []bool) bool {
	if s.i < len(script) {
		return script[s.i]
	}
	return false
}

func (s *scriptedInput) PollPauseToggle() bool { return s.at(s.pauseToggle) }
func (s *scriptedInput) PollStep() bool        { return s.at(s.step) }
func (s *scriptedInput) PollClose() bool       { return s.at(s.close) }

func rasterFor(t *testing.T, w, h int, fill uint8) []uint8 {
	t.Helper()
	out := make([]uint8, w*h)
	for i := range out {
		out[i] = fill
	}
	return out
}

func buildStream(t *testing.T, w, h int, frames int) []byte {
	t.Helper()
	rasters := make([][]uint8, frames)
	for i := range rasters {
		fill := uint8(0)
		if i%2 == 1 {
			fill = 255
		}
		rasters[i] = rasterFor(t, w, h, fill)
	}
	enc := bitv.NewEncoder(motion.MotionNone)
	var buf bytes.Buffer
	if err := enc.EncodeSequence(&buf, w, h, rasters, 12, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPlayerAdvancesOnClockTick(t *testing.T) {
	stream := buildStream(t, 16, 16, 3)
	var out bytes.Buffer
	display := NewTermDisplay(&out, 16, 16)
	clock := NewManualClock()
	input := &scriptedInput{}

	p, err := New(bytes.NewReader(stream), display, clock, input)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3 && !p.Closed(); i++ {
		clock.Fire()
		if err := p.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !p.Closed() {
		t.Fatal("expected player to close after exhausting a 3-frame stream")
	}
}

func TestPlayerPauseBlocksClockAdvance(t *testing.T) {
	stream := buildStream(t, 16, 16, 2)
	var out bytes.Buffer
	display := NewTermDisplay(&out, 16, 16)
	clock := NewManualClock()
	input := &scriptedInput{pauseToggle: []bool{true}}

	p, err := New(bytes.NewReader(stream), display, clock, input)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Update(); err != nil { // toggles pause, no advance
		t.Fatal(err)
	}
	if !p.Paused() {
		t.Fatal("expected player to be paused")
	}

	clock.Fire()
	input.i++
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	if p.Closed() {
		t.Fatal("a clock tick while paused must not advance the stream")
	}
}

func TestPlayerStepAdvancesOnePausedFrame(t *testing.T) {
	stream := buildStream(t, 16, 16, 1)
	var out bytes.Buffer
	display := NewTermDisplay(&out, 16, 16)
	clock := NewManualClock()
	input := &scriptedInput{
		pauseToggle: []bool{true, false},
		step:        []bool{false, true},
	}

	p, err := New(bytes.NewReader(stream), display, clock, input)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Update(); err != nil { // i=0: toggles pause
		t.Fatal(err)
	}
	input.i++
	if err := p.Update(); err != nil { // i=1: steps the stream's only frame
		t.Fatal(err)
	}
	if !p.Closed() {
		t.Fatal("stepping through the final frame of a 1-frame stream should close the player")
	}
}

func TestPlayerRunHeadless(t *testing.T) {
	stream := buildStream(t, 16, 16, 2)
	var out bytes.Buffer
	display := NewTermDisplay(&out, 16, 16)
	clock := NewManualClock()

	p, err := New(bytes.NewReader(stream), display, clock, NoopInput{})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Run() }()
	clock.Fire()
	clock.Fire()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if out.Len() == 0 {
		t.Fatal("expected headless display to render at least one frame")
	}
}

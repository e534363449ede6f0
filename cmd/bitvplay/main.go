// Command bitvplay plays back a .bitv stream.
//
// Usage:
//
//	bitvplay [-headless] <input.bitv>
//
// With a window (the default), Right Arrow steps one frame while
// paused, Space toggles pause, and closing the window exits. With
// -headless, the stream plays start to finish unattended, rendering
// each frame as ASCII art to stdout — useful in CI, where no display is
// available.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bitv-codec/bitv/internal/container"
	"github.com/bitv-codec/bitv/player"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bitvplay: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bitvplay", flag.ContinueOnError)
	headless := fs.Bool("headless", false, "render to stdout as ASCII instead of opening a window")
	scale := fs.Int("scale", 4, "window pixels per surface pixel (GUI mode only)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bitvplay [-headless] <input.bitv>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one input file")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening %s: %w", fs.Arg(0), err)
	}
	defer f.Close()

	if *headless {
		return playHeadless(f)
	}
	return playGUI(f, *scale)
}

func playHeadless(f *os.File) error {
	hdr, err := container.ReadHeader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	display := player.NewTermDisplay(os.Stdout, hdr.Config.W, hdr.Config.H)
	clock := player.NewRealClock(hdr.Config.Framerate)
	p, err := player.New(f, display, clock, player.NoopInput{})
	if err != nil {
		return err
	}
	return p.Run()
}

func playGUI(f *os.File, scale int) error {
	hdr, err := container.ReadHeader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	display := player.NewEbitenDisplay(hdr.Config.W, hdr.Config.H, scale)
	clock := player.NewRealClock(hdr.Config.Framerate)
	input := player.NewEbitenInput()
	p, err := player.New(f, display, clock, input)
	if err != nil {
		return err
	}

	err = display.Start(fmt.Sprintf("bitvplay: %s", f.Name()), p.Update)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

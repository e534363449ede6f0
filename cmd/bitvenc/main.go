// Command bitvenc encodes an ordered sequence of images into a .bitv
// stream.
//
// Usage:
//
//	bitvenc [options] <frame1> <frame2> ... <frameN>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/imageio"
	"github.com/bitv-codec/bitv/internal/motion"
	"github.com/bitv-codec/bitv/internal/progress"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bitvenc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bitvenc", flag.ContinueOnError)
	output := fs.String("o", "out.bitv", "output path")
	framerate := fs.Int("fps", 12, "playback framerate")
	noMotion := fs.Bool("no-motion", false, "disable motion estimation")
	quiet := fs.Bool("q", false, "suppress progress output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bitvenc [options] <frame1> <frame2> ... <frameN>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing input frames")
	}

	w, h, rasters, err := imageio.LoadSequence(fs.Args())
	if err != nil {
		return fmt.Errorf("loading frames: %w", err)
	}

	mode := motion.MotionSearch
	if *noMotion {
		mode = motion.MotionNone
	}
	enc := bitv.NewEncoder(mode)

	out, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *output, err)
	}

	var report bitv.ProgressFunc
	if !*quiet {
		bar := progress.New(os.Stderr, "encode", len(rasters))
		report = func(done, total int) { bar.Update(done) }
		defer bar.Done()
	}

	if err := enc.EncodeSequence(out, w, h, rasters, uint16(*framerate), report); err != nil {
		out.Close()
		os.Remove(*output)
		return fmt.Errorf("encoding: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(*output)
		return err
	}

	fi, _ := os.Stat(*output)
	fmt.Fprintf(os.Stderr, "Encoded %d frames (%dx%d) -> %s (%d bytes)\n", len(rasters), w, h, *output, fi.Size())
	return nil
}

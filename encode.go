package bitv

import (
	"fmt"
	"io"

	"github.com/bitv-codec/bitv/internal/bitio"
	"github.com/bitv-codec/bitv/internal/container"
	"github.com/bitv-codec/bitv/internal/diffcodec"
	"github.com/bitv-codec/bitv/internal/motion"
	"github.com/bitv-codec/bitv/internal/quantize"
	"github.com/bitv-codec/bitv/internal/tileset"
	"github.com/bitv-codec/bitv/internal/workerpool"
)

// ProgressFunc reports (done, total) units of work completed; either
// pipeline stage may call it multiple times. EncodeSequence accepts a nil
// ProgressFunc.
type ProgressFunc func(done, total int)

// Encoder drives the full pipeline: quantize, motion-estimate,
// build the tile-set dictionary, diff-encode, and write the container.
// It holds no per-sequence state.
type Encoder struct {
	MotionMode motion.Mode
}

// NewEncoder creates an Encoder with the given motion mode. Callers
// wanting to disable motion compensation pass motion.MotionNone
// explicitly; motion.MotionSearch is the recommended default.
func NewEncoder(mode motion.Mode) *Encoder {
	return &Encoder{MotionMode: mode}
}

// vector is one frame-to-frame motion estimate.
type vector struct{ dx, dy int8 }

// EncodeSequence runs the whole pipeline over an ordered list of
// luminance rasters (all w*h, row-major) and writes a complete .bitv
// file to dst.
func (e *Encoder) EncodeSequence(dst io.Writer, w, h int, rasters [][]uint8, framerate uint16, progress ProgressFunc) error {
	if len(rasters) == 0 {
		return ErrNoFrames
	}
	cfg, err := NewStreamConfig(uint16(w), uint16(h), framerate)
	if err != nil {
		return err
	}

	report := func(done, total int) {
		if progress != nil {
			progress(done, total)
		}
	}

	// Pass 1: dither-quantize every raster in parallel; each
	// raster is independent of its neighbours.
	quantized, err := workerpool.Map(rasters, func(lum []uint8) (*Frame, error) {
		bits := quantize.Raster(w, h, lum)
		return &Frame{W: cfg.W, H: cfg.H, Bits: bits}, nil
	})
	if err != nil {
		return fmt.Errorf("bitv: quantizing: %w", err)
	}
	report(len(quantized), len(quantized))

	// Pass 2: motion-estimate every consecutive pair in parallel;
	// each pair only reads two already-quantized frames.
	estimator := motion.NewEstimator(e.MotionMode)
	var vectors []vector
	if len(quantized) > 1 {
		pairIdx := make([]int, len(quantized)-1)
		for i := range pairIdx {
			pairIdx[i] = i
		}
		vectors, err = workerpool.Map(pairIdx, func(i int) (vector, error) {
			dx, dy := estimator.Search(quantized[i], quantized[i+1])
			return vector{dx: dx, dy: dy}, nil
		})
		if err != nil {
			return fmt.Errorf("bitv: motion estimation: %w", err)
		}
	}
	report(len(vectors), len(vectors))

	// Compute each frame's motion-compensated diff source; cheap pointer
	// and arithmetic wiring, done sequentially.
	sources := make([]*Frame, len(quantized))
	sources[0] = ZeroFrame(cfg.W, cfg.H)
	for i := 1; i < len(quantized); i++ {
		v := vectors[i-1]
		sources[i] = motion.Shift(quantized[i-1], int(v.dx), int(v.dy))
	}

	// Pass 3: scan every (src,dst) pair for its damage set in parallel;
	// each frame's damage scan is independent of the others.
	frameIdx := make([]int, len(quantized))
	for i := range frameIdx {
		frameIdx[i] = i
	}
	diffs, err := workerpool.Map(frameIdx, func(i int) (*diffcodec.Damage, error) {
		return diffcodec.Scan(sources[i], quantized[i], cfg), nil
	})
	if err != nil {
		return fmt.Errorf("bitv: damage scan: %w", err)
	}
	report(len(diffs), len(diffs))

	// Pass 3b: merge per-frame tile observations into one global
	// frequency table; Builder is not safe for
	// concurrent Observe, so this runs sequentially over the
	// already-parallel-computed diffs.
	builder := tileset.NewBuilder()
	for i, d := range diffs {
		for _, c := range d.Order() {
			mask, _ := d.Mask(c)
			for ty := 0; ty < 4; ty++ {
				for tx := 0; tx < 4; tx++ {
					if mask&(1<<uint(ty*4+tx)) == 0 {
						continue
					}
					x0 := c.X*SupertileSize + tx*TileSize
					y0 := c.Y*SupertileSize + ty*TileSize
					builder.Observe(quantized[i].TilePattern(x0, y0))
				}
			}
		}
	}
	dict := builder.Build()

	// Pass 4: emit the command stream. The cursor and FLIP state are
	// inherently sequential, so this pass is not parallelized.
	bw := bitio.NewWriter(1024 * len(quantized))
	for i, f := range quantized {
		diffcodec.EncodeDiff(bw, sources[i], f, cfg, dict)
		if i < len(quantized)-1 {
			v := vectors[i]
			diffcodec.WriteFlip(bw, v.dx, v.dy)
		}
		report(i+1, len(quantized))
	}
	payload := bw.Finish()

	if err := container.WriteHeader(dst, container.Header{Config: cfg}); err != nil {
		return fmt.Errorf("bitv: writing header: %w", err)
	}
	if err := container.WriteTileTable(dst, dict.Entries()); err != nil {
		return fmt.Errorf("bitv: writing tile table: %w", err)
	}
	if _, err := dst.Write(payload); err != nil {
		return fmt.Errorf("bitv: writing payload: %w", err)
	}
	return nil
}


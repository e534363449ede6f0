// Package imageio loads a source image into an 8-bit luminance raster,
// the shape internal/quantize.Raster expects: open file → image.Decode
// → walk image.Image.At, registering the stdlib codecs (PNG, GIF,
// JPEG) and adding golang.org/x/image's BMP decoder for broader
// format coverage.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"

	"github.com/bitv-codec/bitv"
	"github.com/bitv-codec/bitv/internal/quantize"
)

// Load decodes the image at path and returns its dimensions and an 8-bit
// luminance raster in row-major order, ready for quantize.Raster.
func Load(path string) (w, h int, luminance []uint8, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", bitv.ErrUnreadableImage, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %s: %v", bitv.ErrUnreadableImage, path, err)
	}

	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	luminance = make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			luminance[row+x] = quantize.Luminance(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return w, h, luminance, nil
}

// LoadSequence loads every path in order and validates that all frames
// share identical dimensions (the stream's W, H is fixed
// for its whole duration).
func LoadSequence(paths []string) (w, h int, rasters [][]uint8, err error) {
	if len(paths) == 0 {
		return 0, 0, nil, bitv.ErrNoFrames
	}
	rasters = make([][]uint8, len(paths))
	for i, p := range paths {
		fw, fh, lum, err := Load(p)
		if err != nil {
			return 0, 0, nil, err
		}
		if i == 0 {
			w, h = fw, fh
		} else if fw != w || fh != h {
			return 0, 0, nil, fmt.Errorf("%w: %s is %dx%d, expected %dx%d", bitv.ErrResolutionMismatch, p, fw, fh, w, h)
		}
		rasters[i] = lum
	}
	return w, h, rasters, nil
}

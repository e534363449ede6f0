// Package quantize implements the 8-bit grayscale to 1 bpp quantizer:
// an ordered-dither rule with three luminance bands plus a hard
// cutoff, applied per pixel.
//
// The NTSC luminance transform below uses a fixed-point-constant style:
// named integer weights with a comment citing the reference formula,
// rather than a float64 expression repeated at every call site.
package quantize

import "github.com/bitv-codec/bitv/internal/pool"

// NTSC luminance weights, scaled by 1<<16 and rounded, matching the
// standard Y = 0.299R + 0.587G + 0.114B transform.
const (
	lumaFix  = 16
	lumaHalf = 1 << (lumaFix - 1)
	kLumaR   = 19595 // 0.299 * 65536
	kLumaG   = 38470 // 0.587 * 65536
	kLumaB   = 7471   // 0.114 * 65536
)

// Luminance converts an RGB triple to 8-bit luminance using the
// standard NTSC grayscale transform.
func Luminance(r, g, b uint8) uint8 {
	v := (int(r)*kLumaR + int(g)*kLumaG + int(b)*kLumaB + lumaHalf) >> lumaFix
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Pixel applies the dither rule to a single luminance sample at
// coordinate (x, y), returning true for a 1 (white) output bit.
func Pixel(x, y int, luminance uint8) bool {
	switch {
	case luminance > 192:
		return true
	case luminance > 128:
		return (x+y)%2 == 0
	case luminance > 98:
		return (x+2*y)%4 == 0
	default:
		return false
	}
}

// Raster quantizes a full W*H luminance raster into a packed 1bpp byte
// buffer, row-major, MSB-first within each byte (matching bitv.Frame's
// packing). The returned slice is pool-allocated; callers that don't
// hand it off to a long-lived bitv.Frame should pool.Put it back.
func Raster(w, h int, luminance []uint8) []byte {
	out := pool.Get((w*h + 7) / 8)
	for i := range out {
		out[i] = 0
	}
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			if Pixel(x, y, luminance[row+x]) {
				idx := row + x
				out[idx>>3] |= 0x80 >> uint(idx&7)
			}
		}
	}
	return out
}

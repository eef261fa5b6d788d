// Package tonemap resolves linear HDR radiance to a displayable image:
// supersample downsampling in linear space, exposure, ACES filmic curve
// and gamma encoding.
package tonemap

import (
	"image"

	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/dispatch"
	"pbr-deferred-renderer/internal/mathutil"
)

const invGamma = 1.0 / 2.2

// ACES applies the filmic tone curve to one linear channel. Output is
// clamped to [0, 1].
func ACES(x float32) float32 {
	v := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return mathutil.Saturate(v)
}

// Downsample box-filters an HDR frame by an integer factor in linear
// space. Averaging before the tone curve keeps bright subpixel
// highlights from aliasing.
func Downsample(hdr []mathutil.Vec3, w, h, factor int) ([]mathutil.Vec3, int, int) {
	if factor <= 1 {
		return hdr, w, h
	}
	ow := w / factor
	oh := h / factor
	out := make([]mathutil.Vec3, ow*oh)
	inv := 1 / float32(factor*factor)

	for oy := 0; oy < oh; oy++ {
		for ox := 0; ox < ow; ox++ {
			var sum mathutil.Vec3
			for dy := 0; dy < factor; dy++ {
				row := (oy*factor + dy) * w
				for dx := 0; dx < factor; dx++ {
					sum = sum.Add(hdr[row+ox*factor+dx])
				}
			}
			out[oy*ow+ox] = sum.Scale(inv)
		}
	}
	return out, ow, oh
}

// Resolve maps an HDR frame to an 8-bit image: exposure scale, ACES,
// gamma 2.2 encode.
func Resolve(hdr []mathutil.Vec3, w, h int, exposure float32, workers int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	dispatch.Run(w, h, workers, func(x, y int) {
		c := hdr[y*w+x]
		i := img.PixOffset(x, y)
		img.Pix[i] = encode(c[0] * exposure)
		img.Pix[i+1] = encode(c[1] * exposure)
		img.Pix[i+2] = encode(c[2] * exposure)
		img.Pix[i+3] = 255
	})
	return img
}

func encode(v float32) uint8 {
	t := math32.Pow(ACES(v), invGamma)
	return uint8(mathutil.Saturate(t)*255 + 0.5)
}

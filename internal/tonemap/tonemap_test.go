package tonemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pbr-deferred-renderer/internal/mathutil"
)

func TestACES(t *testing.T) {
	assert.Equal(t, float32(0), ACES(0))
	assert.LessOrEqual(t, ACES(1e6), float32(1), "bright input clamps")
	assert.Greater(t, ACES(100), float32(0.99))

	// Strictly increasing over the working range.
	prev := float32(-1)
	for x := float32(0); x < 6; x += 0.05 {
		v := ACES(x)
		assert.Greater(t, v, prev)
		assert.GreaterOrEqual(t, v, float32(0))
		prev = v
	}
}

func TestDownsample(t *testing.T) {
	hdr := []mathutil.Vec3{
		{1, 0, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 1, 1},
	}
	out, w, h := Downsample(hdr, 2, 2, 2)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 0.5, float64(out[0][c]), 1e-6)
	}

	same, w, h := Downsample(hdr, 2, 2, 1)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.Same(t, &hdr[0], &same[0], "factor 1 is a no-op")
}

func TestResolve(t *testing.T) {
	hdr := []mathutil.Vec3{
		{0, 0, 0}, mathutil.Splat(0.5),
		mathutil.Splat(10), {0.5, 0, 0},
	}
	img := Resolve(hdr, 2, 2, 1, 2)

	// Black stays black, alpha is opaque.
	i := img.PixOffset(0, 0)
	assert.Equal(t, uint8(0), img.Pix[i])
	assert.Equal(t, uint8(255), img.Pix[i+3])

	// Bright HDR input saturates near white.
	i = img.PixOffset(0, 1)
	assert.Greater(t, img.Pix[i], uint8(240))

	// Midtone lands in the middle of the range.
	i = img.PixOffset(1, 0)
	assert.Greater(t, img.Pix[i], uint8(100))
	assert.Less(t, img.Pix[i], uint8(220))

	// Channels are independent.
	i = img.PixOffset(1, 1)
	assert.Greater(t, img.Pix[i], img.Pix[i+1])
	assert.Equal(t, img.Pix[i+1], img.Pix[i+2])
}

func TestResolveExposure(t *testing.T) {
	hdr := []mathutil.Vec3{mathutil.Splat(0.25)}
	dim := Resolve(hdr, 1, 1, 0.5, 1)
	bright := Resolve(hdr, 1, 1, 4, 1)
	assert.Greater(t, bright.Pix[0], dim.Pix[0])
}

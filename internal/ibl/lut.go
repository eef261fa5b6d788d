package ibl

import (
	"math/bits"

	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/brdf"
	"pbr-deferred-renderer/internal/dispatch"
	"pbr-deferred-renderer/internal/mathutil"
)

const (
	// BrdfLutSize matches the engine's fixed 512×512 R16G16 table.
	BrdfLutSize = 512
	// BrdfLutSamples is the Monte-Carlo budget per texel.
	BrdfLutSamples = 1024
)

// BrdfLut is the 2-channel split-sum integration table: scale and bias
// of the Fresnel term over (N·V, perceptual roughness).
type BrdfLut struct {
	Size int
	Data []mathutil.Vec2 // len Size*Size, row-major, x = N·V, y = roughness
}

// ComputeBrdfLut Monte-Carlo integrates the split-sum terms with
// GGX-VNDF importance sampling over a Hammersley sequence.
func ComputeBrdfLut(size, samples, workers int) *BrdfLut {
	lut := &BrdfLut{
		Size: size,
		Data: make([]mathutil.Vec2, size*size),
	}
	dispatch.Run(size, size, workers, func(x, y int) {
		ndotv := (float32(x) + 0.5) / float32(size)
		roughness := (float32(y) + 0.5) / float32(size)
		lut.Data[y*size+x] = integrateBrdf(ndotv, roughness, samples)
	})
	return lut
}

func integrateBrdf(ndotv, perceptualRoughness float32, samples int) mathutil.Vec2 {
	ndotv = math32.Max(ndotv, 1e-4)
	wo := mathutil.Vec3{math32.Sqrt(1 - ndotv*ndotv), 0, ndotv}
	alpha := perceptualRoughness * perceptualRoughness
	alpha2 := alpha * alpha

	var scale, bias float32
	for i := 0; i < samples; i++ {
		ur := Hammersley(i, samples)
		h := brdf.SampleGgxVndf(wo, alpha, ur)
		wi := h.Scale(2 * wo.Dot(h)).Sub(wo)
		if wi[2] <= 0 || h[2] <= 0 {
			continue
		}

		// VNDF weight with the G2/G1 cancellation; Fresnel split into
		// the (1-Fc)·F0 + Fc decomposition.
		w := brdf.SmithG2OverG1(alpha2, wi[2], wo[2])
		fc := math32.Pow(1-mathutil.Saturate(wo.Dot(h)), 5)
		scale += (1 - fc) * w
		bias += fc * w
	}
	inv := 1 / float32(samples)
	return mathutil.Vec2{scale * inv, bias * inv}
}

// Hammersley returns the i-th point of an n-point low-discrepancy set.
func Hammersley(i, n int) mathutil.Vec2 {
	return mathutil.Vec2{float32(i) / float32(n), RadicalInverseBase2(uint32(i))}
}

// RadicalInverseBase2 mirrors the bits of b around the binary point.
func RadicalInverseBase2(b uint32) float32 {
	return float32(bits.Reverse32(b)) * 2.3283064365386963e-10 // 2^-32
}

// ScaleBias bilinearly samples the table. The half-texel UV bias keeps
// lookups at the domain edges inside texel centers.
func (l *BrdfLut) ScaleBias(ndotv, perceptualRoughness float32) mathutil.Vec2 {
	n := float32(l.Size)
	u := mathutil.Saturate(ndotv)*(n-1)/n + 0.5/n
	v := mathutil.Saturate(perceptualRoughness)*(n-1)/n + 0.5/n

	fx := u*n - 0.5
	fy := v*n - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	x1 := clampIdx(x0+1, l.Size)
	y1 := clampIdx(y0+1, l.Size)
	x0 = clampIdx(x0, l.Size)
	y0 = clampIdx(y0, l.Size)

	lerp2 := func(a, b mathutil.Vec2, t float32) mathutil.Vec2 {
		return mathutil.Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
	}
	top := lerp2(l.Data[y0*l.Size+x0], l.Data[y0*l.Size+x1], dx)
	bot := lerp2(l.Data[y1*l.Size+x0], l.Data[y1*l.Size+x1], dx)
	return lerp2(top, bot, dy)
}

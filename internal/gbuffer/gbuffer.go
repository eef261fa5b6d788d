package gbuffer

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// GBuffer is the unpacked, in-register form of one pixel's shading
// attributes. Normal must be unit length when handed to lighting code;
// producers normalize after any transform or interpolation.
type GBuffer struct {
	Albedo    mathutil.Vec3 // linear [0,1]
	Normal    mathutil.Vec3 // world space, unit length
	Metallic  float32       // [0,1]
	Roughness float32       // perceptual [0,1]
}

// Zero returns the empty-surface sentinel.
func Zero() GBuffer {
	return GBuffer{Normal: mathutil.Vec3{0, 0, 1}}
}

// Packed is the 128-bit G-buffer texel, four 32-bit lanes:
//
//	lane 0: albedo, 3×8-bit unorm
//	lane 1: normal, 11-10-11 sign+magnitude snorm (x low bits)
//	lane 2: metallic half | remapped-roughness half << 16
//	lane 3: reserved, zero on pack, ignored on unpack
type Packed [4]uint32

// RoughnessToPerceptual maps stored (linear) roughness back to the
// perceptual value carried by GBuffer. Inverse of PerceptualToRoughness.
func RoughnessToPerceptual(r float32) float32 {
	return math32.Sqrt(r)
}

// PerceptualToRoughness squares perceptual roughness. Applied before the
// half encode so low roughness keeps more of the half's precision.
func PerceptualToRoughness(p float32) float32 {
	return p * p
}

// Pack quantizes g into the 128-bit layout. Pure and total: out-of-range
// input saturates per-channel the way each sub-encoding natively does.
func (g GBuffer) Pack() Packed {
	var p Packed
	p[0] = packUnorm8(g.Albedo[0]) |
		packUnorm8(g.Albedo[1])<<8 |
		packUnorm8(g.Albedo[2])<<16
	p[1] = packSnorm(g.Normal[0], 11) |
		packSnorm(g.Normal[1], 10)<<11 |
		packSnorm(g.Normal[2], 11)<<21
	p[2] = uint32(mathutil.Float32ToHalf(g.Metallic)) |
		uint32(mathutil.Float32ToHalf(PerceptualToRoughness(g.Roughness)))<<16
	return p
}

// Unpack is the inverse of Pack up to each channel's quantization error.
func (p Packed) Unpack() GBuffer {
	return GBuffer{
		Albedo: mathutil.Vec3{
			unpackUnorm8(p[0]),
			unpackUnorm8(p[0] >> 8),
			unpackUnorm8(p[0] >> 16),
		},
		Normal: mathutil.Vec3{
			unpackSnorm(p[1], 11),
			unpackSnorm(p[1]>>11, 10),
			unpackSnorm(p[1]>>21, 11),
		}.Normalize(),
		Metallic:  mathutil.HalfToFloat32(uint16(p[2])),
		Roughness: RoughnessToPerceptual(mathutil.HalfToFloat32(uint16(p[2] >> 16))),
	}
}

func packUnorm8(v float32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint32(v*255 + 0.5)
}

func unpackUnorm8(u uint32) float32 {
	return float32(u&0xff) / 255
}

// packSnorm encodes v∈[-1,1] as sign+magnitude in the given bit width.
// The sign bit sits on top of a (bits-1)-wide magnitude, biasing
// precision toward the dominant axis of a unit normal.
func packSnorm(v float32, bits uint) uint32 {
	var sign uint32
	if v < 0 {
		sign = 1
		v = -v
	}
	if v > 1 {
		v = 1
	}
	maxMag := float32(uint32(1)<<(bits-1) - 1)
	return sign<<(bits-1) | uint32(v*maxMag+0.5)
}

func unpackSnorm(u uint32, bits uint) float32 {
	maxMag := float32(uint32(1)<<(bits-1) - 1)
	v := float32(u&(uint32(1)<<(bits-1)-1)) / maxMag
	if u>>(bits-1)&1 == 1 {
		return -v
	}
	return v
}

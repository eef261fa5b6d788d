package mathutil

import (
	"math"
	"math/bits"
)

// IEEE 754 binary16 conversion, round-to-nearest-even. The G-buffer
// stores metallic and remapped roughness as halves, so the conversion
// must match GPU texel semantics exactly (subnormals included).

// Float32ToHalf converts f to its binary16 bit pattern.
func Float32ToHalf(f float32) uint16 {
	fb := math.Float32bits(f)
	sign := uint16((fb >> 16) & 0x8000)
	exp := int32((fb>>23)&0xff) - 127 + 15
	mant := fb & 0x7fffff

	if (fb>>23)&0xff == 0xff {
		if mant != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	}
	if exp >= 0x1f {
		return sign | 0x7c00 // overflow to Inf
	}
	if exp <= 0 {
		if exp < -10 {
			return sign // underflow to signed zero
		}
		// Subnormal half: shift in the implicit bit, round to nearest even.
		mant |= 0x800000
		shift := uint32(14 - exp)
		h := uint16(mant >> shift)
		round := (mant >> (shift - 1)) & 1
		sticky := mant & ((1 << (shift - 1)) - 1)
		if round == 1 && (sticky != 0 || h&1 == 1) {
			h++
		}
		return sign | h
	}

	h := uint16(exp)<<10 | uint16(mant>>13)
	round := (mant >> 12) & 1
	sticky := mant & 0xfff
	if round == 1 && (sticky != 0 || h&1 == 1) {
		h++ // carry may ripple into the exponent, which is correct
	}
	return sign | h
}

// HalfToFloat32 converts a binary16 bit pattern back to float32 exactly.
func HalfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	var fb uint32
	switch {
	case exp == 0x1f:
		fb = sign<<31 | 0xff<<23 | mant<<13
	case exp != 0:
		fb = sign<<31 | (exp-15+127)<<23 | mant<<13
	case mant == 0:
		fb = sign << 31
	default:
		// Subnormal half: renormalize. Value is mant × 2^-24.
		b := uint32(bits.Len32(mant) - 1)
		frac := (mant &^ (1 << b)) << (23 - b)
		fb = sign<<31 | (b+103)<<23 | frac
	}
	return math.Float32frombits(fb)
}

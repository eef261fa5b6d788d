package mathutil

import "github.com/chewxy/math32"

// FloatEpsilon is the tolerance used when comparing against reserved
// sentinel values such as the reversed-Z "no geometry" depth of 0.0.
const FloatEpsilon = 1e-6

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate clamps v to [0, 1].
func Saturate(v float32) float32 {
	return Clamp(v, 0, 1)
}

func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func Deg2Rad(deg float32) float32 {
	return deg * math32.Pi / 180
}

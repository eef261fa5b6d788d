package ibl

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// SHBuffer holds 9 spherical-harmonics coefficients per color channel,
// a low-frequency irradiance representation. Reserved for a future
// lighting path; nothing in the deferred pass consumes it yet.
type SHBuffer struct {
	Coeffs [3][9]float32 // R, G, B
}

// ProjectSH projects the environment onto the first three SH bands,
// weighting each texel by its solid angle.
func ProjectSH(env *CubeMap) *SHBuffer {
	sh := &SHBuffer{}
	inv := 2 / float32(env.Size)

	var total float32
	for face := 0; face < 6; face++ {
		for y := 0; y < env.Size; y++ {
			for x := 0; x < env.Size; x++ {
				u := (float32(x)+0.5)*inv - 1
				v := (float32(y)+0.5)*inv - 1
				r2 := 1 + u*u + v*v
				// Texel solid angle on the unit cube face.
				omega := inv * inv / (r2 * math32.Sqrt(r2))
				total += omega

				d := env.TexelDir(face, x, y)
				c := env.At(face, x, y)
				b := shBasis(d)
				for k := 0; k < 9; k++ {
					w := b[k] * omega
					sh.Coeffs[0][k] += c[0] * w
					sh.Coeffs[1][k] += c[1] * w
					sh.Coeffs[2][k] += c[2] * w
				}
			}
		}
	}

	// Normalize the cube's solid-angle sum to the full 4π sphere.
	norm := 4 * math32.Pi / total
	for ch := 0; ch < 3; ch++ {
		for k := 0; k < 9; k++ {
			sh.Coeffs[ch][k] *= norm
		}
	}
	return sh
}

// Eval reconstructs the projected radiance in direction d.
func (s *SHBuffer) Eval(d mathutil.Vec3) mathutil.Vec3 {
	b := shBasis(d)
	var out mathutil.Vec3
	for k := 0; k < 9; k++ {
		out[0] += s.Coeffs[0][k] * b[k]
		out[1] += s.Coeffs[1][k] * b[k]
		out[2] += s.Coeffs[2][k] * b[k]
	}
	return out
}

func shBasis(d mathutil.Vec3) [9]float32 {
	x, y, z := d[0], d[1], d[2]
	return [9]float32{
		0.282095,
		0.488603 * y,
		0.488603 * z,
		0.488603 * x,
		1.092548 * x * y,
		1.092548 * y * z,
		0.315392 * (3*z*z - 1),
		1.092548 * x * z,
		0.546274 * (x*x - y*y),
	}
}

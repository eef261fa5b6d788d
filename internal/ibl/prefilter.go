package ibl

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/dispatch"
	"pbr-deferred-renderer/internal/mathutil"
)

const (
	// PrefilterBaseSize is mip 0 of the specular chain.
	PrefilterBaseSize = 128
	// PrefilterMips maps roughness 0..1 onto the chain.
	PrefilterMips = 5
	// PrefilterSamples per texel.
	PrefilterSamples = 512
)

// PrefilterSpecular convolves the environment with the GGX lobe, one mip
// per roughness step. Sampling importance-samples the distribution
// around N = V = R and weights by N·L.
func PrefilterSpecular(env *CubeMap, baseSize, mips, samples, workers int) *PrefilteredCubeMap {
	out := &PrefilteredCubeMap{Mips: make([]*CubeMap, mips)}
	for mip := 0; mip < mips; mip++ {
		size := baseSize >> mip
		if size < 1 {
			size = 1
		}
		roughness := float32(mip) / float32(mips-1)
		out.Mips[mip] = prefilterMip(env, size, roughness, samples, workers)
	}
	return out
}

func prefilterMip(env *CubeMap, size int, roughness float32, samples, workers int) *CubeMap {
	mip := NewCubeMap(size)
	alpha := roughness * roughness

	for face := 0; face < 6; face++ {
		f := face
		dispatch.Run(size, size, workers, func(x, y int) {
			n := mip.TexelDir(f, x, y)
			mip.Set(f, x, y, prefilterTexel(env, n, alpha, samples))
		})
	}
	return mip
}

func prefilterTexel(env *CubeMap, n mathutil.Vec3, alpha float32, samples int) mathutil.Vec3 {
	if alpha == 0 {
		return env.Sample(n)
	}

	basis := mathutil.BuildOrthonormalBasis(n)
	var sum mathutil.Vec3
	var weight float32

	for i := 0; i < samples; i++ {
		ur := Hammersley(i, samples)
		h := basis.MulVec3(sampleGgxNdf(alpha, ur))
		l := mathutil.Reflect(n.Neg(), h)
		ndotl := n.Dot(l)
		if ndotl <= 0 {
			continue
		}
		sum = sum.Add(env.Sample(l).Scale(ndotl))
		weight += ndotl
	}
	if weight <= 0 {
		return env.Sample(n)
	}
	return sum.Scale(1 / weight)
}

// sampleGgxNdf draws a half-vector from the GGX distribution in the
// local frame (+Z = normal).
func sampleGgxNdf(alpha float32, ur mathutil.Vec2) mathutil.Vec3 {
	phi := 2 * math32.Pi * ur[0]
	cosTheta := math32.Sqrt((1 - ur[1]) / (1 + (alpha*alpha-1)*ur[1]))
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))
	return mathutil.Vec3{
		sinTheta * math32.Cos(phi),
		sinTheta * math32.Sin(phi),
		cosTheta,
	}
}

package ibl

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/dispatch"
	"pbr-deferred-renderer/internal/mathutil"
)

const (
	// IrradianceSize matches the engine's 64² convolved cubemap.
	IrradianceSize = 64
	// irradianceStep is the theta/phi Riemann-sum step in radians.
	irradianceStep = 0.025
)

// ConvolveIrradiance integrates incoming radiance over the hemisphere of
// every texel normal, cosine-weighted, producing the diffuse lighting
// cubemap.
func ConvolveIrradiance(env *CubeMap, size, workers int) *CubeMap {
	out := NewCubeMap(size)
	for face := 0; face < 6; face++ {
		f := face
		dispatch.Run(size, size, workers, func(x, y int) {
			n := out.TexelDir(f, x, y)
			out.Set(f, x, y, convolveTexel(env, n))
		})
	}
	return out
}

func convolveTexel(env *CubeMap, n mathutil.Vec3) mathutil.Vec3 {
	basis := mathutil.BuildOrthonormalBasis(n)

	var sum mathutil.Vec3
	count := 0
	for phi := float32(0); phi < 2*math32.Pi; phi += irradianceStep {
		sinPhi := math32.Sin(phi)
		cosPhi := math32.Cos(phi)
		for theta := float32(0); theta < 0.5*math32.Pi; theta += irradianceStep {
			sinTheta := math32.Sin(theta)
			cosTheta := math32.Cos(theta)
			local := mathutil.Vec3{sinTheta * cosPhi, sinTheta * sinPhi, cosTheta}
			d := basis.MulVec3(local)
			// cosθ·sinθ is the cosine-weighted solid-angle measure.
			sum = sum.Add(env.Sample(d).Scale(cosTheta * sinTheta))
			count++
		}
	}
	return sum.Scale(math32.Pi / float32(count))
}

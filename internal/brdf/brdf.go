package brdf

import (
	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/mathutil"
)

// DielectricF0 is the fixed base reflectance of non-metal surfaces.
const DielectricF0 = 0.04

// Brdf layers a Lambertian diffuse lobe under a GGX specular lobe.
type Brdf struct {
	Diffuse  Diffuse
	Specular Specular
}

// FromGBuffer derives the layered BRDF from packed material attributes:
// metallic lerps F0 from the dielectric base to albedo and kills the
// diffuse reflectance.
func FromGBuffer(g gbuffer.GBuffer) Brdf {
	return Brdf{
		Diffuse: Diffuse{
			Reflectance: g.Albedo.Scale(1 - g.Metallic),
		},
		Specular: Specular{
			Alpha: gbuffer.PerceptualToRoughness(g.Roughness),
			F0:    mathutil.VecLerp(mathutil.Splat(DielectricF0), g.Albedo, g.Metallic),
		},
	}
}

// Eval combines both lobes, weighting diffuse by the specular layer's
// measured refraction ratio so energy is not counted twice. Returns the
// zero vector if either direction is below the hemisphere.
func (b Brdf) Eval(wi, wo mathutil.Vec3) mathutil.Vec3 {
	if wi[2] <= 0 || wo[2] <= 0 {
		return mathutil.Vec3{}
	}
	spec := b.Specular.Eval(wi, wo)
	diff := b.Diffuse.Eval(wi)
	return spec.Value.Add(diff.Value.Mul(spec.Refraction))
}

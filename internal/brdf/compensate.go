package brdf

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// EnvBrdfLut supplies the precomputed split-sum (scale, bias) integrated
// over (N·V, perceptual roughness). Injected rather than bound globally
// so each lighting-pass variant is an explicit configuration.
type EnvBrdfLut interface {
	ScaleBias(ndotv, perceptualRoughness float32) mathutil.Vec2
}

// Compensate corrects the single-scatter microfacet lobe for energy lost
// to unmodeled multi-bounce reflection. Built once per shading point and
// consumed by both direct and indirect lighting.
type Compensate struct {
	SingleScatter mathutil.Vec3
	EnvBrdf       mathutil.Vec2 // (scale, bias)
	F0            mathutil.Vec3
}

// NewCompensate samples the LUT at (N·wo, roughness) and folds in the
// roughness-attenuated Fresnel term.
func NewCompensate(wo mathutil.Vec3, perceptualRoughness float32, f0 mathutil.Vec3, lut EnvBrdfLut) Compensate {
	ndotv := mathutil.Saturate(wo[2])
	sb := lut.ScaleBias(ndotv, perceptualRoughness)
	fr := FresnelSchlickRoughness(ndotv, f0, perceptualRoughness)
	return Compensate{
		SingleScatter: fr.Scale(sb[0]).Add(mathutil.Splat(sb[1])),
		EnvBrdf:       sb,
		F0:            f0,
	}
}

// FresnelSchlickRoughness is Schlick's approximation with F90 pulled
// down toward F0 as the surface roughens.
func FresnelSchlickRoughness(cos float32, f0 mathutil.Vec3, roughness float32) mathutil.Vec3 {
	f90 := mathutil.Splat(1 - roughness).Max(f0)
	return FresnelSchlick(f0, f90, cos)
}

// IBL applies the Fdez-Aguera multi-scatter model: the energy the
// single-scatter lobe misses is redistributed into the diffuse term.
func (c Compensate) IBL(irradiance, radiance, diffuseReflectance mathutil.Vec3) mathutil.Vec3 {
	one := mathutil.Splat(1)

	// Average Fresnel over the hemisphere.
	favg := c.F0.Add(one.Sub(c.F0).Scale(1.0 / 21.0))
	ems := 1 - (c.EnvBrdf[0] + c.EnvBrdf[1])

	fmsEms := c.SingleScatter.Mul(favg).Scale(ems).Div(one.Sub(favg.Scale(ems)))
	kd := diffuseReflectance.Mul(one.Sub(c.SingleScatter).Sub(fmsEms))

	return c.SingleScatter.Mul(radiance).Add(fmsEms.Add(kd).Mul(irradiance))
}

// Direct applies the Turquin multiplier to an analytic-light specular
// response and returns the combined diffuse + specular value. The
// sqrt(|wi.z|) attenuation keeps directional (non-area) lights from
// over-brightening; an inherited trade-off, not a derived law.
func (c Compensate) Direct(diffuse, specular, wi mathutil.Vec3) mathutil.Vec3 {
	ess := math32.Max(c.EnvBrdf[0]+c.EnvBrdf[1], 1e-4)
	boost := (1 - ess) / ess * math32.Sqrt(math32.Abs(wi[2]))
	mult := mathutil.Splat(1).Add(c.SingleScatter.Scale(boost))
	return diffuse.Add(specular.Mul(mult))
}

// Package brdf evaluates physically based reflectance in the local
// shading frame (+Z = shading normal). All functions are pure; numerical
// degeneracy is handled by zero sentinels, never by NaN propagation.
package brdf

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// hemisphereEps is the validity margin for sampled directions.
const hemisphereEps = 1e-6

// Result of one BRDF evaluation. Constructed per call, stateless.
type Result struct {
	Value        mathutil.Vec3 // radiance response
	ValueOverPdf mathutil.Vec3
	Pdf          float32
	// Refraction is the fraction of energy the specular Fresnel layer
	// passes through to the diffuse layer underneath (1 - F).
	Refraction mathutil.Vec3
}

// InvalidResult is the all-zero sentinel for below-hemisphere input.
func InvalidResult() Result {
	return Result{}
}

// Sample is one importance-sampled incident direction with its weight
// (value / pdf).
type Sample struct {
	Wi     mathutil.Vec3
	Weight mathutil.Vec3
}

// InvalidSample returns a sample that fails IsValid.
func InvalidSample() Sample {
	return Sample{Wi: mathutil.Vec3{0, 0, -1}}
}

// IsValid reports whether the sample lies in the upper hemisphere.
func (s Sample) IsValid() bool {
	return s.Wi[2] > hemisphereEps
}

// Specular is the Cook-Torrance GGX microfacet lobe.
type Specular struct {
	Alpha float32       // GGX alpha (squared perceptual roughness)
	F0    mathutil.Vec3 // reflectance at normal incidence
}

// GgxD is the GGX normal distribution. The denominator clamp covers the
// alpha == 0, ndoth == 1 delta lobe: the mirror direction evaluates to
// zero instead of 0/0.
func GgxD(alpha2, ndoth float32) float32 {
	d := math32.Max(ndoth*ndoth*(alpha2-1)+1, 1e-8)
	return alpha2 / (math32.Pi * d * d)
}

// smithVis is the height-correlated Smith term folded together with the
// microfacet denominator: G2 / (4 NdotL NdotV).
func smithVis(alpha2, ndotv, ndotl float32) float32 {
	l1 := ndotv * math32.Sqrt(alpha2+ndotl*(ndotl-alpha2*ndotl))
	l2 := ndotl * math32.Sqrt(alpha2+ndotv*(ndotv-alpha2*ndotv))
	return 0.5 / math32.Max(l1+l2, 1e-8)
}

// SmithG1 is the separable Smith masking term for one direction, taking
// the squared cosine.
func SmithG1(alpha2, ndots2 float32) float32 {
	return 2 / (math32.Sqrt((alpha2*(1-ndots2)+ndots2)/ndots2) + 1)
}

// SmithG2OverG1 is the cancellation identity used by VNDF sampling
// weights, avoiding a redundant pdf division.
func SmithG2OverG1(alpha2, ndotl, ndotv float32) float32 {
	g1l := SmithG1(alpha2, ndotl*ndotl)
	g1v := SmithG1(alpha2, ndotv*ndotv)
	return g1l / (g1v + g1l - g1v*g1l)
}

// FresnelSchlick interpolates reflectance between F0 and F90 by the
// fifth power of the complementary cosine.
func FresnelSchlick(f0, f90 mathutil.Vec3, cos float32) mathutil.Vec3 {
	c := mathutil.Saturate(1 - cos)
	c2 := c * c
	p5 := c2 * c2 * c
	return mathutil.VecLerp(f0, f90, p5)
}

// SchlickF90 derives grazing reflectance from F0; low-reflectance
// dielectrics attenuate below 1 via the luminance scale.
func SchlickF90(f0 mathutil.Vec3) float32 {
	return mathutil.Saturate(50 * Luminance(f0))
}

// Luminance is the Rec.709 luma of a linear color.
func Luminance(c mathutil.Vec3) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

// Eval evaluates the microfacet specular response for incident wi and
// outgoing wo. Below-hemisphere directions contribute zero radiance.
func (s Specular) Eval(wi, wo mathutil.Vec3) Result {
	if wi[2] <= 0 || wo[2] <= 0 {
		return InvalidResult()
	}

	h := wi.Add(wo).Normalize()
	alpha2 := s.Alpha * s.Alpha

	d := GgxD(alpha2, h[2])
	vis := smithVis(alpha2, wo[2], wi[2])
	f90 := SchlickF90(s.F0)
	f := FresnelSchlick(s.F0, mathutil.Splat(f90), mathutil.Saturate(wo.Dot(h)))

	value := f.Scale(d * vis)

	// VNDF density of the reflected direction.
	pdf := SmithG1(alpha2, wo[2]*wo[2]) * d / (4 * wo[2])

	res := Result{
		Value:      value,
		Pdf:        pdf,
		Refraction: mathutil.Splat(1).Sub(f),
	}
	if pdf > 1e-8 {
		res.ValueOverPdf = value.Scale(1 / pdf)
	}
	return res
}

// SampleVNDF importance-samples the lobe by visible-normal distribution
// (Heitz's method) and reflects wo about the sampled half-vector.
func (s Specular) SampleVNDF(wo mathutil.Vec3, urand mathutil.Vec2) Sample {
	h := SampleGgxVndf(wo, s.Alpha, urand)
	wi := h.Scale(2 * wo.Dot(h)).Sub(wo)

	if h[2] <= hemisphereEps || wi[2] <= hemisphereEps || wo[2] <= hemisphereEps {
		return InvalidSample()
	}

	alpha2 := s.Alpha * s.Alpha
	f90 := SchlickF90(s.F0)
	f := FresnelSchlick(s.F0, mathutil.Splat(f90), mathutil.Saturate(wo.Dot(h)))

	return Sample{
		Wi:     wi,
		Weight: f.Scale(SmithG2OverG1(alpha2, wi[2], wo[2])),
	}
}

// SampleGgxVndf samples a half-vector from the GGX visible-normal
// distribution seen from wo. The mirror case alpha == 0 short-circuits
// to the exact normal, avoiding the stretched-space division by zero.
func SampleGgxVndf(wo mathutil.Vec3, alpha float32, urand mathutil.Vec2) mathutil.Vec3 {
	if alpha == 0 {
		return mathutil.Vec3{0, 0, 1}
	}

	// Stretch to the isotropic configuration.
	v := mathutil.Vec3{alpha * wo[0], alpha * wo[1], wo[2]}.Normalize()

	// Orthonormal basis around v.
	var t1 mathutil.Vec3
	if v[2] < 0.999 {
		t1 = mathutil.Vec3{0, 0, 1}.Cross(v).Normalize()
	} else {
		t1 = mathutil.Vec3{1, 0, 0}
	}
	t2 := v.Cross(t1)

	// Sample the projected hemisphere as a bounded disk.
	r := math32.Sqrt(urand[0])
	phi := 2 * math32.Pi * urand[1]
	p1 := r * math32.Cos(phi)
	p2 := r * math32.Sin(phi)
	blend := 0.5 * (1 + v[2])
	p2 = (1-blend)*math32.Sqrt(math32.Max(0, 1-p1*p1)) + blend*p2

	// Reproject onto the hemisphere, then unstretch onto the ellipsoid.
	nh := t1.Scale(p1).
		Add(t2.Scale(p2)).
		Add(v.Scale(math32.Sqrt(math32.Max(0, 1-p1*p1-p2*p2))))
	return mathutil.Vec3{alpha * nh[0], alpha * nh[1], math32.Max(0, nh[2])}.Normalize()
}

package brdf

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// Diffuse is the Lambertian lobe under the specular layer.
type Diffuse struct {
	Reflectance mathutil.Vec3
}

// Eval returns reflectance/π with a cosine-hemisphere pdf. Zero below
// the hemisphere.
func (d Diffuse) Eval(wi mathutil.Vec3) Result {
	if wi[2] <= 0 {
		return InvalidResult()
	}
	value := d.Reflectance.Scale(1 / math32.Pi)
	pdf := wi[2] / math32.Pi

	res := Result{
		Value:      value,
		Pdf:        pdf,
		Refraction: mathutil.Splat(1),
	}
	if pdf > 1e-8 {
		res.ValueOverPdf = value.Scale(1 / pdf)
	}
	return res
}

// SampleCosine draws a cosine-weighted incident direction.
func (d Diffuse) SampleCosine(urand mathutil.Vec2) Sample {
	r := math32.Sqrt(urand[0])
	phi := 2 * math32.Pi * urand[1]
	wi := mathutil.Vec3{
		r * math32.Cos(phi),
		r * math32.Sin(phi),
		math32.Sqrt(math32.Max(0, 1-urand[0])),
	}
	if wi[2] <= hemisphereEps {
		return InvalidSample()
	}
	// value/pdf = (refl/π) / (cosθ/π) · cosθ = refl
	return Sample{Wi: wi, Weight: d.Reflectance}
}

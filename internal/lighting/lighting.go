// Package lighting is the deferred shading pass: for every G-buffer
// pixel it reconstructs the surface, evaluates the analytic sun light
// and the split-sum image-based lighting, and writes linear HDR
// radiance. Pixels at the depth sentinel show the raw environment.
package lighting

import (
	"pbr-deferred-renderer/internal/brdf"
	"pbr-deferred-renderer/internal/camera"
	"pbr-deferred-renderer/internal/dispatch"
	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/ibl"
	"pbr-deferred-renderer/internal/mathutil"
)

// Params carries everything the pass reads. All resources are
// precomputed; Render itself only reads them, so tiles can shade in
// parallel.
type Params struct {
	Frame   *camera.Frame
	Targets *gbuffer.Targets

	Env         *ibl.CubeMap            // raw environment, shown where depth is the sentinel
	Irradiance  *ibl.CubeMap            // cosine-convolved diffuse term
	Prefiltered *ibl.PrefilteredCubeMap // roughness mip chain
	Lut         *ibl.BrdfLut

	SunDir       mathutil.Vec3 // world-space direction toward the sun
	SunColor     mathutil.Vec3
	SunIntensity float32

	Workers int
}

// Render shades the full frame and returns linear HDR radiance, one
// Vec3 per pixel in row-major order.
func Render(p *Params) []mathutil.Vec3 {
	t := p.Targets
	out := make([]mathutil.Vec3, t.Width*t.Height)
	invW := 1 / float32(t.Width)
	invH := 1 / float32(t.Height)
	sunDir := p.SunDir.Normalize()

	dispatch.Run(t.Width, t.Height, p.Workers, func(x, y int) {
		idx := y*t.Width + x
		u := (float32(x) + 0.5) * invW
		v := (float32(y) + 0.5) * invH
		out[idx] = shadePixel(p, idx, u, v, sunDir)
	})
	return out
}

func shadePixel(p *Params, idx int, u, v float32, sunDir mathutil.Vec3) mathutil.Vec3 {
	t := p.Targets
	depth := t.Depth[idx]
	if depth <= mathutil.FloatEpsilon {
		// No geometry: the raw environment sample in the view direction.
		return p.Env.Sample(p.Frame.ViewRayWorld(u, v))
	}

	g := t.Packed[idx].Unpack()

	viewPos := p.Frame.ReconstructView(u, v, depth)
	worldPos := p.Frame.ViewToWorld.MulPoint(viewPos)
	toEye := p.Frame.Eye.Sub(worldPos).Normalize()

	// Shade in the tangent frame of the shading normal.
	basis := mathutil.BuildOrthonormalBasis(g.Normal)
	toLocal := basis.Transpose()

	wo := toLocal.MulVec3(toEye)
	if wo[2] < 1e-5 {
		// Interpolated normals can tip past the view direction at
		// silhouettes; pull the view vector back above the horizon.
		wo[2] = 1e-5
		wo = wo.Normalize()
	}

	bd := brdf.FromGBuffer(g)
	comp := brdf.NewCompensate(wo, g.Roughness, bd.Specular.F0, p.Lut)

	var color mathutil.Vec3

	wi := toLocal.MulVec3(sunDir)
	if wi[2] > 0 {
		spec := bd.Specular.Eval(wi, wo)
		diff := bd.Diffuse.Eval(wi)
		direct := comp.Direct(diff.Value.Mul(spec.Refraction), spec.Value, wi)
		color = direct.Mul(p.SunColor).Scale(p.SunIntensity * wi[2])
	}

	r := mathutil.Reflect(toEye.Neg(), g.Normal)
	radiance := p.Prefiltered.SampleLod(r, g.Roughness*p.Prefiltered.MaxLod())
	irradiance := p.Irradiance.Sample(g.Normal)
	return color.Add(comp.IBL(irradiance, radiance, bd.Diffuse.Reflectance))
}

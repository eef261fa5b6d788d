package brdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/mathutil"
)

func randomUpperDir(rng *rand.Rand) mathutil.Vec3 {
	for {
		v := mathutil.Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()),
		}.Normalize()
		if v[2] > 1e-3 {
			return v
		}
	}
}

func finiteVec(v mathutil.Vec3) bool {
	for i := 0; i < 3; i++ {
		f := float64(v[i])
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func TestEvalBelowHemisphereIsZero(t *testing.T) {
	spec := Specular{Alpha: 0.25, F0: mathutil.Splat(0.04)}
	diff := Diffuse{Reflectance: mathutil.Splat(0.5)}

	below := mathutil.Vec3{0.3, 0.1, -0.5}.Normalize()
	above := mathutil.Vec3{0, 0, 1}

	assert.Equal(t, mathutil.Vec3{}, spec.Eval(below, above).Value)
	assert.Equal(t, mathutil.Vec3{}, spec.Eval(above, below).Value)
	assert.Equal(t, mathutil.Vec3{}, diff.Eval(below).Value)

	b := Brdf{Diffuse: diff, Specular: spec}
	assert.Equal(t, mathutil.Vec3{}, b.Eval(below, above))
	assert.Equal(t, mathutil.Vec3{}, b.Eval(above, below))
}

func TestEvalNonNegativeAndFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 3000; i++ {
		b := Brdf{
			Diffuse: Diffuse{Reflectance: mathutil.Splat(float32(rng.Float64()))},
			Specular: Specular{
				Alpha: float32(rng.Float64()) * float32(rng.Float64()), // bias low
				F0: mathutil.Vec3{
					float32(rng.Float64()),
					float32(rng.Float64()),
					float32(rng.Float64()),
				},
			},
		}
		wi := randomUpperDir(rng)
		wo := randomUpperDir(rng)
		v := b.Eval(wi, wo)
		require.True(t, finiteVec(v), "finite at wi=%v wo=%v alpha=%v", wi, wo, b.Specular.Alpha)
		for c := 0; c < 3; c++ {
			require.GreaterOrEqual(t, v[c], float32(0))
		}
	}
}

func TestSamplingConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	valid := 0
	for i := 0; i < 3000; i++ {
		spec := Specular{
			Alpha: float32(rng.Float64()),
			F0:    mathutil.Splat(0.04 + 0.9*float32(rng.Float64())),
		}
		wo := randomUpperDir(rng)
		ur := mathutil.Vec2{float32(rng.Float64()), float32(rng.Float64())}

		s := spec.SampleVNDF(wo, ur)
		if !s.IsValid() {
			continue
		}
		valid++
		require.Greater(t, s.Wi[2], float32(1e-7))
		require.True(t, finiteVec(s.Weight))
		for c := 0; c < 3; c++ {
			require.GreaterOrEqual(t, s.Weight[c], float32(0))
		}

		res := spec.Eval(s.Wi, wo)
		require.True(t, finiteVec(res.Value))
		for c := 0; c < 3; c++ {
			require.GreaterOrEqual(t, res.Value[c], float32(0))
		}
	}
	// VNDF sampling from the upper hemisphere rarely rejects.
	assert.Greater(t, valid, 2500)
}

func TestSampleMirrorFastPath(t *testing.T) {
	spec := Specular{Alpha: 0, F0: mathutil.Splat(0.9)}
	wo := mathutil.Vec3{0.4, -0.2, 0.8}.Normalize()
	s := spec.SampleVNDF(wo, mathutil.Vec2{0.7, 0.3})
	require.True(t, s.IsValid())
	// Half-vector (0,0,1) reflects wo to its mirror image.
	assert.InDelta(t, float64(-wo[0]), float64(s.Wi[0]), 1e-6)
	assert.InDelta(t, float64(-wo[1]), float64(s.Wi[1]), 1e-6)
	assert.InDelta(t, float64(wo[2]), float64(s.Wi[2]), 1e-6)
}

func TestEvalMirrorRetroreflection(t *testing.T) {
	// roughness 0 with wi == wo == +Z puts the half-vector exactly on the
	// delta lobe; the evaluation must stay finite and non-negative, not
	// collapse to 0/0.
	spec := Specular{Alpha: 0, F0: mathutil.Splat(DielectricF0)}
	up := mathutil.Vec3{0, 0, 1}

	res := spec.Eval(up, up)
	require.True(t, finiteVec(res.Value))
	require.False(t, res.Pdf != res.Pdf, "pdf is NaN")
	for c := 0; c < 3; c++ {
		assert.GreaterOrEqual(t, res.Value[c], float32(0))
	}
	assert.Equal(t, float32(0), GgxD(0, 1), "delta lobe has zero density")

	b := FromGBuffer(gbuffer.GBuffer{
		Albedo:    mathutil.Splat(0.5),
		Normal:    up,
		Roughness: 0,
	})
	v := b.Eval(up, up)
	require.True(t, finiteVec(v))
}

func TestSampleGrazingWoInvalid(t *testing.T) {
	spec := Specular{Alpha: 0.3, F0: mathutil.Splat(0.04)}
	wo := mathutil.Vec3{1, 0, 0} // wo.z == 0
	s := spec.SampleVNDF(wo, mathutil.Vec2{0.5, 0.5})
	assert.False(t, s.IsValid())
}

func TestSmoothDielectricGrazing(t *testing.T) {
	// roughness=0, metallic=0, head-on view, light sliding to grazing:
	// diffuse → 0 with wi.z, specular Fresnel at the half-vector stays
	// near the head-on value (h ≈ halfway between wo and grazing wi).
	g := gbuffer.GBuffer{
		Albedo:    mathutil.Splat(0.5),
		Normal:    mathutil.Vec3{0, 0, 1},
		Metallic:  0,
		Roughness: 0,
	}
	b := FromGBuffer(g)
	assert.InDelta(t, DielectricF0, float64(b.Specular.F0[0]), 1e-6)

	wo := mathutil.Vec3{0, 0, 1}
	wiz := float32(1e-3)
	wi := mathutil.Vec3{math32Sqrt(1 - wiz*wiz), 0, wiz}

	diff := b.Diffuse.Eval(wi)
	// cosine-weighted diffuse contribution vanishes at grazing
	weighted := diff.Value.Scale(wi[2])
	assert.Less(t, weighted[0], float32(1e-3))

	spec := b.Specular.Eval(wi, wo)
	require.True(t, finiteVec(spec.Value))
	// Fresnel part of the response stays at the mirror-lobe level, i.e.
	// the refraction ratio is close to 1-F0 for this geometry.
	assert.InDelta(t, 1-DielectricF0, float64(spec.Refraction[0]), 0.05)
}

func TestFullyMetallic(t *testing.T) {
	g := gbuffer.GBuffer{
		Albedo:    mathutil.Vec3{0.9, 0.6, 0.2},
		Normal:    mathutil.Vec3{0, 0, 1},
		Metallic:  1,
		Roughness: 0.4,
	}
	b := FromGBuffer(g)
	assert.Equal(t, mathutil.Vec3{}, b.Diffuse.Reflectance, "metal has no diffuse")
	assert.Equal(t, g.Albedo, b.Specular.F0, "metal F0 equals albedo")
}

func TestG2OverG1Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 1000; i++ {
		alpha := float32(rng.Float64())
		alpha2 := alpha * alpha
		ndotl := float32(rng.Float64())*0.999 + 1e-4
		ndotv := float32(rng.Float64())*0.999 + 1e-4
		r := SmithG2OverG1(alpha2, ndotl, ndotv)
		require.False(t, math.IsNaN(float64(r)))
		require.GreaterOrEqual(t, r, float32(0))
		require.LessOrEqual(t, r, float32(1.0001))
	}
}

func TestSchlickF90Attenuation(t *testing.T) {
	// Common dielectrics keep F90 = 1; only near-zero F0 attenuates.
	assert.Equal(t, float32(1), SchlickF90(mathutil.Splat(0.04)))
	assert.Less(t, SchlickF90(mathutil.Splat(0.001)), float32(1))
	assert.Equal(t, float32(0), SchlickF90(mathutil.Vec3{}))
}

func math32Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

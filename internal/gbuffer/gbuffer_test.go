package gbuffer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbr-deferred-renderer/internal/mathutil"
)

func randomGBuffer(rng *rand.Rand) GBuffer {
	n := mathutil.Vec3{
		float32(rng.Float64()*2 - 1),
		float32(rng.Float64()*2 - 1),
		float32(rng.Float64()*2 - 1),
	}.Normalize()
	if n.Len() == 0 {
		n = mathutil.Vec3{0, 0, 1}
	}
	return GBuffer{
		Albedo: mathutil.Vec3{
			float32(rng.Float64()),
			float32(rng.Float64()),
			float32(rng.Float64()),
		},
		Normal:    n,
		Metallic:  float32(rng.Float64()),
		Roughness: float32(rng.Float64()),
	}
}

func TestPackUnpackRoundTripBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		g := randomGBuffer(rng)
		out := g.Pack().Unpack()

		for c := 0; c < 3; c++ {
			assert.InDelta(t, float64(g.Albedo[c]), float64(out.Albedo[c]), 1.0/255,
				"albedo channel %d", c)
		}
		// 10-bit magnitude is the coarsest normal channel; renormalization
		// keeps the componentwise error well inside the 2^-9 bound.
		for c := 0; c < 3; c++ {
			assert.InDelta(t, float64(g.Normal[c]), float64(out.Normal[c]), 1.0/512,
				"normal channel %d", c)
		}
		assert.InDelta(t, float64(g.Metallic), float64(out.Metallic), 1e-3)
		// Roughness passes through square → half → sqrt.
		assert.InDelta(t, float64(g.Roughness), float64(out.Roughness), 2e-3)
	}
}

func TestUnpackedNormalIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		g := randomGBuffer(rng)
		n := g.Pack().Unpack().Normal
		require.InDelta(t, 1.0, float64(n.Len()), 1e-5)
	}
}

func TestPackSaturatesOutOfRange(t *testing.T) {
	g := GBuffer{
		Albedo:    mathutil.Vec3{-0.5, 2.0, 0.5},
		Normal:    mathutil.Vec3{0, 0, 3}, // magnitude saturates to 1
		Metallic:  1,
		Roughness: 1,
	}
	out := g.Pack().Unpack()
	assert.Equal(t, float32(0), out.Albedo[0])
	assert.Equal(t, float32(1), out.Albedo[1])
	assert.InDelta(t, 0.5, float64(out.Albedo[2]), 1.0/255)
	assert.InDelta(t, 1.0, float64(out.Normal[2]), 1e-6)
}

func TestReservedLane(t *testing.T) {
	g := randomGBuffer(rand.New(rand.NewSource(3)))
	p := g.Pack()
	assert.Equal(t, uint32(0), p[3], "lane 3 zero on pack")

	// Lane 3 is ignored on unpack.
	p2 := p
	p2[3] = 0xdeadbeef
	assert.Equal(t, p.Unpack(), p2.Unpack())
}

func TestRoughnessRemapSymmetry(t *testing.T) {
	for _, r := range []float32{0, 0.1, 0.25, 0.5, 0.75, 1} {
		assert.InDelta(t, float64(r),
			float64(RoughnessToPerceptual(PerceptualToRoughness(r))), 1e-6)
	}
}

func TestExactEndpoints(t *testing.T) {
	g := GBuffer{
		Albedo:    mathutil.Vec3{0, 1, 1},
		Normal:    mathutil.Vec3{0, 0, 1},
		Metallic:  1,
		Roughness: 0,
	}
	out := g.Pack().Unpack()
	assert.Equal(t, float32(1), out.Metallic, "metallic 1 is half-exact")
	assert.Equal(t, float32(0), out.Roughness)
	assert.Equal(t, mathutil.Vec3{0, 1, 1}, out.Albedo)
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, out.Normal)
}

func TestZeroSentinel(t *testing.T) {
	z := Zero()
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, z.Normal)
	assert.Equal(t, mathutil.Vec3{}, z.Albedo)
}

func TestNewTargetsCleared(t *testing.T) {
	tg := NewTargets(4, 3)
	require.Len(t, tg.Depth, 12)
	require.Len(t, tg.Packed, 12)
	for _, d := range tg.Depth {
		assert.True(t, math.Abs(float64(d)) < float64(mathutil.FloatEpsilon),
			"depth clears to the far sentinel")
	}
}

func TestEncodeGeomNormal(t *testing.T) {
	e := EncodeGeomNormal(mathutil.Vec3{0, 0, -1})
	assert.Equal(t, mathutil.Vec3{0.5, 0.5, 0}, e)
}

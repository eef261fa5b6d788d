package camera

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbr-deferred-renderer/internal/mathutil"
)

func testFrame() Frame {
	return LookAt(
		mathutil.Vec3{0, 2, 5},
		mathutil.Vec3{0, 0, 0},
		mathutil.Vec3{0, 1, 0},
		60, 16.0/9.0, 0.1,
	)
}

func TestWorldViewInverse(t *testing.T) {
	f := testFrame()
	id := mathutil.Mat4Mul(f.WorldToView, f.ViewToWorld)
	want := mathutil.Mat4Identity()
	for i := range id {
		assert.InDelta(t, float64(want[i]), float64(id[i]), 1e-5)
	}
}

func TestEyeMapsToViewOrigin(t *testing.T) {
	f := testFrame()
	o := f.WorldToView.MulPoint(f.Eye)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, float64(o[i]), 1e-5)
	}
}

func TestReversedZDepthConvention(t *testing.T) {
	f := testFrame()

	// Near-plane point projects to depth 1, distant points toward 0.
	_, _, dNear, ok := f.ProjectView(mathutil.Vec3{0, 0, -f.Near})
	require.True(t, ok)
	assert.InDelta(t, 1.0, float64(dNear), 1e-5)

	_, _, dFar, ok := f.ProjectView(mathutil.Vec3{0, 0, -1e6})
	require.True(t, ok)
	assert.Less(t, float64(dFar), 1e-4)
	assert.Greater(t, float64(dFar), 0.0)

	_, _, _, ok = f.ProjectView(mathutil.Vec3{0, 0, 1})
	assert.False(t, ok, "behind the camera")
}

func TestProjectReconstructRoundTrip(t *testing.T) {
	f := testFrame()
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 200; i++ {
		p := mathutil.Vec3{
			float32(rng.Float64()*4 - 2),
			float32(rng.Float64()*4 - 2),
			-(0.2 + float32(rng.Float64())*50),
		}
		u, v, depth, ok := f.ProjectView(p)
		require.True(t, ok)

		got := f.ReconstructView(u, v, depth)
		for c := 0; c < 3; c++ {
			require.InDelta(t, float64(p[c]), float64(got[c]), 2e-3,
				"component %d of %v", c, p)
		}
	}
}

func TestViewRayWorldCenterLooksAtTarget(t *testing.T) {
	f := testFrame()
	ray := f.ViewRayWorld(0.5, 0.5)
	want := mathutil.Vec3{0, 0, 0}.Sub(f.Eye).Normalize()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, float64(want[i]), float64(ray[i]), 1e-4)
	}
	assert.InDelta(t, 1.0, float64(ray.Len()), 1e-5)
}

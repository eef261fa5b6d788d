package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbr-deferred-renderer/internal/camera"
	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/mathutil"
	"pbr-deferred-renderer/internal/scene"
)

func testFrame() camera.Frame {
	return camera.LookAt(
		mathutil.Vec3{0, 0, 4},
		mathutil.Vec3{0, 0, 0},
		mathutil.Vec3{0, 1, 0},
		60, 1, 0.1,
	)
}

func sphereObject(mat scene.Material) scene.Object {
	return scene.Object{
		Mesh:     scene.UVSphere(mathutil.Vec3{0, 0, 0}, 1, 16, 32),
		Material: mat,
	}
}

func TestDrawObjectCoverageAndDepth(t *testing.T) {
	targets := gbuffer.NewTargets(64, 64)
	frame := testFrame()
	mat := scene.Material{Albedo: mathutil.Vec3{0.8, 0.2, 0.1}, Metallic: 1, Roughness: 0.3}
	DrawObject(targets, &frame, sphereObject(mat))

	covered := 0
	for _, d := range targets.Depth {
		if d > 0 {
			covered++
			// Sphere front face sits between 2.9 and 5 units away.
			require.Less(t, float64(d), float64(frame.Near)/2.8)
			require.Greater(t, float64(d), float64(frame.Near)/5.1)
		}
	}
	// The unit sphere at distance 4 with a 60 degree fov covers a
	// substantial part of a 64x64 frame.
	assert.Greater(t, covered, 400)
	assert.Less(t, covered, 64*64)

	// Center pixel: closest point of the sphere, normal facing the eye.
	center := 32*64 + 32
	require.Greater(t, targets.Depth[center], float32(0))
	assert.InDelta(t, float64(frame.Near/3.0), float64(targets.Depth[center]), 2e-3)

	g := targets.Packed[center].Unpack()
	assert.InDelta(t, 0.0, float64(g.Normal[0]), 0.05)
	assert.InDelta(t, 0.0, float64(g.Normal[1]), 0.05)
	assert.InDelta(t, 1.0, float64(g.Normal[2]), 0.05)
	assert.InDelta(t, float64(mat.Metallic), float64(g.Metallic), 1e-2)
	assert.InDelta(t, float64(mat.Roughness), float64(g.Roughness), 1e-2)
	assert.InDelta(t, float64(mat.Albedo[0]), float64(g.Albedo[0]), 1e-2)

	// Geometric normal encodes a camera-facing direction: view space -Z
	// is away from the eye, so the encoded z channel is above 0.5.
	assert.Greater(t, targets.GeomN[center][2], float32(0.9))
}

func TestDepthTestKeepsNearest(t *testing.T) {
	targets := gbuffer.NewTargets(48, 48)
	frame := testFrame()

	far := scene.Object{
		Mesh:     scene.UVSphere(mathutil.Vec3{0, 0, -2}, 1, 16, 32),
		Material: scene.Material{Albedo: mathutil.Splat(0.1), Roughness: 1},
	}
	near := scene.Object{
		Mesh:     scene.UVSphere(mathutil.Vec3{0, 0, 0}, 1, 16, 32),
		Material: scene.Material{Albedo: mathutil.Splat(0.9), Roughness: 1},
	}

	// Draw order must not matter.
	DrawScene(targets, &frame, []scene.Object{near, far})

	center := 24*48 + 24
	g := targets.Packed[center].Unpack()
	assert.InDelta(t, 0.9, float64(g.Albedo[0]), 1e-2,
		"nearer sphere wins the depth test")
	assert.InDelta(t, float64(frame.Near/3.0), float64(targets.Depth[center]), 2e-3)
}

func TestBehindCameraDropped(t *testing.T) {
	targets := gbuffer.NewTargets(32, 32)
	frame := testFrame()
	behind := scene.Object{
		Mesh:     scene.UVSphere(mathutil.Vec3{0, 0, 10}, 1, 8, 16),
		Material: scene.Material{Albedo: mathutil.Splat(0.5), Roughness: 0.5},
	}
	DrawObject(targets, &frame, behind)

	for i, d := range targets.Depth {
		require.Equal(t, float32(0), d, "pixel %d must stay clear", i)
	}
}

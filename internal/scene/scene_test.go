package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbr-deferred-renderer/internal/mathutil"
)

func TestUVSphere(t *testing.T) {
	center := mathutil.Vec3{1, 2, 3}
	m := UVSphere(center, 2, 8, 16)

	require.Equal(t, len(m.Positions), len(m.Normals))
	require.Equal(t, 9*17, len(m.Positions))
	require.Equal(t, 8*16*2, len(m.Tris))

	for i, p := range m.Positions {
		// Vertices lie on the sphere, normals point outward.
		assert.InDelta(t, 2.0, float64(p.Sub(center).Len()), 1e-5, "vertex %d", i)
		n := m.Normals[i]
		assert.InDelta(t, 1.0, float64(n.Len()), 1e-5)
		want := p.Sub(center).Normalize()
		for c := 0; c < 3; c++ {
			assert.InDelta(t, float64(want[c]), float64(n[c]), 1e-5)
		}
	}

	for _, tri := range m.Tris {
		for _, i := range tri {
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, len(m.Positions))
		}
	}
}

func TestSphereGrid(t *testing.T) {
	albedo := mathutil.Vec3{0.8, 0.3, 0.2}
	objs := SphereGrid(3, 5, 2, 0.8, albedo)
	require.Len(t, objs, 15)

	// Metallic sweeps rows 0..1, roughness sweeps columns 0.05..1.
	assert.Equal(t, float32(0), objs[0].Material.Metallic)
	assert.Equal(t, float32(1), objs[14].Material.Metallic)
	assert.Equal(t, float32(0.05), objs[0].Material.Roughness)
	assert.Equal(t, float32(1), objs[4].Material.Roughness)

	for i, o := range objs {
		assert.Equal(t, albedo, o.Material.Albedo, "object %d", i)
		assert.NotEmpty(t, o.Mesh.Tris)
	}

	// Distinct centers.
	c0 := meshCenter(objs[0])
	c1 := meshCenter(objs[1])
	assert.Greater(t, c1.Sub(c0).Len(), float32(1))
}

func meshCenter(o Object) mathutil.Vec3 {
	var sum mathutil.Vec3
	for _, p := range o.Mesh.Positions {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(o.Mesh.Positions)))
}

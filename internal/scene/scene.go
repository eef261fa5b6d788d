// Package scene provides the minimal in-memory geometry the renderer
// demonstrates with. There is no asset import; meshes are generated.
package scene

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// Material is the constant shading attribute set of one object.
type Material struct {
	Albedo    mathutil.Vec3
	Metallic  float32
	Roughness float32 // perceptual
}

// Mesh is indexed triangle geometry in world space.
type Mesh struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3 // per vertex, unit length
	Tris      [][3]int
}

// Object pairs a mesh with its material.
type Object struct {
	Mesh     Mesh
	Material Material
}

// UVSphere generates a longitude/latitude sphere with smooth normals.
func UVSphere(center mathutil.Vec3, radius float32, rings, segments int) Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	var m Mesh
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		sinT := math32.Sin(theta)
		cosT := math32.Cos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segments)
			n := mathutil.Vec3{
				sinT * math32.Cos(phi),
				cosT,
				sinT * math32.Sin(phi),
			}
			m.Normals = append(m.Normals, n)
			m.Positions = append(m.Positions, center.Add(n.Scale(radius)))
		}
	}

	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*stride + s
			b := a + stride
			m.Tris = append(m.Tris, [3]int{a, b, a + 1}, [3]int{a + 1, b, b + 1})
		}
	}
	return m
}

// SphereGrid builds the classic IBL calibration scene: roughness sweeps
// across columns, metallic across rows.
func SphereGrid(rows, cols int, spacing, radius float32, albedo mathutil.Vec3) []Object {
	objs := make([]Object, 0, rows*cols)
	for r := 0; r < rows; r++ {
		metallic := float32(0)
		if rows > 1 {
			metallic = float32(r) / float32(rows-1)
		}
		for c := 0; c < cols; c++ {
			roughness := float32(0.05)
			if cols > 1 {
				roughness = mathutil.Clamp(float32(c)/float32(cols-1), 0.05, 1)
			}
			center := mathutil.Vec3{
				(float32(c) - float32(cols-1)/2) * spacing,
				(float32(r) - float32(rows-1)/2) * spacing,
				0,
			}
			objs = append(objs, Object{
				Mesh: UVSphere(center, radius, 24, 48),
				Material: Material{
					Albedo:    albedo,
					Metallic:  metallic,
					Roughness: roughness,
				},
			})
		}
	}
	return objs
}

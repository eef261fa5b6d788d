// Package raster fills the G-buffer: it projects triangle meshes through
// the camera frame and writes packed surface attributes, reversed-Z depth
// and the encoded geometric normal per covered pixel. No shading happens
// here; the deferred lighting pass reads these targets afterwards.
package raster

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/camera"
	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/mathutil"
	"pbr-deferred-renderer/internal/scene"
)

// DrawObject rasterizes every triangle of one object into the targets.
// Vertex work is done once up front; triangles with any vertex behind the
// camera are dropped (no near-plane clipping).
func DrawObject(t *gbuffer.Targets, frame *camera.Frame, obj scene.Object) {
	n := len(obj.Mesh.Positions)
	sx := make([]float32, n)
	sy := make([]float32, n)
	sd := make([]float32, n)
	viewPos := make([]mathutil.Vec3, n)
	valid := make([]bool, n)

	w := float32(t.Width)
	h := float32(t.Height)
	for i, p := range obj.Mesh.Positions {
		view := frame.WorldToView.MulPoint(p)
		viewPos[i] = view
		u, v, d, ok := frame.ProjectView(view)
		if !ok {
			continue
		}
		valid[i] = true
		sx[i] = u * w
		sy[i] = v * h
		sd[i] = d
	}

	for _, tri := range obj.Mesh.Tris {
		i0, i1, i2 := tri[0], tri[1], tri[2]
		if i0 < 0 || i0 >= n || i1 < 0 || i1 >= n || i2 < 0 || i2 >= n {
			continue
		}
		if !valid[i0] || !valid[i1] || !valid[i2] {
			continue
		}
		drawTriangle(t, &obj.Material, obj.Mesh.Normals, tri, sx, sy, sd, viewPos)
	}
}

// drawTriangle scan-converts one projected triangle.
//
// This is the HOT PATH — designed for zero allocation in the inner loop.
// Depth is reversed-Z (near/-z_view), which is linear in 1/z, so plain
// screen-space interpolation of depth is already perspective-correct.
// Vertex attributes are interpolated as attr*depth then divided by the
// interpolated depth.
func drawTriangle(
	t *gbuffer.Targets,
	mat *scene.Material,
	normals []mathutil.Vec3,
	tri [3]int,
	sx, sy, sd []float32,
	viewPos []mathutil.Vec3,
) {
	i0, i1, i2 := tri[0], tri[1], tri[2]
	x0, y0, d0 := sx[i0], sy[i0], sd[i0]
	x1, y1, d1 := sx[i1], sy[i1], sd[i1]
	x2, y2, d2 := sx[i2], sy[i2], sd[i2]

	// Geometric face normal in view space, oriented toward the camera
	// (the camera sits at the view-space origin).
	gn := viewPos[i1].Sub(viewPos[i0]).Cross(viewPos[i2].Sub(viewPos[i0]))
	if gn.Len() < 1e-12 {
		return
	}
	gn = gn.Normalize()
	if gn.Dot(viewPos[i0]) > 0 {
		gn = gn.Neg()
	}
	encGN := gbuffer.EncodeGeomNormal(gn)

	// Shading normals pre-scaled by vertex depth for perspective-correct
	// interpolation.
	n0 := normals[i0].Scale(d0)
	n1 := normals[i1].Scale(d1)
	n2 := normals[i2].Scale(d2)

	// Bounding box
	minX := int(math32.Min(math32.Min(x0, x1), x2))
	maxX := int(math32.Max(math32.Max(x0, x1), x2)) + 1
	minY := int(math32.Min(math32.Min(y0, y1), y2))
	maxY := int(math32.Max(math32.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= t.Width {
		maxX = t.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= t.Height {
		maxY = t.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	g := gbuffer.GBuffer{
		Albedo:    mat.Albedo,
		Metallic:  mat.Metallic,
		Roughness: mat.Roughness,
	}

	for py := minY; py <= maxY; py++ {
		dsy := float32(py) + 0.5 - y2
		rowOff := py * t.Width
		for px := minX; px <= maxX; px++ {
			dsx := float32(px) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			d := w0*d0 + w1*d1 + w2*d2
			idx := rowOff + px
			// Reversed-Z: greater wins; clear value 0 always loses.
			if d <= t.Depth[idx] {
				continue
			}
			t.Depth[idx] = d

			invD := 1 / d
			g.Normal = mathutil.Vec3{
				(w0*n0[0] + w1*n1[0] + w2*n2[0]) * invD,
				(w0*n0[1] + w1*n1[1] + w2*n2[1]) * invD,
				(w0*n0[2] + w1*n1[2] + w2*n2[2]) * invD,
			}.Normalize()

			t.Packed[idx] = g.Pack()
			t.GeomN[idx] = encGN
		}
	}
}

// DrawScene rasterizes a list of objects in order.
func DrawScene(t *gbuffer.Targets, frame *camera.Frame, objs []scene.Object) {
	for i := range objs {
		DrawObject(t, frame, objs[i])
	}
}

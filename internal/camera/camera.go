// Package camera builds the per-frame constant block consumed by the
// raster and lighting passes: world/view/clip matrices under a
// reversed-Z, infinite-far-plane convention where depth 0.0 is the
// "no geometry" sentinel.
package camera

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// Frame is the per-frame matrix block. All matrices transform column
// vectors by right-multiplication.
type Frame struct {
	WorldToView mathutil.Mat4
	ViewToWorld mathutil.Mat4
	ViewToClip  mathutil.Mat4
	ClipToView  mathutil.Mat4
	Eye         mathutil.Vec3
	Near        float32
}

// LookAt builds a right-handed view (camera looks down -Z) with a
// reversed-Z infinite projection: depth = near / -z_view, so 1.0 at the
// near plane falling to 0.0 at infinity.
func LookAt(eye, target, up mathutil.Vec3, fovYDeg, aspect, near float32) Frame {
	fwd := target.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	camUp := right.Cross(fwd)

	worldToView := mathutil.Mat4{
		right[0], right[1], right[2], -right.Dot(eye),
		camUp[0], camUp[1], camUp[2], -camUp.Dot(eye),
		-fwd[0], -fwd[1], -fwd[2], fwd.Dot(eye),
		0, 0, 0, 1,
	}

	// Rigid inverse: transposed rotation, back-rotated translation.
	viewToWorld := mathutil.Mat4{
		right[0], camUp[0], -fwd[0], eye[0],
		right[1], camUp[1], -fwd[1], eye[1],
		right[2], camUp[2], -fwd[2], eye[2],
		0, 0, 0, 1,
	}

	f := 1 / math32.Tan(mathutil.Deg2Rad(fovYDeg)*0.5)
	viewToClip := mathutil.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, 0, near,
		0, 0, -1, 0,
	}

	return Frame{
		WorldToView: worldToView,
		ViewToWorld: viewToWorld,
		ViewToClip:  viewToClip,
		ClipToView:  viewToClip.Inverse(),
		Eye:         eye,
		Near:        near,
	}
}

// ReconstructView returns the view-space position of the pixel at
// normalized screen uv (origin top-left) with reversed-Z depth.
func (f *Frame) ReconstructView(u, v, depth float32) mathutil.Vec3 {
	clip := mathutil.Vec4{u*2 - 1, (1-v)*2 - 1, depth, 1}
	view := f.ClipToView.MulVec4(clip)
	invW := 1 / view[3]
	return mathutil.Vec3{view[0] * invW, view[1] * invW, view[2] * invW}
}

// ViewRayWorld returns the world-space view ray direction through uv.
func (f *Frame) ViewRayWorld(u, v float32) mathutil.Vec3 {
	p := f.ReconstructView(u, v, 1) // a point on the near plane
	return f.ViewToWorld.MulDir(p.Normalize()).Normalize()
}

// ProjectView maps a view-space position to screen uv and reversed-Z
// depth. Positions behind the camera return ok = false.
func (f *Frame) ProjectView(p mathutil.Vec3) (u, v, depth float32, ok bool) {
	clip := f.ViewToClip.MulVec4(mathutil.Vec4{p[0], p[1], p[2], 1})
	if clip[3] <= 1e-6 {
		return 0, 0, 0, false
	}
	invW := 1 / clip[3]
	u = (clip[0]*invW + 1) * 0.5
	v = (1 - clip[1]*invW) * 0.5
	depth = clip[2] * invW
	return u, v, depth, true
}

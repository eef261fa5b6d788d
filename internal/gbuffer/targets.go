package gbuffer

import "pbr-deferred-renderer/internal/mathutil"

// Targets holds the raster outputs consumed by the deferred lighting
// pass, as flat slices for cache locality. Depth is reversed-Z: larger
// is closer, 0.0 is the reserved "no geometry / infinite depth"
// sentinel, which is also the clear value.
type Targets struct {
	Width  int
	Height int
	Packed []Packed      // packed color payload, len = W*H
	Depth  []float32     // reversed-Z depth, len = W*H
	GeomN  []mathutil.Vec3 // view-space geometric normal, encoded n*0.5+0.5
}

// NewTargets allocates cleared render targets. The zero value of every
// lane is the empty-pixel state: packed zeroes, sentinel depth.
func NewTargets(w, h int) *Targets {
	n := w * h
	return &Targets{
		Width:  w,
		Height: h,
		Packed: make([]Packed, n),
		Depth:  make([]float32, n),
		GeomN:  make([]mathutil.Vec3, n),
	}
}

// EncodeGeomNormal maps a unit normal to the [0,1] target encoding.
func EncodeGeomNormal(n mathutil.Vec3) mathutil.Vec3 {
	return n.Scale(0.5).Add(mathutil.Splat(0.5))
}

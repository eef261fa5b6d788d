// Package ibl holds the image-based-lighting resources and the
// precomputation passes that produce them: the split-sum BRDF LUT, the
// roughness-prefiltered specular cubemap and the diffuse irradiance
// convolution. All passes are pure with respect to their inputs and run
// once (or on environment change), never per frame.
package ibl

import (
	"github.com/chewxy/math32"

	"pbr-deferred-renderer/internal/mathutil"
)

// CubeMap is six square float32 RGB faces.
// Face order: +X, -X, +Y, -Y, +Z, -Z.
type CubeMap struct {
	Size  int
	Faces [6][]mathutil.Vec3 // each len Size*Size
}

func NewCubeMap(size int) *CubeMap {
	c := &CubeMap{Size: size}
	for f := range c.Faces {
		c.Faces[f] = make([]mathutil.Vec3, size*size)
	}
	return c
}

func (c *CubeMap) At(face, x, y int) mathutil.Vec3 {
	return c.Faces[face][y*c.Size+x]
}

func (c *CubeMap) Set(face, x, y int, v mathutil.Vec3) {
	c.Faces[face][y*c.Size+x] = v
}

// TexelDir returns the world direction through the center of a texel.
func (c *CubeMap) TexelDir(face, x, y int) mathutil.Vec3 {
	u := 2*(float32(x)+0.5)/float32(c.Size) - 1
	v := 2*(float32(y)+0.5)/float32(c.Size) - 1
	return faceDir(face, u, v)
}

func faceDir(face int, u, v float32) mathutil.Vec3 {
	var d mathutil.Vec3
	switch face {
	case 0:
		d = mathutil.Vec3{1, -v, -u}
	case 1:
		d = mathutil.Vec3{-1, -v, u}
	case 2:
		d = mathutil.Vec3{u, 1, v}
	case 3:
		d = mathutil.Vec3{u, -1, -v}
	case 4:
		d = mathutil.Vec3{u, -v, 1}
	default:
		d = mathutil.Vec3{-u, -v, -1}
	}
	return d.Normalize()
}

// DirToFaceUV selects the dominant-axis face for d and returns face-local
// UV in [0,1].
func DirToFaceUV(d mathutil.Vec3) (face int, u, v float32) {
	ax := math32.Abs(d[0])
	ay := math32.Abs(d[1])
	az := math32.Abs(d[2])

	switch {
	case ax >= ay && ax >= az:
		if d[0] > 0 {
			face, u, v = 0, -d[2]/ax, -d[1]/ax
		} else {
			face, u, v = 1, d[2]/ax, -d[1]/ax
		}
	case ay >= az:
		if d[1] > 0 {
			face, u, v = 2, d[0]/ay, d[2]/ay
		} else {
			face, u, v = 3, d[0]/ay, -d[2]/ay
		}
	default:
		if d[2] > 0 {
			face, u, v = 4, d[0]/az, -d[1]/az
		} else {
			face, u, v = 5, -d[0]/az, -d[1]/az
		}
	}
	return face, (u + 1) * 0.5, (v + 1) * 0.5
}

// Sample bilinearly filters the face selected by d, clamping to the face
// edge. Sampler behavior is fixed process-wide (linear, clamp-to-edge).
func (c *CubeMap) Sample(d mathutil.Vec3) mathutil.Vec3 {
	face, u, v := DirToFaceUV(d)
	return c.sampleFace(face, u, v)
}

func (c *CubeMap) sampleFace(face int, u, v float32) mathutil.Vec3 {
	fx := u*float32(c.Size) - 0.5
	fy := v*float32(c.Size) - 0.5

	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	x1 := clampIdx(x0+1, c.Size)
	y1 := clampIdx(y0+1, c.Size)
	x0 = clampIdx(x0, c.Size)
	y0 = clampIdx(y0, c.Size)

	p00 := c.At(face, x0, y0)
	p10 := c.At(face, x1, y0)
	p01 := c.At(face, x0, y1)
	p11 := c.At(face, x1, y1)

	top := mathutil.VecLerp(p00, p10, dx)
	bot := mathutil.VecLerp(p01, p11, dx)
	return mathutil.VecLerp(top, bot, dy)
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// PrefilteredCubeMap is a mip chain whose level encodes roughness:
// mip 0 is the sharpest reflection, the last mip the roughest.
type PrefilteredCubeMap struct {
	Mips []*CubeMap
}

// MaxLod is the index of the roughest mip.
func (p *PrefilteredCubeMap) MaxLod() float32 {
	return float32(len(p.Mips) - 1)
}

// SampleLod trilinearly filters between the two mips bracketing lod.
func (p *PrefilteredCubeMap) SampleLod(d mathutil.Vec3, lod float32) mathutil.Vec3 {
	lod = mathutil.Clamp(lod, 0, p.MaxLod())
	lo := int(math32.Floor(lod))
	hi := lo + 1
	if hi >= len(p.Mips) {
		return p.Mips[lo].Sample(d)
	}
	return mathutil.VecLerp(p.Mips[lo].Sample(d), p.Mips[hi].Sample(d), lod-float32(lo))
}

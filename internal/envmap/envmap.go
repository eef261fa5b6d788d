// Package envmap provides the radiance environment: cubemap faces loaded
// from TGA/PNG/JPEG files, or a procedural sun-and-sky fallback when no
// files are available.
package envmap

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	_ "github.com/ftrvxmtrx/tga"

	"pbr-deferred-renderer/internal/ibl"
	"pbr-deferred-renderer/internal/mathutil"
)

// faceNames follow the cubemap face order: +X, -X, +Y, -Y, +Z, -Z.
var faceNames = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

var faceExts = []string{".tga", ".png", ".jpg"}

// LoadCubeMap reads six square face images named posx/negx/posy/negy/
// posz/negz (first matching extension wins) from dir, decoding sRGB
// pixel values to linear radiance.
func LoadCubeMap(dir string) (*ibl.CubeMap, error) {
	var env *ibl.CubeMap
	for f, name := range faceNames {
		img, err := loadFace(dir, name)
		if err != nil {
			return nil, err
		}

		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w != h {
			return nil, fmt.Errorf("envmap: face %s is %dx%d, want square", name, w, h)
		}
		if env == nil {
			env = ibl.NewCubeMap(w)
		} else if w != env.Size {
			return nil, fmt.Errorf("envmap: face %s is %d, other faces are %d", name, w, env.Size)
		}

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				env.Set(f, x, y, mathutil.Vec3{
					SrgbToLinear(float32(r) / 65535),
					SrgbToLinear(float32(g) / 65535),
					SrgbToLinear(float32(bl) / 65535),
				})
			}
		}
	}
	return env, nil
}

func loadFace(dir, name string) (image.Image, error) {
	var lastErr error
	for _, ext := range faceExts {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("envmap: decode %s: %w", path, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("envmap: face %s not found in %s: %w", name, dir, lastErr)
}

// SrgbToLinear decodes one sRGB channel to linear.
func SrgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}

// ProceduralSky builds a simple analytic environment: a horizon-to-zenith
// gradient plus a sun disk with a soft halo around sunDir. Radiance is
// linear HDR; the sun may exceed 1.
func ProceduralSky(size int, sunDir mathutil.Vec3, sunColor mathutil.Vec3, sunIntensity float32) *ibl.CubeMap {
	sun := sunDir.Normalize()
	zenith := mathutil.Vec3{0.22, 0.42, 0.85}
	horizon := mathutil.Vec3{0.75, 0.80, 0.88}
	ground := mathutil.Vec3{0.28, 0.25, 0.22}

	env := ibl.NewCubeMap(size)
	for f := 0; f < 6; f++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := env.TexelDir(f, x, y)

				var c mathutil.Vec3
				if d[1] >= 0 {
					c = mathutil.VecLerp(horizon, zenith, math32.Sqrt(d[1]))
				} else {
					c = mathutil.VecLerp(horizon, ground, math32.Sqrt(-d[1]))
				}

				// Sun disk (~0.5 degree) with an exponential halo.
				cosSun := d.Dot(sun)
				if cosSun > 0.99995 {
					c = c.Add(sunColor.Scale(sunIntensity))
				} else if cosSun > 0 {
					halo := math32.Pow(cosSun, 350) * 0.25
					c = c.Add(sunColor.Scale(sunIntensity * halo))
				}
				env.Set(f, x, y, c)
			}
		}
	}
	return env
}

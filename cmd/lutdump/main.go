// lutdump renders the image-based-lighting precompute products to PNG
// files for inspection: the split-sum BRDF LUT, the prefiltered
// specular mip chain and the irradiance cubemap of the procedural sky.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/image/draw"

	"pbr-deferred-renderer/internal/envmap"
	"pbr-deferred-renderer/internal/ibl"
	"pbr-deferred-renderer/internal/mathutil"
	"pbr-deferred-renderer/internal/tonemap"
)

func main() {
	outDir := flag.String("out", "lutdump", "Output directory")
	lutSize := flag.Int("lut-size", 512, "BRDF LUT resolution")
	lutSamples := flag.Int("lut-samples", 1024, "BRDF LUT samples per texel")
	skySize := flag.Int("sky-size", 128, "Procedural sky face resolution")
	preview := flag.Int("preview", 256, "Preview image size for cubemap faces")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	workers := runtime.NumCPU()

	// BRDF LUT: scale in red, bias in green.
	lut := ibl.ComputeBrdfLut(*lutSize, *lutSamples, workers)
	img := image.NewNRGBA(image.Rect(0, 0, lut.Size, lut.Size))
	for y := 0; y < lut.Size; y++ {
		for x := 0; x < lut.Size; x++ {
			sb := lut.Data[y*lut.Size+x]
			i := img.PixOffset(x, y)
			img.Pix[i] = quantize(sb[0])
			img.Pix[i+1] = quantize(sb[1])
			img.Pix[i+3] = 255
		}
	}
	writePNG(*outDir, "brdf_lut.png", img)

	sun := mathutil.Vec3{0.35, 0.75, 0.55}.Normalize()
	env := envmap.ProceduralSky(*skySize, sun, mathutil.Vec3{1, 0.96, 0.9}, 4)

	pf := ibl.PrefilterSpecular(env, 64, 5, 256, workers)
	for m, mip := range pf.Mips {
		for f := 0; f < 6; f++ {
			name := fmt.Sprintf("prefilter_mip%d_face%d.png", m, f)
			writePNG(*outDir, name, facePreview(mip, f, *preview))
		}
	}

	irr := ibl.ConvolveIrradiance(env, 32, workers)
	for f := 0; f < 6; f++ {
		writePNG(*outDir, fmt.Sprintf("irradiance_face%d.png", f), facePreview(irr, f, *preview))
	}

	fmt.Printf("Wrote %s\n", *outDir)
}

// facePreview tone maps one cubemap face and upscales it to the preview
// size with Catmull-Rom filtering.
func facePreview(c *ibl.CubeMap, face, size int) *image.NRGBA {
	src := tonemap.Resolve(c.Faces[face], c.Size, c.Size, 1, 0)
	if c.Size == size {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func quantize(v float32) uint8 {
	return uint8(mathutil.Saturate(v)*255 + 0.5)
}

func writePNG(dir, name string, img image.Image) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error encoding %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"pbr-deferred-renderer/internal/camera"
	"pbr-deferred-renderer/internal/config"
	"pbr-deferred-renderer/internal/envmap"
	"pbr-deferred-renderer/internal/gbuffer"
	"pbr-deferred-renderer/internal/ibl"
	"pbr-deferred-renderer/internal/lighting"
	"pbr-deferred-renderer/internal/mathutil"
	"pbr-deferred-renderer/internal/raster"
	"pbr-deferred-renderer/internal/scene"
	"pbr-deferred-renderer/internal/tonemap"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	envDir := flag.String("env", "", "Cubemap face directory (posx.tga .. negz.tga); empty uses the procedural sky")
	output := flag.String("output", "", "Output WebP path (default: render.webp)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 512)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		EnvDir:  *envDir,
		Output:  *output,
		Size:    *size,
		Quality: *quality,
		Workers: *workers,
	})

	sunDir := mathutil.Vec3(cfg.SunDir).Normalize()
	sunColor := mathutil.Vec3(cfg.SunColor)

	// Environment
	var env *ibl.CubeMap
	if cfg.EnvDir != "" {
		var err error
		env, err = envmap.LoadCubeMap(cfg.EnvDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Environment: %s (%dx%d faces)\n", cfg.EnvDir, env.Size, env.Size)
	} else {
		env = envmap.ProceduralSky(cfg.SkySize, sunDir, sunColor, cfg.SunIntensity)
		fmt.Printf("Environment: procedural sky (%dx%d faces)\n", env.Size, env.Size)
	}

	fmt.Println("Deferred PBR Renderer → WebP")
	fmt.Printf("Size: %d (x%d supersample), Workers: %d\n", cfg.RenderSize, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputPath)
	fmt.Println("------------------------------------------------------------")

	// IBL precompute
	start := time.Now()
	lut := ibl.ComputeBrdfLut(cfg.LutSize, cfg.LutSamples, cfg.Workers)
	fmt.Printf("BRDF LUT %dx%d: %.1fs\n", cfg.LutSize, cfg.LutSize, time.Since(start).Seconds())

	start = time.Now()
	prefiltered := ibl.PrefilterSpecular(env, cfg.PrefilterSize, cfg.PrefilterMips, cfg.PrefilterSamples, cfg.Workers)
	fmt.Printf("Prefiltered specular %d mips: %.1fs\n", cfg.PrefilterMips, time.Since(start).Seconds())

	start = time.Now()
	irradiance := ibl.ConvolveIrradiance(env, cfg.IrradianceSize, cfg.Workers)
	fmt.Printf("Irradiance %dx%d: %.1fs\n", cfg.IrradianceSize, cfg.IrradianceSize, time.Since(start).Seconds())

	// Scene: the metallic/roughness calibration grid
	objs := scene.SphereGrid(4, 6, 2.2, 1, mathutil.Vec3{0.8, 0.25, 0.15})

	renderSize := cfg.RenderSize * cfg.Supersample
	frame := camera.LookAt(
		mathutil.Vec3{0, 0, 16},
		mathutil.Vec3{0, 0, 0},
		mathutil.Vec3{0, 1, 0},
		cfg.FovYDeg, 1, cfg.Near,
	)

	// G-buffer pass
	start = time.Now()
	targets := gbuffer.NewTargets(renderSize, renderSize)
	raster.DrawScene(targets, &frame, objs)
	fmt.Printf("G-buffer %dx%d: %.1fs\n", renderSize, renderSize, time.Since(start).Seconds())

	// Deferred lighting pass
	start = time.Now()
	hdr := lighting.Render(&lighting.Params{
		Frame:        &frame,
		Targets:      targets,
		Env:          env,
		Irradiance:   irradiance,
		Prefiltered:  prefiltered,
		Lut:          lut,
		SunDir:       sunDir,
		SunColor:     sunColor,
		SunIntensity: cfg.SunIntensity,
		Workers:      cfg.Workers,
	})
	fmt.Printf("Lighting: %.1fs\n", time.Since(start).Seconds())

	// Resolve: downsample in linear space, tone map, encode
	hdr, w, h := tonemap.Downsample(hdr, renderSize, renderSize, cfg.Supersample)
	img := tonemap.Resolve(hdr, w, h, cfg.Exposure, cfg.Workers)

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error encoding WebP: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done: %s\n", cfg.OutputPath)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	EnvDir     string `json:"env_dir"` // cubemap face directory; empty uses the procedural sky
	OutputPath string `json:"output_path"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	WebPQuality int `json:"webp_quality"`
	Workers     int `json:"workers"`

	// Camera
	FovYDeg float32 `json:"fov_y_deg"`
	Near    float32 `json:"near"`

	// Sun and exposure
	SunDir       [3]float32 `json:"sun_dir"`
	SunColor     [3]float32 `json:"sun_color"`
	SunIntensity float32    `json:"sun_intensity"`
	Exposure     float32    `json:"exposure"`

	// Image-based lighting precompute
	LutSize          int `json:"lut_size"`
	LutSamples       int `json:"lut_samples"`
	IrradianceSize   int `json:"irradiance_size"`
	PrefilterSize    int `json:"prefilter_size"`
	PrefilterMips    int `json:"prefilter_mips"`
	PrefilterSamples int `json:"prefilter_samples"`

	// Procedural sky cubemap resolution when EnvDir is empty
	SkySize int `json:"sky_size"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.EnvDir != "" {
		c.EnvDir = flags.EnvDir
	}
	if flags.Output != "" {
		c.OutputPath = flags.Output
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.OutputPath == "" {
		c.OutputPath = "render.webp"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.FovYDeg <= 0 {
		c.FovYDeg = 45
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}

	if c.SunDir == ([3]float32{}) {
		c.SunDir = [3]float32{0.35, 0.75, 0.55}
	}
	if c.SunColor == ([3]float32{}) {
		c.SunColor = [3]float32{1, 0.96, 0.9}
	}
	if c.SunIntensity <= 0 {
		c.SunIntensity = 4
	}
	if c.Exposure <= 0 {
		c.Exposure = 1
	}

	if c.LutSize <= 0 {
		c.LutSize = 512
	}
	if c.LutSamples <= 0 {
		c.LutSamples = 1024
	}
	if c.IrradianceSize <= 0 {
		c.IrradianceSize = 64
	}
	if c.PrefilterSize <= 0 {
		c.PrefilterSize = 128
	}
	if c.PrefilterMips <= 0 {
		c.PrefilterMips = 5
	}
	if c.PrefilterSamples <= 0 {
		c.PrefilterSamples = 512
	}
	if c.SkySize <= 0 {
		c.SkySize = 128
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	EnvDir  string
	Output  string
	Size    int
	Quality int
	Workers int
}

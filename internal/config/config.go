// Package config loads the run settings of the xgenseed CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Resolve.
const (
	DefaultPreviewSize   = 256
	DefaultSupersample   = 2
	DefaultSeed          = 5489
	DefaultMaterial      = "initialShadingGroup_material"
	DefaultPreviewFormat = "webp"
)

// Config holds all configurable paths and expansion settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir" yaml:"base_dir"`
	Scene     string `json:"scene" yaml:"scene"`
	CacheDir  string `json:"cache_dir" yaml:"cache_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Metrics   string `json:"metrics_file" yaml:"metrics_file"`

	// Expansion settings
	Seed              uint64 `json:"seed" yaml:"seed"`
	Material          string `json:"material" yaml:"material"`
	MaxTransformDepth int    `json:"max_transform_depth" yaml:"max_transform_depth"`
	Workers           int    `json:"workers" yaml:"workers"`

	// Preview settings
	PreviewSize   int    `json:"preview_size" yaml:"preview_size"`
	Supersample   int    `json:"supersample" yaml:"supersample"`
	PreviewFormat string `json:"preview_format" yaml:"preview_format"`
	NoPreview     bool   `json:"no_preview" yaml:"no_preview"`
}

// Load reads a JSON or YAML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene       string
	CacheDir    string
	OutputDir   string
	Metrics     string
	Workers     int
	PreviewSize int
	// Seed overrides when SeedSet is true, so 0 stays a valid seed.
	Seed    uint64
	SeedSet bool
	Depth   int
}

// Resolve applies flags, fills empty fields with defaults and makes
// relative paths absolute against BaseDir.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.CacheDir != "" {
		c.CacheDir = flags.CacheDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Metrics != "" {
		c.Metrics = flags.Metrics
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.SeedSet {
		c.Seed = flags.Seed
	}
	if flags.Depth > 0 {
		c.MaxTransformDepth = flags.Depth
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// cache dumps default to the scene's directory
	if c.CacheDir == "" && c.Scene != "" {
		c.CacheDir = filepath.Dir(c.abs(c.Scene))
	}
	c.Scene = c.abs(c.Scene)
	c.CacheDir = c.abs(c.CacheDir)
	if c.OutputDir == "" {
		c.OutputDir = "xgenseed-out"
	}
	c.OutputDir = c.abs(c.OutputDir)
	c.Metrics = c.abs(c.Metrics)

	if c.Seed == 0 && !flags.SeedSet {
		c.Seed = DefaultSeed
	}
	if c.Material == "" {
		c.Material = DefaultMaterial
	}
	if c.MaxTransformDepth < 0 {
		c.MaxTransformDepth = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = DefaultPreviewSize
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = DefaultPreviewFormat
	}
	c.PreviewFormat = strings.ToLower(strings.TrimPrefix(c.PreviewFormat, "."))
}

// abs resolves p against BaseDir; empty stays empty.
func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

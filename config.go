// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageAws   = "aws"
)

// Config holds every setting used by an analysis. It can be loaded
// from a YAML file, and is otherwise filled with defaults.
type Config struct {
	Raster struct {
		// DPI is the resolution PDF pages are rendered at
		DPI       int    `yaml:"dpi"`
		// Command is the pdftoppm executable to use
		Command   string `yaml:"command"`
		FirstPage int    `yaml:"firstPage"`
		LastPage  int    `yaml:"lastPage"`
	} `yaml:"raster"`

	Preprocess struct {
		// Mode is one of gray, sauvola or threshold
		Mode          string  `yaml:"mode"`
		SauvolaK      float64 `yaml:"sauvolaK"`
		SauvolaWindow int     `yaml:"sauvolaWindow"`
		Threshold     int     `yaml:"threshold"`
	} `yaml:"preprocess"`

	Search struct {
		// Size is the side length of the structuring element
		Size          int     `yaml:"size"`
		Threshold     float64 `yaml:"threshold"`
		MaxIterations int     `yaml:"maxIterations"`
	} `yaml:"search"`

	Output struct {
		Dir        string `yaml:"dir"`
		Series     bool   `yaml:"series"`
		Graph      bool   `yaml:"graph"`
		Report     bool   `yaml:"report"`
		SaveImages bool   `yaml:"saveImages"`
	} `yaml:"output"`

	Storage struct {
		// Backend is one of none, local or aws
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		Region  string `yaml:"region"`
		Bucket  string `yaml:"bucket"`
	} `yaml:"storage"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Raster.DPI = 200
	cfg.Raster.Command = "pdftoppm"
	cfg.Raster.FirstPage = 1
	cfg.Raster.LastPage = 1

	cfg.Preprocess.Mode = ModeGray
	cfg.Preprocess.SauvolaK = 0.3
	cfg.Preprocess.SauvolaWindow = 0
	cfg.Preprocess.Threshold = 128

	cfg.Search.Size = 2
	cfg.Search.Threshold = 5
	cfg.Search.MaxIterations = DefaultMaxIterations

	cfg.Output.Dir = "."
	cfg.Output.Series = true
	cfg.Output.Graph = true
	cfg.Output.Report = false
	cfg.Output.SaveImages = false

	cfg.Storage.Backend = StorageNone
	cfg.Storage.Region = defaultAwsRegion
	cfg.Storage.Bucket = storageResults

	return cfg
}

// LoadConfig loads configuration from a YAML file, with any settings
// it doesn't contain left at their defaults. If the file doesn't
// exist the default configuration is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Error reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Error parsing config file %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("Error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("Error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("Error writing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if c.Raster.DPI < 1 {
		return fmt.Errorf("Invalid resolution %d", c.Raster.DPI)
	}
	if c.Search.Size < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidElement, c.Search.Size)
	}
	if c.Search.MaxIterations < 0 {
		return fmt.Errorf("Invalid maximum iterations %d", c.Search.MaxIterations)
	}
	switch c.Preprocess.Mode {
	case ModeGray, ModeSauvola, ModeThreshold:
	default:
		return fmt.Errorf("Unknown preprocessing mode %q", c.Preprocess.Mode)
	}
	if c.Preprocess.Threshold < 0 || c.Preprocess.Threshold > 255 {
		return fmt.Errorf("Invalid binarisation threshold %d", c.Preprocess.Threshold)
	}
	switch c.Storage.Backend {
	case StorageNone, StorageLocal, StorageAws:
	default:
		return fmt.Errorf("Unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// PreprocessOptions returns the preprocessing settings
func (c *Config) PreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Mode:          c.Preprocess.Mode,
		SauvolaK:      c.Preprocess.SauvolaK,
		SauvolaWindow: c.Preprocess.SauvolaWindow,
		Threshold:     uint8(c.Preprocess.Threshold),
	}
}

// Rasterizer returns a Rasterizer suitable for the document at path
func (c *Config) Rasterizer(path string) Rasterizer {
	r := RasterizerFor(path, c.Raster.DPI)
	if p, ok := r.(PdfRasterizer); ok {
		p.Command = c.Raster.Command
		p.FirstPage = c.Raster.FirstPage
		p.LastPage = c.Raster.LastPage
		return p
	}
	return r
}

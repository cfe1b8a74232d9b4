// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(dir, "nonexistent.yaml"))
		if err != nil {
			t.Fatalf("Error loading missing config: %v", err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("Missing config differs from defaults (-want +got):\n%s", diff)
		}
	})

	t.Run("partial", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		yml := "search:\n  size: 3\n  threshold: 10\npreprocess:\n  mode: sauvola\n"
		if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
			t.Fatalf("Error writing config: %v", err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Error loading config: %v", err)
		}
		want := DefaultConfig()
		want.Search.Size = 3
		want.Search.Threshold = 10
		want.Preprocess.Mode = ModeSauvola
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("Config differs (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(path, []byte("search:\n  size: 0\n"), 0644); err != nil {
			t.Fatalf("Error writing config: %v", err)
		}
		_, err := LoadConfig(path)
		if err == nil {
			t.Errorf("Expected an error loading an invalid config")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "malformed.yaml")
		if err := os.WriteFile(path, []byte("search: [1, 2\n"), 0644); err != nil {
			t.Fatalf("Error writing config: %v", err)
		}
		_, err := LoadConfig(path)
		if err == nil {
			t.Errorf("Expected an error loading a malformed config")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "linewidth.yaml")
	cfg := DefaultConfig()
	cfg.Raster.DPI = 300
	cfg.Storage.Backend = StorageLocal
	cfg.Storage.Dir = "/tmp/store"

	err := SaveConfig(cfg, path)
	if err != nil {
		t.Fatalf("Error saving config: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Error loading saved config: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("Saved config differs (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		alter func(*Config)
		ok    bool
	}{
		{"default", func(c *Config) {}, true},
		{"dpi", func(c *Config) { c.Raster.DPI = 0 }, false},
		{"size", func(c *Config) { c.Search.Size = 0 }, false},
		{"maxiter", func(c *Config) { c.Search.MaxIterations = -1 }, false},
		{"unlimited", func(c *Config) { c.Search.MaxIterations = 0 }, true},
		{"mode", func(c *Config) { c.Preprocess.Mode = "colour" }, false},
		{"threshold", func(c *Config) { c.Preprocess.Threshold = 256 }, false},
		{"backend", func(c *Config) { c.Storage.Backend = "ftp" }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.alter(cfg)
			err := cfg.Validate()
			if c.ok && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !c.ok && err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestConfigRasterizer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Raster.DPI = 150
	cfg.Raster.Command = "/usr/local/bin/pdftoppm"

	r := cfg.Rasterizer("book.PDF")
	want := PdfRasterizer{DPI: 150, Command: "/usr/local/bin/pdftoppm", FirstPage: 1, LastPage: 1}
	if diff := cmp.Diff(Rasterizer(want), r); diff != "" {
		t.Errorf("Rasterizer differs (-want +got):\n%s", diff)
	}

	if _, ok := cfg.Rasterizer("page.png").(ImageRasterizer); !ok {
		t.Errorf("Expected an ImageRasterizer for a png")
	}
}

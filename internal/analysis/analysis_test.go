// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"rescribe.xyz/linewidth"
)

// writeBar saves a white page with a black vertical stroke 6 pixels
// wide to dir/name.png
func writeBar(t *testing.T, dir string, name string) string {
	img := image.NewGray(image.Rect(0, 0, 30, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 30; x++ {
			v := uint8(255)
			if x >= 5 && x <= 10 {
				v = 0
			}
			img.SetGray(x, y, color.Gray{v})
		}
	}
	p := filepath.Join(dir, name+".png")
	err := linewidth.SaveGray(p, img)
	if err != nil {
		t.Fatalf("Error saving test page: %v", err)
	}
	return p
}

func testConfig(dir string) *linewidth.Config {
	cfg := linewidth.DefaultConfig()
	cfg.Search.Size = 3
	cfg.Search.Threshold = 5
	cfg.Output.Dir = filepath.Join(dir, "out")
	return cfg
}

func TestAnalyse(t *testing.T) {
	dir := t.TempDir()
	var n NullWriter
	logger := log.New(n, "", 0)

	conn := &linewidth.LocalConn{Dir: filepath.Join(dir, "store"), Logger: logger}
	err := conn.Init()
	if err != nil {
		t.Fatalf("Error initialising storage: %v", err)
	}

	cases := []struct {
		name    string
		report  bool
		images  bool
		outputs []string
	}{
		{"plain", false, false, []string{"plain_darkness.tsv", "plain_graph.png"}},
		{"report", true, false, []string{"report_darkness.tsv", "report_graph.png", "report_page.png", "report_report.pdf"}},
		{"images", false, true, []string{"images_darkness.tsv", "images_graph.png", "images_iter001.png", "images_iter002.png", "images_iter003.png", "images_page.png"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeBar(t, dir, c.name)
			cfg := testConfig(dir)
			cfg.Output.Report = c.report
			cfg.Output.SaveImages = c.images

			s, err := Analyse(context.Background(), path, cfg, conn, logger)
			if err != nil {
				t.Fatalf("Error analysing %s: %v", path, err)
			}
			if s.Name != c.name {
				t.Errorf("Expected name %s, got %s", c.name, s.Name)
			}
			if s.Result.Iterations != 3 {
				t.Errorf("Expected 3 iterations, got %d", s.Result.Iterations)
			}

			var outs []string
			for _, o := range s.Outputs {
				if _, err := os.Stat(o); err != nil {
					t.Errorf("Output %s not saved: %v", o, err)
				}
				outs = append(outs, filepath.Base(o))
			}
			sort.Strings(outs)
			if diff := cmp.Diff(c.outputs, outs); diff != "" {
				t.Errorf("Outputs differ (-want +got):\n%s", diff)
			}

			fetchdir := filepath.Join(dir, "fetched", c.name)
			fetched, err := Fetch(conn, c.name, fetchdir)
			if err != nil {
				t.Fatalf("Error fetching results: %v", err)
			}
			if len(fetched) != len(c.outputs) {
				t.Errorf("Expected %d stored results, got %d", len(c.outputs), len(fetched))
			}

			f, err := os.Open(filepath.Join(fetchdir, c.name+"_darkness.tsv"))
			if err != nil {
				t.Fatalf("Could not open fetched series: %v", err)
			}
			defer f.Close()
			series, err := linewidth.ReadSeries(f)
			if err != nil {
				t.Fatalf("Error reading fetched series: %v", err)
			}
			if diff := cmp.Diff(s.Result.Series, series); diff != "" {
				t.Errorf("Fetched series differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyseFirstRound(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	path := filepath.Join(dir, "blank.png")
	err := linewidth.SaveGray(path, img)
	if err != nil {
		t.Fatalf("Error saving test page: %v", err)
	}

	var buf bytes.Buffer
	conn := &linewidth.LocalConn{Dir: filepath.Join(dir, "store"), Logger: log.New(&buf, "", 0)}
	err = conn.Init()
	if err != nil {
		t.Fatalf("Error initialising storage: %v", err)
	}

	cfg := linewidth.DefaultConfig()
	cfg.Output.Dir = filepath.Join(dir, "out")
	s, err := Analyse(context.Background(), path, cfg, conn, nil)
	if err != nil {
		t.Fatalf("Error analysing a blank page: %v", err)
	}
	if diff := cmp.Diff(linewidth.Result{Series: linewidth.Series{{Iterations: 1, Darkness: 0}}, Iterations: 1}, s.Result); diff != "" {
		t.Errorf("Result differs (-want +got):\n%s", diff)
	}
	if s.Breakpoint.Found() {
		t.Errorf("Expected no breakpoint for a single sample, got %v", s.Breakpoint)
	}

	graph := filepath.Join(cfg.Output.Dir, "blank_graph.png")
	if _, err := os.Stat(graph); err != nil {
		t.Errorf("Graph not saved: %v", err)
	}
	for _, key := range []string{"blank/blank_darkness.tsv", "blank/blank_graph.png"} {
		if !strings.Contains(buf.String(), "Uploading "+key) {
			t.Errorf("Upload of %s not logged by the storage connection: %q", key, buf.String())
		}
	}
}

func TestAnalyseNotConverged(t *testing.T) {
	dir := t.TempDir()
	path := writeBar(t, dir, "capped")
	cfg := testConfig(dir)
	cfg.Search.MaxIterations = 2

	s, err := Analyse(context.Background(), path, cfg, nil, nil)
	if !errors.Is(err, linewidth.ErrNotConverged) {
		t.Fatalf("Expected %v, got %v", linewidth.ErrNotConverged, err)
	}
	partial := filepath.Join(cfg.Output.Dir, "capped_darkness.partial.tsv")
	if diff := cmp.Diff([]string{partial}, s.Outputs); diff != "" {
		t.Errorf("Outputs differ (-want +got):\n%s", diff)
	}
	f, err := os.Open(partial)
	if err != nil {
		t.Fatalf("Could not open partial series: %v", err)
	}
	defer f.Close()
	series, err := linewidth.ReadSeries(f)
	if err != nil {
		t.Fatalf("Error reading partial series: %v", err)
	}
	if len(series) != 2 {
		t.Errorf("Expected 2 samples in partial series, got %d", len(series))
	}
}

func TestAnalyseErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	_, err := Analyse(context.Background(), filepath.Join(dir, "missing.png"), cfg, nil, nil)
	if err == nil {
		t.Errorf("Expected an error analysing a missing file")
	}

	path := writeBar(t, dir, "cancelled")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Analyse(ctx, path, cfg, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected a cancellation error, got %v", err)
	}
}

func TestFetchMissing(t *testing.T) {
	dir := t.TempDir()
	var n NullWriter
	conn := &linewidth.LocalConn{Dir: filepath.Join(dir, "store"), Logger: log.New(n, "", 0)}
	err := conn.Init()
	if err != nil {
		t.Fatalf("Error initialising storage: %v", err)
	}
	_, err = Fetch(conn, "nothing", filepath.Join(dir, "out"))
	if err == nil {
		t.Errorf("Expected an error fetching missing results")
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		path string
		name string
	}{
		{"/a/b/book.pdf", "book"},
		{"page.01.png", "page.01"},
		{"noext", "noext"},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			if n := Name(c.path); n != c.name {
				t.Errorf("Expected %s, got %s", c.name, n)
			}
		})
	}
}

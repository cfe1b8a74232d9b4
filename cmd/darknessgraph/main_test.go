// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestGraphFile(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name   string
		series string
		ok     bool
	}{
		{"single", "1\t0.000000\n", true},
		{"converged", "1\t51.000000\n2\t51.000000\n3\t0.000000\n", true},
		{"empty", "", false},
		{"malformed", "1\tdark\n", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := filepath.Join(dir, c.name+"_darkness.tsv")
			out := filepath.Join(dir, c.name+".png")
			if err := os.WriteFile(in, []byte(c.series), 0644); err != nil {
				t.Fatalf("Error writing series: %v", err)
			}
			err := graphFile(in, out, 5)
			if !c.ok {
				if err == nil {
					t.Errorf("Expected an error graphing %q", c.series)
				}
				return
			}
			if err != nil {
				t.Fatalf("Error graphing series: %v", err)
			}
			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("Could not open graph: %v", err)
			}
			defer f.Close()
			if _, err := png.DecodeConfig(f); err != nil {
				t.Errorf("Graph is not a valid PNG: %v", err)
			}
		})
	}

	if err := graphFile(filepath.Join(dir, "missing.tsv"), filepath.Join(dir, "missing.png"), 5); err == nil {
		t.Errorf("Expected an error graphing a missing file")
	}
}

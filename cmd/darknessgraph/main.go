// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/linewidth"
)

const usage = `Usage: darknessgraph [-t threshold] series.tsv graph.png

darknessgraph creates a graph of darkness against iterations from a
series saved by linewidth, marking the threshold and the breakpoint.
`

func main() {
	thresh := flag.Float64("t", linewidth.DefaultConfig().Search.Threshold, "darkness threshold to mark")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	err := graphFile(flag.Arg(0), flag.Arg(1), *thresh)
	if err != nil {
		log.Fatalln(err)
	}
}

// graphFile reads the series saved at in and saves a graph of it to
// out, titled with the series name
func graphFile(in string, out string, thresh float64) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("Error opening file %s: %w", in, err)
	}
	defer f.Close()
	series, err := linewidth.ReadSeries(f)
	if err != nil {
		return fmt.Errorf("Error reading series %s: %w", in, err)
	}

	bp := linewidth.FindBreakpoint(series)
	title := strings.TrimSuffix(filepath.Base(in), ".tsv")

	o, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("Error creating file %s: %w", out, err)
	}
	defer o.Close()
	err = linewidth.Graph(series, bp, thresh, title, o)
	if err != nil {
		return fmt.Errorf("Error creating graph: %w", err)
	}
	return o.Close()
}

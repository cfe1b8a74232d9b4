// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// linewidth estimates the width of the strokes on the first page of a
// document, by finding how many rounds of morphological closing are
// needed before the page is nearly empty of ink.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"rescribe.xyz/linewidth"
	"rescribe.xyz/linewidth/internal/analysis"
)

const usage = `Usage: linewidth [-v] [-c config.yaml] [-dpi n] [-size n] [-t threshold] [-max n] [-mode gray|sauvola|threshold] [-o dir] [-store none|local|aws] [-saveimages] [-report] document

Estimates the width of the strokes on the first page of a document (a
PDF, or a PNG, JPEG, TIFF or BMP image).

The page is repeatedly simplified by dilating and then eroding it with
a square structuring element, using 1, 2, 3... iterations, until its
darkness (255 minus its mean intensity) is at or below the threshold.
The number of iterations needed is printed, along with the iteration
at which darkness dropped most sharply (the breakpoint).

A tab separated file of darkness for each iteration and a graph of it
are saved in the output directory, and can optionally be stored with
the -store option.

Settings can be given in a YAML configuration file, and are overridden
by any flags given. Use -writeconfig to save the effective settings.
`

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conffile := flag.String("c", "", "YAML configuration file")
	writeconf := flag.String("writeconfig", "", "save the effective configuration to this file and exit")
	dpi := flag.Int("dpi", 0, "resolution to rasterise PDFs at")
	size := flag.Int("size", 0, "side length of the structuring element")
	thresh := flag.Float64("t", -1, "darkness threshold to stop at")
	maxiter := flag.Int("max", 0, "maximum number of iterations to try")
	mode := flag.String("mode", "", "preprocessing mode: gray, sauvola or threshold")
	outdir := flag.String("o", "", "directory to save results in")
	store := flag.String("store", "", "where to store results: none, local or aws")
	saveimages := flag.Bool("saveimages", false, "save the preprocessed page and each simplified image")
	report := flag.Bool("report", false, "create a PDF report")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := linewidth.DefaultConfig()
	var err error
	if *conffile != "" {
		cfg, err = linewidth.LoadConfig(*conffile)
		if err != nil {
			log.Fatalln("Error loading configuration:", err)
		}
	}

	if *dpi != 0 {
		cfg.Raster.DPI = *dpi
	}
	if *size != 0 {
		cfg.Search.Size = *size
	}
	if *thresh >= 0 {
		cfg.Search.Threshold = *thresh
	}
	if *maxiter != 0 {
		cfg.Search.MaxIterations = *maxiter
	}
	if *mode != "" {
		cfg.Preprocess.Mode = *mode
	}
	if *outdir != "" {
		cfg.Output.Dir = *outdir
	}
	if *store != "" {
		cfg.Storage.Backend = *store
	}
	if *saveimages {
		cfg.Output.SaveImages = true
	}
	if *report {
		cfg.Output.Report = true
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatalln("Invalid configuration:", err)
	}

	if *writeconf != "" {
		err = linewidth.SaveConfig(cfg, *writeconf)
		if err != nil {
			log.Fatalln(err)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stdout, "", 0)
	} else {
		var n analysis.NullWriter
		verboselog = log.New(n, "", 0)
	}

	var conn analysis.Uploader
	switch cfg.Storage.Backend {
	case linewidth.StorageLocal:
		c := &linewidth.LocalConn{Dir: cfg.Storage.Dir, Logger: verboselog}
		err = c.Init()
		conn = c
	case linewidth.StorageAws:
		c := &linewidth.AwsConn{Region: cfg.Storage.Region, Bucket: cfg.Storage.Bucket, Logger: verboselog}
		err = c.Init()
		if err == nil {
			err = c.CreateBucket(c.ResultsStorageId())
		}
		conn = c
	}
	if err != nil {
		log.Fatalln("Error setting up storage:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := analysis.Analyse(ctx, flag.Arg(0), cfg, conn, verboselog)
	if errors.Is(err, linewidth.ErrNotConverged) {
		stop()
		log.Fatalf("%v\nTry a higher threshold, or a larger -max\n", err)
	}
	if err != nil {
		stop()
		log.Fatalln("Error analysing", flag.Arg(0), err)
	}

	last, _ := summary.Result.Series.Last()
	fmt.Printf("Iterations: %d\n", summary.Result.Iterations)
	fmt.Printf("Darkness: %.2f\n", last.Darkness)
	if summary.Breakpoint.Found() {
		b := summary.Result.Series[summary.Breakpoint.Index-1]
		fmt.Printf("Breakpoint: %d (change %.2f)\n", b.Iterations, summary.Breakpoint.Magnitude)
	} else {
		fmt.Println("Breakpoint: none")
	}
	for _, p := range summary.Outputs {
		verboselog.Println("Saved", p)
	}
}

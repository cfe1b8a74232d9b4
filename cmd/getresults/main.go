// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"rescribe.xyz/linewidth"
	"rescribe.xyz/linewidth/internal/analysis"
)

const usage = `Usage: getresults [-v] [-c config.yaml] [-store local|aws] name [dir]

Downloads the stored linewidth results for a document, which are saved
under the document's file name without its extension. The results are
saved into dir, or a directory named after the document if no dir is
given.
`

type Conner interface {
	analysis.DownloadLister
	Init() error
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conffile := flag.String("c", "", "YAML configuration file")
	store := flag.String("store", "", "where results are stored: local or aws")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	} else {
		var n analysis.NullWriter
		verboselog = log.New(n, "", log.LstdFlags)
	}

	cfg := linewidth.DefaultConfig()
	var err error
	if *conffile != "" {
		cfg, err = linewidth.LoadConfig(*conffile)
		if err != nil {
			log.Fatalln("Error loading configuration:", err)
		}
	}
	if *store != "" {
		cfg.Storage.Backend = *store
	}

	var conn Conner
	switch cfg.Storage.Backend {
	case linewidth.StorageLocal:
		conn = &linewidth.LocalConn{Dir: cfg.Storage.Dir, Logger: verboselog}
	case linewidth.StorageAws:
		conn = &linewidth.AwsConn{Region: cfg.Storage.Region, Bucket: cfg.Storage.Bucket, Logger: verboselog}
	default:
		log.Fatalln("No storage backend to get results from; use -store local or -store aws")
	}

	verboselog.Println("Setting up storage")
	err = conn.Init()
	if err != nil {
		log.Fatalln("Error setting up storage:", err)
	}

	name := flag.Arg(0)
	dir := name
	if flag.NArg() > 1 {
		dir = flag.Arg(1)
	}

	done, err := analysis.Fetch(conn, name, dir)
	if err != nil {
		log.Fatalln(err)
	}
	for _, p := range done {
		fmt.Println(p)
	}
}

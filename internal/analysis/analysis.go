// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// analysis is a package used by the linewidth commands, which runs
// a complete darkness analysis of a document and saves and stores
// the results. Note that it is considered an "internal" package,
// not intended for external use, and no guarantee is made of the
// stability of any interfaces provided.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/linewidth"
)

type Uploader interface {
	Log(v ...interface{})
	Upload(bucket string, key string, path string) error
	ResultsStorageId() string
}

// Summary describes a finished analysis
type Summary struct {
	Name       string
	Result     linewidth.Result
	Breakpoint linewidth.Breakpoint
	// Outputs lists the paths of every file saved
	Outputs []string
}

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// up reads file names from a channel and uploads them with the
// name/ prefix, logging each through conn. The done channel is then
// written to to signal completion. If an error occurs it is sent to
// the errc channel and the function returns early.
func up(ctx context.Context, c chan string, done chan bool, conn Uploader, name string, errc chan error) {
	for path := range c {
		select {
		case <-ctx.Done():
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			return
		default:
		}
		key := name + "/" + filepath.Base(path)
		conn.Log("Uploading", key)
		err := conn.Upload(conn.ResultsStorageId(), key, path)
		if err != nil {
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error uploading %s: %w", key, err)
			return
		}
	}

	done <- true
}

// Name returns the name results for a document are saved under,
// which is its file name without the extension
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Analyse rasterises the document at path, and finds how many
// iterations of simplification are needed to reduce the darkness of
// its first page to the configured threshold. The results are saved
// to cfg.Output.Dir and, if conn is not nil, uploaded to storage.
//
// If the threshold isn't reached, any partial series is still saved,
// and an error matching linewidth.ErrNotConverged is returned.
func Analyse(ctx context.Context, path string, cfg *linewidth.Config, conn Uploader, logger *log.Logger) (Summary, error) {
	if logger == nil {
		var n NullWriter
		logger = log.New(n, "", 0)
	}
	name := Name(path)
	summary := Summary{Name: name}

	err := os.MkdirAll(cfg.Output.Dir, 0755)
	if err != nil {
		return summary, fmt.Errorf("Error creating output directory %s: %w", cfg.Output.Dir, err)
	}
	outpath := func(suffix string) string {
		return filepath.Join(cfg.Output.Dir, name+suffix)
	}

	logger.Println("Rasterising", path)
	pg, err := linewidth.FirstPage(ctx, cfg.Rasterizer(path), path)
	if err != nil {
		return summary, fmt.Errorf("Error rasterising %s: %w", path, err)
	}

	logger.Println("Preprocessing", path, "with mode", cfg.Preprocess.Mode)
	gray, err := linewidth.Preprocess(pg, cfg.PreprocessOptions())
	if err != nil {
		return summary, fmt.Errorf("Error preprocessing %s: %w", path, err)
	}

	upc := make(chan string)
	done := make(chan bool)
	errc := make(chan error)
	if conn != nil {
		go up(ctx, upc, done, conn, name, errc)
	}

	var saveErr error
	save := func(p string) {
		summary.Outputs = append(summary.Outputs, p)
		if conn != nil {
			upc <- p
		}
	}
	saveImg := func(p string, img *image.Gray) {
		if saveErr != nil {
			return
		}
		saveErr = linewidth.SaveGray(p, img)
		if saveErr == nil {
			save(p)
		}
	}

	pagepath := outpath("_page.png")
	if cfg.Output.SaveImages || cfg.Output.Report {
		saveImg(pagepath, gray)
	}

	opts := linewidth.ConvergeOptions{
		Size:          cfg.Search.Size,
		Threshold:     cfg.Search.Threshold,
		MaxIterations: cfg.Search.MaxIterations,
		Logger:        logger,
	}
	if cfg.Output.SaveImages {
		opts.OnRound = func(s linewidth.Sample, img *image.Gray) {
			saveImg(outpath(fmt.Sprintf("_iter%03d.png", s.Iterations)), img)
		}
	}

	logger.Println("Searching for darkness threshold", cfg.Search.Threshold, "with element size", cfg.Search.Size)
	res, err := linewidth.Converge(ctx, gray, opts)
	if err == nil {
		err = saveErr
	}
	if err != nil {
		var nc *linewidth.NotConvergedError
		if errors.As(err, &nc) && len(nc.Series) > 0 {
			p := outpath("_darkness.partial.tsv")
			logger.Println("Saving partial series to", p)
			if werr := writeSeries(p, nc.Series); werr == nil {
				save(p)
			}
		}
		return summary, finish(conn, upc, done, errc, err)
	}

	summary.Result = res
	summary.Breakpoint = linewidth.FindBreakpoint(res.Series)

	err = saveOutputs(cfg, summary, name, pagepath, outpath, save, logger)
	return summary, finish(conn, upc, done, errc, err)
}

// finish closes the upload channel and waits for uploading to end,
// returning err if it is set and otherwise any upload error
func finish(conn Uploader, upc chan string, done chan bool, errc chan error, err error) error {
	if conn == nil {
		return err
	}
	close(upc)
	select {
	case <-done:
	case uerr := <-errc:
		if err == nil {
			err = uerr
		}
	}
	return err
}

func saveOutputs(cfg *linewidth.Config, summary Summary, name string, pagepath string, outpath func(string) string, save func(string), logger *log.Logger) error {
	if cfg.Output.Series {
		p := outpath("_darkness.tsv")
		logger.Println("Saving series to", p)
		err := writeSeries(p, summary.Result.Series)
		if err != nil {
			return err
		}
		save(p)
	}

	graphpath := outpath("_graph.png")
	if cfg.Output.Graph || cfg.Output.Report {
		logger.Println("Creating graph", graphpath)
		err := writeGraph(graphpath, summary.Result.Series, summary.Breakpoint, cfg.Search.Threshold, name)
		if err != nil {
			return err
		}
		if cfg.Output.Graph {
			save(graphpath)
		}
	}

	if cfg.Output.Report {
		p := outpath("_report.pdf")
		logger.Println("Creating report", p)
		err := writeReport(p, cfg, summary, graphpath, pagepath)
		if err != nil {
			return err
		}
		if !cfg.Output.Graph {
			_ = os.Remove(graphpath)
		}
		save(p)
	}

	return nil
}

func writeSeries(path string, s linewidth.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Error creating file %s: %w", path, err)
	}
	defer f.Close()
	err = linewidth.WriteSeries(f, s)
	if err != nil {
		return err
	}
	return f.Close()
}

func writeGraph(path string, s linewidth.Series, bp linewidth.Breakpoint, threshold float64, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Error creating file %s: %w", path, err)
	}
	defer f.Close()
	err = linewidth.Graph(s, bp, threshold, title, f)
	if err != nil {
		return fmt.Errorf("Error creating graph: %w", err)
	}
	return f.Close()
}

func writeReport(path string, cfg *linewidth.Config, summary Summary, graphpath string, pagepath string) error {
	r := new(linewidth.Report)
	err := r.Setup(summary.Name)
	if err != nil {
		return fmt.Errorf("Failed to set up PDF: %w", err)
	}
	err = r.AddSummary(linewidth.SummaryOptions{
		Name:      summary.Name,
		Size:      cfg.Search.Size,
		Threshold: cfg.Search.Threshold,
		Mode:      cfg.Preprocess.Mode,
		DPI:       cfg.Raster.DPI,
	}, summary.Result, summary.Breakpoint)
	if err != nil {
		return fmt.Errorf("Failed to add summary to PDF: %w", err)
	}

	g, err := os.Open(graphpath)
	if err != nil {
		return fmt.Errorf("Could not open file %s: %w", graphpath, err)
	}
	defer g.Close()
	err = r.AddGraph(filepath.Base(graphpath), g)
	if err != nil {
		return err
	}

	err = r.AddPageImage(pagepath)
	if err != nil {
		return fmt.Errorf("Failed to add page %s to PDF: %w", pagepath, err)
	}

	return r.Save(path)
}

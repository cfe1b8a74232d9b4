// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/nickjwhite/gofpdf"
)

const pageWidth = 5 // pageWidth in inches
const margin = 36   // margin in pt

// pxToPt converts a pixel value into a pt value (72 pts per inch)
// This uses pageWidth to determine the appropriate value
func pxToPt(i int) float64 {
	return float64(i) / pageWidth
}

// Report is a PDF summarising a darkness search
type Report struct {
	fpdf *gofpdf.Fpdf
}

// Setup creates a new PDF with appropriate settings and fonts
func (r *Report) Setup(title string) error {
	r.fpdf = gofpdf.New("P", "pt", "A4", "")
	r.fpdf.SetTitle(title, true)
	r.fpdf.SetFont("Helvetica", "", 10)
	r.fpdf.SetMargins(margin, margin, margin)
	r.fpdf.SetAutoPageBreak(true, margin)
	return r.fpdf.Error()
}

// SummaryOptions are the search settings printed in a report
type SummaryOptions struct {
	Name      string
	Size      int
	Threshold float64
	Mode      string
	DPI       int
}

// AddSummary adds a page describing the result of a search, followed
// by a table of every sample
func (r *Report) AddSummary(opts SummaryOptions, res Result, bp Breakpoint) error {
	r.fpdf.AddPage()
	r.fpdf.SetFont("Helvetica", "B", 16)
	r.fpdf.CellFormat(0, 24, opts.Name, "", 1, "L", false, 0, "")

	r.fpdf.SetFont("Helvetica", "", 10)
	mean, stddev := res.Series.StepStats()
	last, _ := res.Series.Last()
	lines := []string{
		fmt.Sprintf("Structuring element size: %d", opts.Size),
		fmt.Sprintf("Darkness threshold: %.2f", opts.Threshold),
		fmt.Sprintf("Preprocessing: %s", opts.Mode),
		fmt.Sprintf("Resolution: %d dpi", opts.DPI),
		fmt.Sprintf("Iterations to reach threshold: %d", res.Iterations),
		fmt.Sprintf("Final darkness: %.2f", last.Darkness),
		fmt.Sprintf("Mean step change: %.2f (standard deviation %.2f)", mean, stddev),
	}
	if bp.Found() {
		lines = append(lines, fmt.Sprintf("Breakpoint: iteration %d, change %.2f", res.Series[bp.Index-1].Iterations, bp.Magnitude))
	} else {
		lines = append(lines, "Breakpoint: none")
	}
	for _, l := range lines {
		r.fpdf.CellFormat(0, 14, l, "", 1, "L", false, 0, "")
	}

	r.fpdf.Ln(10)
	r.fpdf.SetFont("Helvetica", "B", 10)
	r.fpdf.CellFormat(80, 14, "Iterations", "1", 0, "C", false, 0, "")
	r.fpdf.CellFormat(80, 14, "Darkness", "1", 1, "C", false, 0, "")
	r.fpdf.SetFont("Helvetica", "", 10)
	for i, s := range res.Series {
		fill := bp.Found() && i == bp.Index-1
		if fill {
			r.fpdf.SetFillColor(255, 220, 220)
		}
		r.fpdf.CellFormat(80, 14, fmt.Sprintf("%d", s.Iterations), "1", 0, "C", fill, 0, "")
		r.fpdf.CellFormat(80, 14, fmt.Sprintf("%.2f", s.Darkness), "1", 1, "C", fill, 0, "")
	}
	return r.fpdf.Error()
}

// AddGraph adds a page containing a PNG graph read from g, scaled to
// fit the width of the page
func (r *Report) AddGraph(name string, g io.Reader) error {
	r.fpdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "png"}
	info := r.fpdf.RegisterImageOptionsReader(name, opts, g)
	if err := r.fpdf.Error(); err != nil {
		return fmt.Errorf("Could not add graph %s: %w", name, err)
	}
	pw, _ := r.fpdf.GetPageSize()
	w := pw - 2*margin
	h := w * info.Height() / info.Width()
	r.fpdf.ImageOptions(name, margin, margin, w, h, false, opts, 0, "")
	return r.fpdf.Error()
}

// AddPageImage adds a page sized to fit an image file
func (r *Report) AddPageImage(imgpath string) error {
	f, err := os.Open(imgpath)
	if err != nil {
		return fmt.Errorf("Could not open file %s: %w", imgpath, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("Could not decode image %s: %w", imgpath, err)
	}
	r.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pxToPt(cfg.Width), Ht: pxToPt(cfg.Height)})
	_ = r.fpdf.RegisterImageOptions(imgpath, gofpdf.ImageOptions{})
	r.fpdf.ImageOptions(imgpath, 0, 0, pxToPt(cfg.Width), pxToPt(cfg.Height), false, gofpdf.ImageOptions{}, 0, "")
	return r.fpdf.Error()
}

// Save saves the PDF to the file at path
func (r *Report) Save(path string) error {
	return r.fpdf.OutputFileAndClose(path)
}

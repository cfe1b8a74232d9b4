// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Rasterizer converts a document into an image of each of its pages,
// in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) ([]image.Image, error)
}

// PdfRasterizer renders the pages of a PDF using poppler's pdftoppm.
type PdfRasterizer struct {
	// DPI is the resolution pages are rendered at, and must be set
	DPI int
	// Command is the pdftoppm executable; "pdftoppm" if empty
	Command string
	// FirstPage and LastPage limit which pages are rendered, if
	// nonzero (counting from 1)
	FirstPage, LastPage int
}

// Rasterize renders each page of the PDF at path into an image
func (p PdfRasterizer) Rasterize(ctx context.Context, path string) ([]image.Image, error) {
	if p.DPI < 1 {
		return nil, fmt.Errorf("Invalid resolution %d for rasterising %s", p.DPI, path)
	}
	cmdname := p.Command
	if cmdname == "" {
		cmdname = "pdftoppm"
	}

	dir, err := os.MkdirTemp("", "linewidth")
	if err != nil {
		return nil, fmt.Errorf("Error creating temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{"-r", strconv.Itoa(p.DPI), "-png"}
	if p.FirstPage > 0 {
		args = append(args, "-f", strconv.Itoa(p.FirstPage))
	}
	if p.LastPage > 0 {
		args = append(args, "-l", strconv.Itoa(p.LastPage))
	}
	args = append(args, path, filepath.Join(dir, "pg"))

	cmd := exec.CommandContext(ctx, cmdname, args...)
	HideCmd(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("Error rasterising %s with %s: %w\nStdout: %s\nStderr: %s", path, cmdname, err, stdout.String(), stderr.String())
	}

	names, err := filepath.Glob(filepath.Join(dir, "pg-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool { return pageNum(names[i]) < pageNum(names[j]) })

	var pgs []image.Image
	for _, n := range names {
		img, err := decodeFile(n)
		if err != nil {
			return pgs, err
		}
		pgs = append(pgs, img)
	}
	return pgs, nil
}

// pageNum extracts the page number from a pdftoppm output name like
// pg-007.png, returning -1 if there isn't one
func pageNum(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), ".png")
	i := strings.LastIndex(base, "-")
	if i == -1 {
		return -1
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil {
		return -1
	}
	return n
}

// ImageRasterizer treats an image file as a document of one page.
// PNG, JPEG, GIF, TIFF and BMP images are supported.
type ImageRasterizer struct{}

// Rasterize decodes the image at path
func (ImageRasterizer) Rasterize(ctx context.Context, path string) ([]image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return []image.Image{img}, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open file %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Could not decode image %s: %w", path, err)
	}
	return img, nil
}

// RasterizerFor picks a suitable Rasterizer for a file based on its
// extension, rendering PDFs at dpi.
func RasterizerFor(path string, dpi int) Rasterizer {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return PdfRasterizer{DPI: dpi}
	}
	return ImageRasterizer{}
}

// FirstPage returns the first page of a document, or ErrEmptyInput if
// it has none.
func FirstPage(ctx context.Context, r Rasterizer, path string) (image.Image, error) {
	pgs, err := r.Rasterize(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(pgs) == 0 {
		return nil, fmt.Errorf("%w: no pages found in %s", ErrEmptyInput, path)
	}
	return pgs[0], nil
}

// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"errors"
	"fmt"
	"image"
)

// ErrNegativeIterations is returned when a morphological operation
// is asked to run a negative number of times.
var ErrNegativeIterations = errors.New("Number of iterations must not be negative")

// Simplify dilates img iterations times with e, and then erodes the
// result iterations times with the same element. On a page of dark
// ink on a light background this progressively erases thin strokes
// and small dark areas, while larger dark regions survive for longer.
// The input image is never modified; with 0 iterations a copy of it
// is returned.
func Simplify(img *image.Gray, e Element, iterations int) (*image.Gray, error) {
	dilated, err := Dilate(img, e, iterations)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, e, iterations)
}

// Dilate replaces each pixel with the lightest pixel in the window
// covered by e, n times over. Parts of the window falling outside
// of the image are ignored.
func Dilate(img *image.Gray, e Element, n int) (*image.Gray, error) {
	return morph(img, e, n, lighter)
}

// Erode replaces each pixel with the darkest pixel in the window
// covered by e, n times over. Parts of the window falling outside
// of the image are ignored.
func Erode(img *image.Gray, e Element, n int) (*image.Gray, error) {
	return morph(img, e, n, darker)
}

func lighter(a, b uint8) bool { return a > b }
func darker(a, b uint8) bool  { return a < b }

func morph(img *image.Gray, e Element, n int, better func(a, b uint8) bool) (*image.Gray, error) {
	if !e.valid() {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidElement, e.size)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNegativeIterations, n)
	}
	if img == nil {
		return nil, ErrEmptyInput
	}

	cur := cloneGray(img)
	if e.size == 1 || n == 0 {
		return cur, nil
	}

	lo, hi := e.span()
	tmp := image.NewGray(cur.Bounds())
	for i := 0; i < n; i++ {
		// a square element is separable, so filter the rows into tmp
		// and then the columns of tmp back into cur
		filterRows(tmp, cur, lo, hi, better)
		filterCols(cur, tmp, lo, hi, better)
	}
	return cur, nil
}

// filterRows sets each pixel of dst to the best pixel of src in
// the horizontal window [x+lo, x+hi], clipped to the image.
func filterRows(dst, src *image.Gray, lo, hi int, better func(a, b uint8) bool) {
	b := src.Bounds()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		srow := src.Pix[src.PixOffset(b.Min.X, y):][:w]
		drow := dst.Pix[dst.PixOffset(b.Min.X, y):][:w]
		for x := 0; x < w; x++ {
			start, end := clip(x+lo, x+hi, w)
			v := srow[start]
			for i := start + 1; i <= end; i++ {
				if better(srow[i], v) {
					v = srow[i]
				}
			}
			drow[x] = v
		}
	}
}

// filterCols sets each pixel of dst to the best pixel of src in
// the vertical window [y+lo, y+hi], clipped to the image.
func filterCols(dst, src *image.Gray, lo, hi int, better func(a, b uint8) bool) {
	b := src.Bounds()
	h := b.Dy()
	for x := b.Min.X; x < b.Max.X; x++ {
		soff := src.PixOffset(x, b.Min.Y)
		doff := dst.PixOffset(x, b.Min.Y)
		for y := 0; y < h; y++ {
			start, end := clip(y+lo, y+hi, h)
			v := src.Pix[soff+start*src.Stride]
			for i := start + 1; i <= end; i++ {
				p := src.Pix[soff+i*src.Stride]
				if better(p, v) {
					v = p
				}
			}
			dst.Pix[doff+y*dst.Stride] = v
		}
	}
}

func clip(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > length-1 {
		end = length - 1
	}
	return start, end
}

// cloneGray returns a copy of img with the same bounds
func cloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	c := image.NewGray(b)
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		copy(c.Pix[c.PixOffset(b.Min.X, y):][:w], img.Pix[img.PixOffset(b.Min.X, y):][:w])
	}
	return c
}

// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"rescribe.xyz/preproc"
)

// Preprocessing modes
const (
	ModeGray      = "gray"
	ModeSauvola   = "sauvola"
	ModeThreshold = "threshold"
)

// PreprocessOptions controls how a page is turned into the single
// channel image that darkness is measured on.
type PreprocessOptions struct {
	Mode string
	// SauvolaK and SauvolaWindow are used by ModeSauvola; a window
	// of 0 is chosen automatically from the image width
	SauvolaK      float64
	SauvolaWindow int
	// Threshold is used by ModeThreshold
	Threshold uint8
}

// ToGray converts an image to grayscale, with its origin at 0,0
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// autowsize guesses a reasonable Sauvola window size for a page
func autowsize(bounds image.Rectangle) int {
	return bounds.Dx() / 60
}

// Binarize converts a grayscale image to black and white using
// Sauvola's algorithm, with a window of wsize pixels (chosen from the
// image width if 0, and always made odd).
func Binarize(img *image.Gray, ksize float64, wsize int) *image.Gray {
	if wsize == 0 {
		wsize = autowsize(img.Bounds())
	}
	if wsize%2 == 0 {
		wsize++
	}
	return preproc.IntegralSauvola(img, ksize, wsize)
}

// Threshold converts a grayscale image to black and white, with any
// pixel darker than t becoming black and everything else white.
func Threshold(img *image.Gray, t uint8) *image.Gray {
	b := img.Bounds()
	bin := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y < t {
				bin.SetGray(x, y, color.Gray{0})
			} else {
				bin.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return bin
}

// Preprocess turns a rasterised page into a grayscale image ready for
// the darkness search, binarising it if the options ask for that.
func Preprocess(img image.Image, opts PreprocessOptions) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyInput
	}
	gray := ToGray(img)
	switch opts.Mode {
	case "", ModeGray:
		return gray, nil
	case ModeSauvola:
		return Binarize(gray, opts.SauvolaK, opts.SauvolaWindow), nil
	case ModeThreshold:
		return Threshold(gray, opts.Threshold), nil
	default:
		return nil, fmt.Errorf("Unknown preprocessing mode %q", opts.Mode)
	}
}

// SaveGray saves an image to path as a PNG
func SaveGray(path string, img *image.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Could not create file %s: %w", path, err)
	}
	defer f.Close()
	err = png.Encode(f, img)
	if err != nil {
		return fmt.Errorf("Could not encode image %s: %w", path, err)
	}
	return f.Close()
}

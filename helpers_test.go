// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"image"
	"image/color"
)

func imgsequal(img1 *image.Gray, img2 *image.Gray) bool {
	b := img1.Bounds()
	if !b.Eq(img2.Bounds()) {
		return false
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img1.GrayAt(x, y).Y != img2.GrayAt(x, y).Y {
				return false
			}
		}
	}
	return true
}

// uniform creates a w by h image with every pixel set to v
func uniform(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// fromRows creates an image from rows of pixel values
func fromRows(rows ...[]uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, r := range rows {
		for x, v := range r {
			img.SetGray(x, y, color.Gray{v})
		}
	}
	return img
}

// bar creates a w by h white image with a black vertical bar
// covering columns x0 to x1 inclusive
func bar(w, h, x0, x1 int) *image.Gray {
	img := uniform(w, h, 255)
	for y := 0; y < h; y++ {
		for x := x0; x <= x1; x++ {
			img.SetGray(x, y, color.Gray{0})
		}
	}
	return img
}

// pattern creates an image with a mix of thin and thick strokes and
// some intermediate grays, for tests which need something page-like
func pattern(w, h int) *image.Gray {
	img := uniform(w, h, 255)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x%7 == 0:
				img.SetGray(x, y, color.Gray{0})
			case y%11 < 3:
				img.SetGray(x, y, color.Gray{40})
			case (x*y)%13 == 0:
				img.SetGray(x, y, color.Gray{uint8((x + y) % 256)})
			}
		}
	}
	return img
}

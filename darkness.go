// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"image"
)

// Darkness returns 255 minus the mean intensity of an image, so that
// an entirely white image has a darkness of 0 and an entirely black
// one a darkness of 255. Images which aren't already grayscale are
// converted first. An image with no pixels has a darkness of 0.
func Darkness(img image.Image) float64 {
	gray, ok := img.(*image.Gray)
	if !ok {
		gray = ToGray(img)
	}

	b := gray.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum uint64
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, p := range gray.Pix[gray.PixOffset(b.Min.X, y):][:w] {
			sum += uint64(p)
		}
	}

	return 255 - float64(sum)/float64(n)
}

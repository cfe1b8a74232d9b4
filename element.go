// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"errors"
	"fmt"
)

// ErrInvalidElement is returned when a structuring element is
// requested with a side length below 1.
var ErrInvalidElement = errors.New("Structuring element size must be at least 1")

// Element is a square, all-ones structuring element.
type Element struct {
	size int
}

// NewElement creates a structuring element with sides of size pixels
func NewElement(size int) (Element, error) {
	if size < 1 {
		return Element{}, fmt.Errorf("%w, got %d", ErrInvalidElement, size)
	}
	return Element{size: size}, nil
}

// Size returns the length of the element's sides
func (e Element) Size() int {
	return e.size
}

// span returns the offsets from the anchor covered by the element,
// with the anchor at the centre (rounded down for even sizes).
func (e Element) span() (lo int, hi int) {
	anchor := e.size / 2
	return -anchor, e.size - 1 - anchor
}

func (e Element) valid() bool {
	return e.size >= 1
}

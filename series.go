// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is the darkness of an image after a number of iterations
type Sample struct {
	Iterations int
	Darkness   float64
}

// Series is a list of samples in increasing order of iterations
type Series []Sample

// Darknesses returns just the darkness values of the series
func (s Series) Darknesses() []float64 {
	d := make([]float64, len(s))
	for i, v := range s {
		d[i] = v.Darkness
	}
	return d
}

// Last returns the final sample of the series, if there is one
func (s Series) Last() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// steps returns the absolute change in darkness between each sample
// and the one before it, so steps()[i] is the change leading to s[i+1]
func (s Series) steps() []float64 {
	if len(s) < 2 {
		return nil
	}
	d := s.Darknesses()
	steps := make([]float64, len(d)-1)
	floats.SubTo(steps, d[:len(d)-1], d[1:])
	for i := range steps {
		steps[i] = math.Abs(steps[i])
	}
	return steps
}

// StepStats returns the mean and standard deviation of the absolute
// change in darkness between consecutive samples. Both are 0 for a
// series of fewer than 2 samples.
func (s Series) StepStats() (mean, stddev float64) {
	steps := s.steps()
	if len(steps) == 0 {
		return 0, 0
	}
	if len(steps) == 1 {
		return steps[0], 0
	}
	return stat.MeanStdDev(steps, nil)
}

// Breakpoint marks the sample with the largest change in darkness
// from the sample before it. Index is the 1-based position of that
// sample in the series; an Index of 0 means there was no breakpoint.
type Breakpoint struct {
	Index     int
	Magnitude float64
}

// Found reports whether a breakpoint was located
func (b Breakpoint) Found() bool {
	return b.Index > 0
}

// FindBreakpoint finds the point in a series at which darkness
// changed the most in one step. Where several steps share the
// largest change the earliest is used. A series which never changes
// has no breakpoint.
func FindBreakpoint(s Series) Breakpoint {
	steps := s.steps()
	if len(steps) == 0 {
		return Breakpoint{}
	}
	// floats.MaxIdx returns the first index of the maximum; step i
	// leads to s[i+1], which is at 1-based position i+2
	i := floats.MaxIdx(steps)
	if steps[i] == 0 {
		return Breakpoint{}
	}
	return Breakpoint{Index: i + 2, Magnitude: steps[i]}
}

// WriteSeries saves a series, one tab separated "iterations darkness"
// pair per line
func WriteSeries(w io.Writer, s Series) error {
	for _, v := range s {
		_, err := fmt.Fprintf(w, "%d\t%f\n", v.Iterations, v.Darkness)
		if err != nil {
			return fmt.Errorf("Error writing series: %w", err)
		}
	}
	return nil
}

// ReadSeries reads a series saved with WriteSeries. Blank lines are
// skipped.
func ReadSeries(r io.Reader) (Series, error) {
	var s Series
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 2 {
			return s, fmt.Errorf("Error parsing series line %d, need %d fields, got %d", n, 2, len(f))
		}
		iter, err := strconv.Atoi(f[0])
		if err != nil {
			return s, fmt.Errorf("Error parsing iterations on line %d: %w", n, err)
		}
		d, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return s, fmt.Errorf("Error parsing darkness on line %d: %w", n, err)
		}
		s = append(s, Sample{Iterations: iter, Darkness: d})
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("Error reading series: %w", err)
	}
	return s, nil
}

// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package linewidth

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
)

// DefaultMaxIterations bounds the darkness search when no other
// limit is given.
const DefaultMaxIterations = 100

var (
	// ErrEmptyInput is returned when there is no image to work on
	ErrEmptyInput = errors.New("No image to process")
	// ErrNotConverged is matched by a *NotConvergedError
	ErrNotConverged = errors.New("Darkness threshold not reached")
)

// NotConvergedError is returned when darkness did not fall to the
// threshold within the maximum number of iterations. Series holds
// the samples recorded before giving up, which are only useful for
// diagnosing the failure.
type NotConvergedError struct {
	Series        Series
	MaxIterations int
	Threshold     float64
}

func (e *NotConvergedError) Error() string {
	last, _ := e.Series.Last()
	return fmt.Sprintf("Darkness threshold %.2f not reached within %d iterations (last darkness %.2f)", e.Threshold, e.MaxIterations, last.Darkness)
}

func (e *NotConvergedError) Is(target error) bool {
	return target == ErrNotConverged
}

// ConvergeOptions controls the darkness search
type ConvergeOptions struct {
	// Size is the side length of the structuring element
	Size int
	// Threshold is the darkness at or below which the search stops
	Threshold float64
	// MaxIterations is the largest iteration count tried; 0 means
	// DefaultMaxIterations, and a negative count is an error
	MaxIterations int
	// Logger receives one line per round; nothing is logged if nil
	Logger *log.Logger
	// OnRound, if set, is called with every simplified image once its
	// darkness is known. The image is not used again by Converge.
	OnRound func(Sample, *image.Gray)
}

// Result is a completed darkness search
type Result struct {
	Series Series
	// Iterations is the iteration count at which the threshold
	// was reached
	Iterations int
}

// Converge simplifies img with an increasing number of iterations,
// starting from 1, until its darkness is at or below the threshold.
// Each round starts again from img rather than from the previous
// round's output, as repeated closes don't compose. If the threshold
// isn't reached within MaxIterations a *NotConvergedError is returned.
// A negative MaxIterations gives ErrNegativeIterations.
func Converge(ctx context.Context, img *image.Gray, opts ConvergeOptions) (Result, error) {
	if img == nil || img.Bounds().Empty() {
		return Result{}, ErrEmptyInput
	}
	e, err := NewElement(opts.Size)
	if err != nil {
		return Result{}, err
	}
	maxiter := opts.MaxIterations
	if maxiter < 0 {
		return Result{}, fmt.Errorf("%w: maximum iterations %d", ErrNegativeIterations, maxiter)
	}
	if maxiter == 0 {
		maxiter = DefaultMaxIterations
	}

	var series Series
	for i := 1; i <= maxiter; i++ {
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("Darkness search cancelled after %d iterations: %w", len(series), ctx.Err())
		default:
		}

		simplified, err := Simplify(img, e, i)
		if err != nil {
			return Result{}, err
		}
		s := Sample{Iterations: i, Darkness: Darkness(simplified)}
		series = append(series, s)
		if opts.Logger != nil {
			opts.Logger.Printf("Iterations: %d, darkness: %.4f\n", s.Iterations, s.Darkness)
		}
		if opts.OnRound != nil {
			opts.OnRound(s, simplified)
		}

		if s.Darkness <= opts.Threshold {
			return Result{Series: series, Iterations: i}, nil
		}
	}

	return Result{}, &NotConvergedError{Series: series, MaxIterations: maxiter, Threshold: opts.Threshold}
}

// Package motion turns joint targets into timed, clamped servo trajectories.
package motion

import (
	"errors"
	"iter"
)

// ErrInvalidSteps is returned by Interpolate for a step count below one.
var ErrInvalidSteps = errors.New("motion: step count must be positive")

// Interpolate returns the n evenly spaced angles leading from start to end.
// The i-th value (1-indexed) is start + (end-start)*i/n; start itself is not
// included and the last value is exactly end. The sequence can be ranged over
// any number of times.
func Interpolate(start, end float64, n int) (iter.Seq[float64], error) {
	if n <= 0 {
		return nil, ErrInvalidSteps
	}
	return func(yield func(float64) bool) {
		for i := 1; i < n; i++ {
			if !yield(start + (end-start)*(float64(i)/float64(n))) {
				return
			}
		}
		yield(end)
	}, nil
}

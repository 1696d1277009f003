package utils

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// SquaredEuclideanDistance computes the squared euclidean distance between 2 vectors.
// diff is used as scratch space when it has the right length, so callers comparing many
// vectors can reuse a single buffer.
func SquaredEuclideanDistance(diff, p1, p2 []float64) (float64, error) {
	if len(p1) != len(p2) {
		return -1, errors.Errorf("must have same length (%d != %d)", len(p1), len(p2))
	}
	if len(diff) != len(p1) {
		diff = make([]float64, len(p1))
	}
	floats.SubTo(diff, p1, p2)
	return floats.Dot(diff, diff), nil
}

// ArgMinTwo returns the indices of the smallest and second smallest values of s. Ties go to the
// lowest index. An index is -1 when s is too short to have it.
func ArgMinTwo(s []float64) (int, int) {
	first, second := -1, -1
	for i, v := range s {
		switch {
		case first == -1 || v < s[first]:
			second = first
			first = i
		case second == -1 || v < s[second]:
			second = i
		}
	}
	return first, second
}

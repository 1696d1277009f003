// Package keypoints contains the implementation of keypoints in an image. For now:
// - Harris corner response
// - keypoints thresholded from the response, with response-window descriptors
// - row-band constrained ratio-test matching between two keypoint sets
package keypoints

import (
	"image"

	"github.com/pkg/errors"
)

type (
	// KeyPoints is a slice of image.Point that contains several kps. X is the column, Y the row.
	KeyPoints []image.Point // set of keypoints type
	// Descriptor is the row-major flattened window of the response map around a keypoint.
	Descriptor []float64
)

var (
	// ErrInvalidConfig is returned when a parameter is out of its valid range.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrShapeMismatch is returned when inputs that must agree in size do not.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// KeypointSet holds keypoints and their descriptors. Points[i] is described by Descriptors[i].
type KeypointSet struct {
	Points      KeyPoints
	Descriptors []Descriptor
	// Kernel is the side of the square window each descriptor was sampled from.
	Kernel int
}

// Len returns the number of keypoints in the set. A nil set is empty.
func (s *KeypointSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// DescriptorLength returns the number of values in every descriptor of the set.
func (s *KeypointSet) DescriptorLength() int {
	return s.Kernel * s.Kernel
}

// validate checks that points and descriptors are aligned and that every descriptor has the
// expected length.
func (s *KeypointSet) validate() error {
	if len(s.Points) != len(s.Descriptors) {
		return errors.Wrapf(ErrShapeMismatch, "%d keypoints but %d descriptors", len(s.Points), len(s.Descriptors))
	}
	for i, d := range s.Descriptors {
		if len(d) != s.DescriptorLength() {
			return errors.Wrapf(ErrShapeMismatch,
				"descriptor %d has length %d, expected %d for kernel %d", i, len(d), s.DescriptorLength(), s.Kernel)
		}
	}
	return nil
}

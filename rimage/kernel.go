package rimage

import (
	"image"

	"github.com/pkg/errors"
)

// Kernel is a 2D filter. Content is indexed [row][column].
type Kernel struct {
	Content [][]float64
	Height  int
	Width   int
}

// Size returns the size of the kernel as an image.Point (X = width, Y = height).
func (k *Kernel) Size() image.Point {
	return image.Point{k.Width, k.Height}
}

// At returns the weight at column x and row y.
func (k *Kernel) At(x, y int) float64 {
	return k.Content[y][x]
}

// Anchor is the element of the kernel that lands on the output pixel. For even sizes the anchor
// sits right of (below) the middle, so a width of 2 covers offsets {-1, 0}.
func (k *Kernel) Anchor() image.Point {
	return image.Point{k.Width / 2, k.Height / 2}
}

// GetSobelX returns the Kernel corresponding to the Sobel kernel in the x direction.
func GetSobelX() Kernel {
	return Kernel{
		[][]float64{
			{-1, 0, 1},
			{-2, 0, 2},
			{-1, 0, 1},
		},
		3,
		3,
	}
}

// GetSobelY returns the Kernel corresponding to the Sobel kernel in the y direction.
func GetSobelY() Kernel {
	return Kernel{
		[][]float64{
			{-1, -2, -1},
			{0, 0, 0},
			{1, 2, 1},
		},
		3,
		3,
	}
}

// GetBox returns an unnormalized size x size box kernel: every weight is 1, so convolving with
// it sums the neighborhood instead of averaging it.
func GetBox(size int) (Kernel, error) {
	if size < 1 {
		return Kernel{}, errors.Errorf("box kernel size must be >= 1, got %d", size)
	}
	content := make([][]float64, size)
	for i := range content {
		row := make([]float64, size)
		for j := range row {
			row[j] = 1
		}
		content[i] = row
	}
	return Kernel{content, size, size}, nil
}

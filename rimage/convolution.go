package rimage

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/stitching/utils"
)

// ConvolveGrayFloat64 applies the Kernel filter to a float64 matrix. The filter is applied as a
// correlation (not flipped) with its anchor at Kernel.Anchor, and values outside m come from the
// border policy. There is no clamping in this case.
//
// Example of usage:
//
//	kernel := rimage.GetSobelX()
//	dx, err := rimage.ConvolveGrayFloat64(gray, &kernel, rimage.BorderReflect101)
func ConvolveGrayFloat64(m *mat.Dense, filter *Kernel, border BorderPad) (*mat.Dense, error) {
	h, w := m.Dims()
	kernelSize := filter.Size()
	padded, err := PaddingFloat64(m, kernelSize, filter.Anchor(), border)
	if err != nil {
		return nil, err
	}
	result := mat.NewDense(h, w, nil)
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		sum := float64(0)
		for ky := 0; ky < kernelSize.Y; ky++ {
			for kx := 0; kx < kernelSize.X; kx++ {
				sum += padded.At(y+ky, x+kx) * filter.At(kx, ky)
			}
		}
		result.Set(y, x, sum)
	})
	return result, nil
}

// BoxSumFloat64 sums every size x size neighborhood of m. The sum is not normalized by the
// window area.
func BoxSumFloat64(m *mat.Dense, size int, border BorderPad) (*mat.Dense, error) {
	box, err := GetBox(size)
	if err != nil {
		return nil, err
	}
	return ConvolveGrayFloat64(m, &box, border)
}

package rimage

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// GradientField stores the pairwise products of the Sobel derivatives dx and dy of a grayscale
// image. Every field has the dimensions of the source image.
type GradientField struct {
	Ixx *mat.Dense // dx * dx
	Iyy *mat.Dense // dy * dy
	Ixy *mat.Dense // dx * dy
}

// ComputeGradientField convolves img with the Sobel kernels in x and y and multiplies the
// results pointwise. img is not modified.
func ComputeGradientField(img *mat.Dense, border BorderPad) (*GradientField, error) {
	sobelX := GetSobelX()
	sobelY := GetSobelY()
	dx, err := ConvolveGrayFloat64(img, &sobelX, border)
	if err != nil {
		return nil, errors.Wrap(err, "cannot compute x gradient")
	}
	dy, err := ConvolveGrayFloat64(img, &sobelY, border)
	if err != nil {
		return nil, errors.Wrap(err, "cannot compute y gradient")
	}
	var ixx, iyy, ixy mat.Dense
	ixx.MulElem(dx, dx)
	iyy.MulElem(dy, dy)
	ixy.MulElem(dx, dy)
	return &GradientField{Ixx: &ixx, Iyy: &iyy, Ixy: &ixy}, nil
}

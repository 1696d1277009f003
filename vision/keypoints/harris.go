package keypoints

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/stitching/rimage"
	"go.viam.com/stitching/utils"
)

// ComputeCornerResponse computes the Harris corner response of every pixel of a grayscale image
// with values in [0, 1]. The gradient products are summed (not averaged) over a
// BlockSize x BlockSize window into the structure tensor M, and the response is
// det(M) - k * trace(M)^2. Every filter fills in the pixels outside of the image with the
// configured border policy. A nil config uses DefaultHarrisConfig.
func ComputeCornerResponse(img *mat.Dense, cfg *HarrisConfig) (*mat.Dense, error) {
	if cfg == nil {
		cfg = DefaultHarrisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h, w := img.Dims(); h == 0 || w == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "cannot compute the corner response of an empty image")
	}
	border, err := cfg.BorderPad()
	if err != nil {
		return nil, err
	}
	grad, err := rimage.ComputeGradientField(img, border)
	if err != nil {
		return nil, err
	}
	covXX, err := rimage.BoxSumFloat64(grad.Ixx, cfg.BlockSize, border)
	if err != nil {
		return nil, err
	}
	covYY, err := rimage.BoxSumFloat64(grad.Iyy, cfg.BlockSize, border)
	if err != nil {
		return nil, err
	}
	covXY, err := rimage.BoxSumFloat64(grad.Ixy, cfg.BlockSize, border)
	if err != nil {
		return nil, err
	}
	return harrisResponse(covXX, covYY, covXY, cfg.K), nil
}

// harrisResponse combines the summed structure tensor entries row by row.
func harrisResponse(covXX, covYY, covXY *mat.Dense, k float64) *mat.Dense {
	h, w := covXX.Dims()
	response := mat.NewDense(h, w, nil)
	utils.ParallelForEach(h, func(y int) {
		xx, yy, xy := covXX.RawRowView(y), covYY.RawRowView(y), covXY.RawRowView(y)
		r := response.RawRowView(y)
		trace := make([]float64, w)
		xySq := make([]float64, w)

		// det = xx*yy - xy^2
		floats.MulTo(r, xx, yy)
		floats.MulTo(xySq, xy, xy)
		floats.Sub(r, xySq)
		// R = det - k*trace^2
		floats.AddTo(trace, xx, yy)
		floats.Mul(trace, trace)
		floats.AddScaled(r, -k, trace)
	})
	return response
}

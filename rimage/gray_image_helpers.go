package rimage

import (
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// GrayscaleFloat converts an image to luminance values normalized to [0, 1]. The result has
// one row per image row and one column per image column, regardless of the bounds origin.
func GrayscaleFloat(img image.Image) *mat.Dense {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// grayscale NRGBA stores the same value in R, G and B
			data = append(data, float64(gray.Pix[gray.PixOffset(x, y)])/255)
		}
	}
	return mat.NewDense(h, w, data)
}

package rimage

import (
	"image"
	// register decoders for the formats the detectors are commonly fed.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/pkg/errors"
	_ "github.com/xfmoulet/qoi" // register qoi
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/mat"
)

// ReadImageFromFile reads and decodes an image from a file. EXIF orientation is applied for
// formats that carry it.
func ReadImageFromFile(path string) (image.Image, error) {
	img, err := imaging.Open(filepath.Clean(path), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read image %q", path)
	}
	return img, nil
}

// ReadGrayscaleFromFile reads an image from a file and converts it with GrayscaleFloat.
func ReadGrayscaleFromFile(path string) (*mat.Dense, error) {
	img, err := ReadImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return GrayscaleFloat(img), nil
}

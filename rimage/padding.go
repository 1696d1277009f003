package rimage

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BorderPad describes how values outside of a matrix are filled in before a convolution.
type BorderPad int

const (
	// BorderConstant pads with zeros: 000000|abcdefgh|0000000.
	BorderConstant BorderPad = iota
	// BorderReplicate repeats the edge value: aaaaaa|abcdefgh|hhhhhhh.
	BorderReplicate
	// BorderReflect mirrors including the edge value: fedcba|abcdefgh|hgfedcb.
	BorderReflect
	// BorderReflect101 mirrors around the edge value: gfedcb|abcdefgh|gfedcba.
	BorderReflect101
)

// String returns the name of the border policy.
func (b BorderPad) String() string {
	switch b {
	case BorderConstant:
		return "constant"
	case BorderReplicate:
		return "replicate"
	case BorderReflect:
		return "reflect"
	case BorderReflect101:
		return "reflect101"
	default:
		return "unknown"
	}
}

// ParseBorderPad returns the border policy called name, as printed by String.
func ParseBorderPad(name string) (BorderPad, error) {
	for b := BorderConstant; b <= BorderReflect101; b++ {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, errors.Errorf("unknown border type %q, expected one of constant, replicate, reflect or reflect101", name)
}

// borderIndex maps a possibly out of range index p into [0, n). It returns -1 when the value
// should come from the constant border.
func borderIndex(p, n int, border BorderPad) int {
	if p >= 0 && p < n {
		return p
	}
	switch border {
	case BorderReplicate:
		if p < 0 {
			return 0
		}
		return n - 1
	case BorderReflect:
		period := 2 * n
		p = ((p % period) + period) % period
		if p >= n {
			p = period - 1 - p
		}
		return p
	case BorderReflect101:
		if n == 1 {
			return 0
		}
		period := 2*n - 2
		p = ((p % period) + period) % period
		if p >= n {
			p = period - p
		}
		return p
	default:
		return -1
	}
}

// PaddingFloat64 pads a float64 matrix so that a kernel of size kernelSize with the given anchor
// can be applied at every element of m. The padded matrix has size
// (rows + kernelSize.Y - 1, cols + kernelSize.X - 1).
func PaddingFloat64(m *mat.Dense, kernelSize, anchor image.Point, border BorderPad) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New("cannot pad an empty matrix")
	}
	if kernelSize.X < 1 || kernelSize.Y < 1 {
		return nil, errors.Errorf("kernel size must be positive, got %v", kernelSize)
	}
	if !anchor.In(image.Rectangle{Max: kernelSize}) {
		return nil, errors.Errorf("anchor %v is outside of kernel of size %v", anchor, kernelSize)
	}
	if border < BorderConstant || border > BorderReflect101 {
		return nil, errors.Errorf("unknown border type %d", border)
	}
	top, left := anchor.Y, anchor.X
	paddedRows, paddedCols := rows+kernelSize.Y-1, cols+kernelSize.X-1
	padded := mat.NewDense(paddedRows, paddedCols, nil)
	for r := 0; r < paddedRows; r++ {
		srcR := borderIndex(r-top, rows, border)
		if srcR < 0 {
			continue
		}
		for c := 0; c < paddedCols; c++ {
			srcC := borderIndex(c-left, cols, border)
			if srcC < 0 {
				continue
			}
			padded.Set(r, c, m.At(srcR, srcC))
		}
	}
	return padded, nil
}

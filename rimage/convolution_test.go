package rimage

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

// horizontal ramp: m[y][x] = x.
func makeRamp(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Set(y, x, float64(x))
		}
	}
	return m
}

func TestConvolveGrayFloat64Sobel(t *testing.T) {
	ramp := makeRamp(5, 6)
	sobelX := GetSobelX()
	dx, err := ConvolveGrayFloat64(ramp, &sobelX, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	r, c := dx.Dims()
	test.That(t, r, test.ShouldEqual, 5)
	test.That(t, c, test.ShouldEqual, 6)
	for y := 0; y < 5; y++ {
		// the mirrored border has no slope
		test.That(t, dx.At(y, 0), test.ShouldEqual, 0.0)
		test.That(t, dx.At(y, 5), test.ShouldEqual, 0.0)
		for x := 1; x < 5; x++ {
			test.That(t, dx.At(y, x), test.ShouldEqual, 8.0)
		}
	}

	sobelY := GetSobelY()
	dy, err := ConvolveGrayFloat64(ramp, &sobelY, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Norm(dy, 1), test.ShouldEqual, 0.0)

	// the input is left untouched
	test.That(t, mat.Equal(ramp, makeRamp(5, 6)), test.ShouldBeTrue)
}

func TestBoxSumFloat64(t *testing.T) {
	ones := mat.NewDense(4, 4, nil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			ones.Set(y, x, 1)
		}
	}
	sum, err := BoxSumFloat64(ones, 2, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			test.That(t, sum.At(y, x), test.ShouldEqual, 4.0)
		}
	}

	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	sum, err = BoxSumFloat64(m, 2, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	// window of size 2 covers offsets {-1, 0}
	test.That(t, sum.At(1, 1), test.ShouldEqual, 12.0)
	test.That(t, sum.At(2, 2), test.ShouldEqual, 28.0)
	// row -1 mirrors to row 1 and column -1 mirrors to column 1
	test.That(t, sum.At(0, 0), test.ShouldEqual, 12.0)

	same, err := BoxSumFloat64(m, 1, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(same, m), test.ShouldBeTrue)

	_, err = BoxSumFloat64(m, 0, BorderReflect101)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetBox(t *testing.T) {
	box, err := GetBox(3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, box.Size().X, test.ShouldEqual, 3)
	test.That(t, box.Anchor().X, test.ShouldEqual, 1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			test.That(t, box.At(x, y), test.ShouldEqual, 1.0)
		}
	}
	box, err = GetBox(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, box.Anchor().Y, test.ShouldEqual, 1)
	_, err = GetBox(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

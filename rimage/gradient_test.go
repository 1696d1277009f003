package rimage

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestComputeGradientField(t *testing.T) {
	ramp := makeRamp(6, 6)
	g, err := ComputeGradientField(ramp, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	for _, m := range []*mat.Dense{g.Ixx, g.Iyy, g.Ixy} {
		r, c := m.Dims()
		test.That(t, r, test.ShouldEqual, 6)
		test.That(t, c, test.ShouldEqual, 6)
	}

	// the ramp rises by 1 per column, so dx is 8 inside the image
	test.That(t, g.Ixx.At(3, 3), test.ShouldEqual, 64.0)
	test.That(t, mat.Norm(g.Iyy, 1), test.ShouldEqual, 0.0)
	test.That(t, mat.Norm(g.Ixy, 1), test.ShouldEqual, 0.0)

	// a vertical ramp is the transpose case
	vertical := mat.DenseCopyOf(ramp.T())
	g, err = ComputeGradientField(vertical, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Iyy.At(2, 4), test.ShouldEqual, 64.0)
	test.That(t, mat.Norm(g.Ixx, 1), test.ShouldEqual, 0.0)

	// a constant image has no gradient anywhere, including the borders
	flat := mat.NewDense(5, 5, nil)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			flat.Set(y, x, 0.5)
		}
	}
	g, err = ComputeGradientField(flat, BorderReflect101)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Norm(g.Ixx, 1)+mat.Norm(g.Iyy, 1)+mat.Norm(g.Ixy, 1), test.ShouldEqual, 0.0)

	_, err = ComputeGradientField(&mat.Dense{}, BorderReflect101)
	test.That(t, err, test.ShouldNotBeNil)
}

package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestAbsInt(t *testing.T) {
	test.That(t, AbsInt(-3), test.ShouldEqual, 3)
	test.That(t, AbsInt(0), test.ShouldEqual, 0)
	test.That(t, AbsInt(7), test.ShouldEqual, 7)
}

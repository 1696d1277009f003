package utils

import (
	"image"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestParallelForEach(t *testing.T) {
	for _, n := range []int{0, 1, 3, ParallelFactor, ParallelFactor + 1, 1000} {
		visits := make([]int32, n)
		ParallelForEach(n, func(i int) {
			atomic.AddInt32(&visits[i], 1)
		})
		for i := range visits {
			test.That(t, int(visits[i]), test.ShouldEqual, 1)
		}
	}
}

func TestParallelForEachSmallFactor(t *testing.T) {
	orig := ParallelFactor
	defer func() { ParallelFactor = orig }()
	ParallelFactor = 4

	out := make([]int, 10)
	ParallelForEach(len(out), func(i int) {
		out[i] = i * i
	})
	test.That(t, out, test.ShouldResemble, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81})
}

func TestParallelForEachPixel(t *testing.T) {
	size := image.Point{7, 5}
	var count int64
	seen := make([][]bool, size.Y)
	for y := range seen {
		seen[y] = make([]bool, size.X)
	}
	ParallelForEachPixel(size, func(x, y int) {
		atomic.AddInt64(&count, 1)
		seen[y][x] = true
	})
	test.That(t, int(count), test.ShouldEqual, 35)
	for y := range seen {
		for x := range seen[y] {
			test.That(t, seen[y][x], test.ShouldBeTrue)
		}
	}
}

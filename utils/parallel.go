package utils

import (
	"image"
	"runtime"
	"sync"

	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// ParallelForEach calls f for every index in [0, n). The range is divided into at most
// ParallelFactor contiguous groups and each group runs in its own goroutine. f must only write
// to state owned by its index; callers merge results in index order afterwards.
func ParallelForEach(n int, f func(i int)) {
	if n <= 0 {
		return
	}
	numGroups := min(ParallelFactor, n)
	groupSize := n / numGroups
	extra := n % numGroups

	var wait sync.WaitGroup
	wait.Add(numGroups)
	from := 0
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		to := from + groupSize
		if groupNum < extra {
			to++
		}
		start, end := from, to
		utils.PanicCapturingGo(func() {
			defer wait.Done()
			for i := start; i < end; i++ {
				f(i)
			}
		})
		from = to
	}
	wait.Wait()
}

// ParallelForEachPixel loops through the image and calls f functions for each [x, y] position.
// Rows are split between goroutines with ParallelForEach.
func ParallelForEachPixel(size image.Point, f func(x, y int)) {
	ParallelForEach(size.Y, func(y int) {
		for x := 0; x < size.X; x++ {
			f(x, y)
		}
	})
}

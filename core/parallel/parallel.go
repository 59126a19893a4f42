// Package parallel splits an index range across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count at or below which ParallelizeWithThreshold
// stays on the calling goroutine.
const DefaultThreshold = 1000

// Parallelize divides [0, items) into contiguous chunks, one per worker, and
// calls fn(start, end) for each chunk concurrently. workers <= 0 means one
// worker per CPU. Parallelize returns after every chunk is done.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items does not
// exceed threshold, and Parallelize with one worker per CPU otherwise. It
// reports whether the work was split.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) bool {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return false
	}
	Parallelize(items, 0, fn)
	return true
}

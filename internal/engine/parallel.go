package engine

import (
	"runtime"
	"sync"
)

// Smallest block sizes worth handing to a goroutine.
const (
	minChunkIndex = 64
	minChunkCell  = 4
)

var numWorkers = runtime.GOMAXPROCS(0)

// SetWorkers fixes the worker count used by the parallel iterators.
// Call it once at startup, before any sweep runs; w < 1 resets to
// GOMAXPROCS.
func SetWorkers(w int) {
	if w < 1 {
		w = runtime.GOMAXPROCS(0)
	}
	numWorkers = w
}

// Workers returns the worker count used by the parallel iterators.
func Workers() int { return numWorkers }

// Func is a per-particle operation: the particle's slot index plus the
// time increment of the current sweep.
type Func func(i int, dt float64)

// Each applies fn to every index of [0, n) in increasing order.
func Each(n int, fn Func, dt float64) {
	for i := 0; i < n; i++ {
		fn(i, dt)
	}
}

// EachParallel applies fn to every index of [0, n) exactly once, in
// contiguous blocks spread over the worker pool. It returns after every
// block has completed.
func EachParallel(n int, fn Func, dt float64) {
	parallelRange(n, minChunkIndex, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i, dt)
		}
	})
}

// EachList applies fn to the listed indices in list order.
func EachList(ids []int, fn Func, dt float64) {
	for _, i := range ids {
		fn(i, dt)
	}
}

// EachListParallel applies fn to the listed indices, blocks of the list
// spread over the worker pool.
func EachListParallel(ids []int, fn Func, dt float64) {
	parallelRange(len(ids), minChunkIndex, func(start, end int) {
		for k := start; k < end; k++ {
			fn(ids[k], dt)
		}
	})
}

// parallelRange executes fn over contiguous blocks of [0, n) and waits
// for all of them.
func parallelRange(n, minChunk int, fn func(start, end int)) {
	workers := numWorkers
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

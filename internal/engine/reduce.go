package engine

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// ReduceFunc computes one particle's contribution to a reduction.
type ReduceFunc[T any] func(i int, dt float64) T

// Combine merges two reduction values. It must be associative, and the
// init value passed to the reductions must be its identity: parallel
// folds seed every block with init.
type Combine[T any] func(a, b T) T

// Reduce folds fn over [0, n) in increasing index order.
func Reduce[T any](n int, init T, fn ReduceFunc[T], combine Combine[T], dt float64) T {
	acc := init
	for i := 0; i < n; i++ {
		acc = combine(acc, fn(i, dt))
	}
	return acc
}

// ReduceParallel folds a partial per contiguous block on the worker pool,
// then combines the partials in block order. For a fixed worker count the
// result is deterministic; across worker counts it matches Reduce up to
// floating point reassociation.
func ReduceParallel[T any](n int, init T, fn ReduceFunc[T], combine Combine[T], dt float64) T {
	workers := numWorkers
	if n <= minChunkIndex || workers <= 1 {
		return Reduce(n, init, fn, combine, dt)
	}
	if n/minChunkIndex < workers {
		workers = n / minChunkIndex
	}
	chunkSize := (n + workers - 1) / workers

	partials := make([]T, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(w, s, e int) {
			defer wg.Done()
			acc := init
			for i := s; i < e; i++ {
				acc = combine(acc, fn(i, dt))
			}
			partials[w] = acc
		}(w, start, end)
	}

	wg.Wait()

	acc := init
	for _, p := range partials {
		acc = combine(acc, p)
	}
	return acc
}

// Standard combiners.

func SumFloat(a, b float64) float64 { return a + b }

func MaxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

func MinFloat(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

func Or(a, b bool) bool  { return a || b }
func And(a, b bool) bool { return a && b }

// LowerBound and UpperBound take component-wise extrema, for running
// bounding boxes.
func LowerBound(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: MinFloat(a.X, b.X), Y: MinFloat(a.Y, b.Y)}
}

func UpperBound(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: MaxFloat(a.X, b.X), Y: MaxFloat(a.Y, b.Y)}
}

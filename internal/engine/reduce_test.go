package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// a known maximum planted mid-range must win under both folds
func TestReduceMaxPlanted(t *testing.T) {
	defer SetWorkers(0)
	n := 1000
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i%17) * 0.1
	}
	vals[500] = 99.5

	fn := func(i int, _ float64) float64 { return vals[i] }

	if got := Reduce(n, math.Inf(-1), fn, MaxFloat, 0); got != 99.5 {
		t.Errorf("sequential: expected 99.5, got %v", got)
	}
	for _, workers := range []int{1, 2, 7} {
		SetWorkers(workers)
		if got := ReduceParallel(n, math.Inf(-1), fn, MaxFloat, 0); got != 99.5 {
			t.Errorf("workers=%d: expected 99.5, got %v", workers, got)
		}
	}
}

func TestReduceSumMatchesParallel(t *testing.T) {
	defer SetWorkers(0)
	n := 4321
	fn := func(i int, _ float64) float64 { return 1 / float64(i+1) }

	want := Reduce(n, 0, fn, SumFloat, 0)
	for _, workers := range []int{1, 3, 8} {
		SetWorkers(workers)
		got := ReduceParallel(n, 0, fn, SumFloat, 0)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("workers=%d: expected %v, got %v", workers, got, want)
		}
	}
}

func TestReduceEmpty(t *testing.T) {
	fn := func(i int, _ float64) float64 { return 1 }
	if got := Reduce(0, 5, fn, SumFloat, 0); got != 5 {
		t.Errorf("expected init value 5, got %v", got)
	}
	if got := ReduceParallel(0, 5, fn, SumFloat, 0); got != 5 {
		t.Errorf("expected init value 5, got %v", got)
	}
}

func TestReduceBool(t *testing.T) {
	flags := []bool{false, false, true, false}
	fn := func(i int, _ float64) bool { return flags[i] }
	if !Reduce(len(flags), false, fn, Or, 0) {
		t.Errorf("expected Or reduce true")
	}
	if Reduce(len(flags), true, fn, And, 0) {
		t.Errorf("expected And reduce false")
	}
}

func TestReduceBounds(t *testing.T) {
	pts := []r2.Vec{{X: 1, Y: 5}, {X: -2, Y: 3}, {X: 4, Y: -1}}
	fn := func(i int, _ float64) r2.Vec { return pts[i] }

	lo := Reduce(len(pts), r2.Vec{X: math.Inf(1), Y: math.Inf(1)}, fn, LowerBound, 0)
	hi := Reduce(len(pts), r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}, fn, UpperBound, 0)

	if lo.X != -2 || lo.Y != -1 {
		t.Errorf("expected lower bound (-2,-1), got %v", lo)
	}
	if hi.X != 4 || hi.Y != 5 {
		t.Errorf("expected upper bound (4,5), got %v", hi)
	}
}

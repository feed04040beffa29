package particles

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewIdentityMaps(t *testing.T) {
	p := New(5)
	if p.TotalReal != 5 {
		t.Errorf("expected 5 real particles, got %d", p.TotalReal)
	}
	if p.Bound() != 5 {
		t.Errorf("expected bound 5, got %d", p.Bound())
	}
	for i := 0; i < 5; i++ {
		if p.SortedID[i] != i || p.UnsortedID[i] != i {
			t.Errorf("expected identity maps at %d, got sorted=%d unsorted=%d", i, p.SortedID[i], p.UnsortedID[i])
		}
	}
}

func TestAddBufferParticles(t *testing.T) {
	p := New(3)
	p.AddBufferParticles(4)
	if p.TotalReal != 3 {
		t.Errorf("expected TotalReal unchanged at 3, got %d", p.TotalReal)
	}
	if p.Bound() != 7 {
		t.Errorf("expected bound 7, got %d", p.Bound())
	}
	for i := 0; i < 7; i++ {
		if p.SortedID[p.UnsortedID[i]] != i {
			t.Errorf("id maps not inverse at slot %d", i)
		}
	}
}

func TestRealizeBuffer(t *testing.T) {
	p := New(2)
	p.AddBufferParticles(2)
	p.Pos[1] = r2.Vec{X: 1, Y: 2}
	p.Vel[1] = r2.Vec{X: 3, Y: 4}
	p.Rho[1] = 1000
	p.Mass[1] = 0.5

	slot, err := p.RealizeBuffer(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != 2 {
		t.Errorf("expected slot 2, got %d", slot)
	}
	if p.TotalReal != 3 {
		t.Errorf("expected TotalReal 3, got %d", p.TotalReal)
	}
	if p.Pos[2] != p.Pos[1] || p.Vel[2] != p.Vel[1] || p.Rho[2] != p.Rho[1] || p.Mass[2] != p.Mass[1] {
		t.Errorf("realized slot is not a copy of source")
	}
}

func TestRealizeBufferCapacity(t *testing.T) {
	p := New(2)
	p.AddBufferParticles(1)
	if _, err := p.RealizeBuffer(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the set is now full; the next realization must fail the same way
	// every time without mutating anything
	for trial := 0; trial < 3; trial++ {
		_, err := p.RealizeBuffer(0)
		if err == nil {
			t.Fatal("expected capacity error, got nil")
		}
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Errorf("expected ErrCapacityExceeded, got %v", err)
		}
		var ce *CapacityError
		if !errors.As(err, &ce) {
			t.Fatalf("expected *CapacityError, got %T", err)
		}
		if ce.Bound != 3 {
			t.Errorf("expected bound 3, got %d", ce.Bound)
		}
		if ce.Requested != 4 {
			t.Errorf("expected requested 4, got %d", ce.Requested)
		}
		if p.TotalReal != 3 {
			t.Errorf("failed realization mutated TotalReal to %d", p.TotalReal)
		}
	}
}

func TestReorderInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := New(50)
	p.AddBufferParticles(10)
	for i := 0; i < 50; i++ {
		p.Pos[i] = r2.Vec{X: float64(i), Y: -float64(i)}
	}

	for round := 0; round < 20; round++ {
		perm := rng.Perm(50)
		before := make([]r2.Vec, 50)
		copy(before, p.Pos[:50])

		if err := p.Reorder(perm); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, s := range perm {
			if p.Pos[i] != before[s] {
				t.Fatalf("round %d: slot %d does not hold old slot %d", round, i, s)
			}
		}
		for s := 0; s < p.Bound(); s++ {
			if p.SortedID[p.UnsortedID[s]] != s {
				t.Fatalf("round %d: id maps not inverse at slot %d", round, s)
			}
		}
	}
}

func TestReorderIdentity(t *testing.T) {
	p := New(4)
	p.Pos[2] = r2.Vec{X: 7}
	if err := p.Reorder([]int{0, 1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Pos[2].X != 7 {
		t.Errorf("identity reorder moved data")
	}
}

func TestReorderRejectsBadPermutation(t *testing.T) {
	p := New(3)
	cases := [][]int{
		{0, 1},       // short
		{0, 1, 1},    // duplicate
		{0, 1, 3},    // out of range
		{-1, 1, 2},   // negative
		{0, 1, 2, 3}, // long
	}
	for _, perm := range cases {
		if err := p.Reorder(perm); err == nil {
			t.Errorf("expected error for perm %v", perm)
		}
	}
}

func TestSortByCell(t *testing.T) {
	p := New(6)
	// cells by x coordinate: 2, 0, 1, 0, 2, 1
	xs := []float64{2, 0, 1, 0, 2, 1}
	for i, x := range xs {
		p.Pos[i] = r2.Vec{X: x, Y: float64(i)}
	}
	err := p.SortByCell(3, func(v r2.Vec) int { return int(v.X) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ascending cells, stable within each: old slots 1,3 then 2,5 then 0,4
	wantY := []float64{1, 3, 2, 5, 0, 4}
	for i, y := range wantY {
		if p.Pos[i].Y != y {
			t.Errorf("slot %d: expected old particle %v, got %v", i, y, p.Pos[i].Y)
		}
	}
	for s := 0; s < 6; s++ {
		if p.SortedID[p.UnsortedID[s]] != s {
			t.Errorf("id maps not inverse at slot %d", s)
		}
	}
}

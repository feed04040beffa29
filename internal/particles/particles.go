package particles

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrCapacityExceeded is reported when a buffer realization finds no free
// slot left. Callers decide whether to abort or re-size; the set itself
// never grows mid-run.
var ErrCapacityExceeded = errors.New("gosph: particle capacity exceeded")

// CapacityError carries the bound that was hit and the real particle
// count the realization would have needed.
type CapacityError struct {
	Bound     int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("gosph: particle capacity exceeded (requested %d, bound %d)", e.Requested, e.Bound)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// ParticleSet stores particle state in structure-of-arrays layout. Slots
// [0, TotalReal) hold real particles; [TotalReal, Bound()) are inactive
// buffer slots reserved for injection. All field slices share one length,
// fixed after setup.
//
// SortedID and UnsortedID are mutually inverse permutations tying stable
// particle identities to physical slots: UnsortedID[s] is the identity
// stored in slot s, SortedID[u] the slot currently holding identity u, so
// SortedID[UnsortedID[s]] == s for every slot.
type ParticleSet struct {
	Pos []r2.Vec
	Vel []r2.Vec
	Acc []r2.Vec

	Rho  []float64
	DRho []float64
	P    []float64
	Mass []float64
	Vol  []float64

	TotalReal int

	SortedID   []int
	UnsortedID []int

	scratchV []r2.Vec
	scratchF []float64
	scratchI []int
}

// New allocates a set of n real particles with identity id maps and no
// buffer slots.
func New(n int) *ParticleSet {
	p := &ParticleSet{TotalReal: n}
	p.grow(n)
	return p
}

func (p *ParticleSet) grow(n int) {
	base := len(p.Pos)
	p.Pos = append(p.Pos, make([]r2.Vec, n)...)
	p.Vel = append(p.Vel, make([]r2.Vec, n)...)
	p.Acc = append(p.Acc, make([]r2.Vec, n)...)
	p.Rho = append(p.Rho, make([]float64, n)...)
	p.DRho = append(p.DRho, make([]float64, n)...)
	p.P = append(p.P, make([]float64, n)...)
	p.Mass = append(p.Mass, make([]float64, n)...)
	p.Vol = append(p.Vol, make([]float64, n)...)
	for i := 0; i < n; i++ {
		p.SortedID = append(p.SortedID, base+i)
		p.UnsortedID = append(p.UnsortedID, base+i)
	}
}

// Bound returns the total slot count, real plus buffer.
func (p *ParticleSet) Bound() int { return len(p.Pos) }

// AddBufferParticles reserves n inactive slots for later realization.
// Only legal during setup, before any slot has been realized.
func (p *ParticleSet) AddBufferParticles(n int) {
	p.grow(n)
}

// CopyFrom copies every field value from slot src into slot dst. The id
// maps are not touched: dst keeps its own identity.
func (p *ParticleSet) CopyFrom(dst, src int) {
	p.Pos[dst] = p.Pos[src]
	p.Vel[dst] = p.Vel[src]
	p.Acc[dst] = p.Acc[src]
	p.Rho[dst] = p.Rho[src]
	p.DRho[dst] = p.DRho[src]
	p.P[dst] = p.P[src]
	p.Mass[dst] = p.Mass[src]
	p.Vol[dst] = p.Vol[src]
}

// RealizeBuffer activates the next buffer slot as a copy of real particle
// src and returns its slot index. On a full set it returns a
// CapacityError and mutates nothing.
func (p *ParticleSet) RealizeBuffer(src int) (int, error) {
	if p.TotalReal >= p.Bound() {
		return 0, &CapacityError{Bound: p.Bound(), Requested: p.TotalReal + 1}
	}
	dst := p.TotalReal
	p.CopyFrom(dst, src)
	p.TotalReal++
	return dst, nil
}

// Reorder permutes the real range of every field so that new slot i holds
// what old slot perm[i] held, and recomputes the id maps. perm must be a
// permutation of [0, TotalReal).
func (p *ParticleSet) Reorder(perm []int) error {
	n := p.TotalReal
	if len(perm) != n {
		return fmt.Errorf("gosph: permutation length %d does not match %d real particles", len(perm), n)
	}
	if cap(p.scratchV) < n {
		p.scratchV = make([]r2.Vec, n)
		p.scratchF = make([]float64, n)
		p.scratchI = make([]int, n)
	}
	seen := p.scratchI[:n]
	for i := range seen {
		seen[i] = 0
	}
	for _, s := range perm {
		if s < 0 || s >= n || seen[s] != 0 {
			return fmt.Errorf("gosph: invalid permutation entry %d", s)
		}
		seen[s] = 1
	}

	for _, f := range [][]r2.Vec{p.Pos, p.Vel, p.Acc} {
		tmp := p.scratchV[:n]
		copy(tmp, f[:n])
		for i, s := range perm {
			f[i] = tmp[s]
		}
	}
	for _, f := range [][]float64{p.Rho, p.DRho, p.P, p.Mass, p.Vol} {
		tmp := p.scratchF[:n]
		copy(tmp, f[:n])
		for i, s := range perm {
			f[i] = tmp[s]
		}
	}

	tmp := p.scratchI[:n]
	copy(tmp, p.UnsortedID[:n])
	for i, s := range perm {
		p.UnsortedID[i] = tmp[s]
	}
	for s := 0; s < n; s++ {
		p.SortedID[p.UnsortedID[s]] = s
	}
	return nil
}

// SortByCell reorders real particles so slots follow ascending cell index,
// stable within a cell. cellOf must return a value in [0, ncells).
func (p *ParticleSet) SortByCell(ncells int, cellOf func(r2.Vec) int) error {
	n := p.TotalReal
	counts := make([]int, ncells+1)
	cells := make([]int, n)
	for i := 0; i < n; i++ {
		c := cellOf(p.Pos[i])
		if c < 0 || c >= ncells {
			return fmt.Errorf("gosph: cell index %d out of range [0,%d)", c, ncells)
		}
		cells[i] = c
		counts[c+1]++
	}
	for c := 0; c < ncells; c++ {
		counts[c+1] += counts[c]
	}
	// perm[newSlot] = oldSlot, stable within each cell
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[counts[cells[i]]] = i
		counts[cells[i]]++
	}
	return p.Reorder(perm)
}

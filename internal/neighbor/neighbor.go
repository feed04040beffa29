package neighbor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/grid"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/particles"
)

// ErrStaleConfiguration is reported when a relation is consulted after a
// grid rebuild it has not incorporated.
var ErrStaleConfiguration = errors.New("gosph: stale neighbor configuration")

// StaleError carries the rebuild stamps involved.
type StaleError struct {
	Have uint64
	Want uint64
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("gosph: stale neighbor configuration (built at rebuild %d, grid is at %d)", e.Have, e.Want)
}

func (e *StaleError) Unwrap() error { return ErrStaleConfiguration }

// Neighborhood lists one particle's neighbors inside the cutoff with
// precomputed kernel terms. For entry k, J[k] is the neighbor slot,
// Dist[k] the separation, W[k] the kernel value, DW[k] the radial kernel
// derivative, and E[k] the unit vector pointing from the neighbor toward
// the owner. The owner itself is excluded.
type Neighborhood struct {
	J    []int
	Dist []float64
	W    []float64
	DW   []float64
	E    []r2.Vec
}

func (nb *Neighborhood) Len() int { return len(nb.J) }

func (nb *Neighborhood) reset() {
	nb.J = nb.J[:0]
	nb.Dist = nb.Dist[:0]
	nb.W = nb.W[:0]
	nb.DW = nb.DW[:0]
	nb.E = nb.E[:0]
}

func (nb *Neighborhood) add(j int, dist, w, dw float64, e r2.Vec) {
	nb.J = append(nb.J, j)
	nb.Dist = append(nb.Dist, dist)
	nb.W = append(nb.W, w)
	nb.DW = append(nb.DW, dw)
	nb.E = append(nb.E, e)
}

// InnerRelation holds the neighborhoods of every real particle of one
// body with itself. Neighborhoods are valid for exactly one grid rebuild
// interval: call Update after every Rebuild and before any interaction
// sweep that reads the relation.
type InnerRelation struct {
	ps     *particles.ParticleSet
	g      *grid.CellLinkedList
	kern   kernel.Kernel
	cutoff float64

	hoods []Neighborhood
	stamp uint64
	built bool
}

func NewInnerRelation(ps *particles.ParticleSet, g *grid.CellLinkedList, kern kernel.Kernel) *InnerRelation {
	return &InnerRelation{
		ps:     ps,
		g:      g,
		kern:   kern,
		cutoff: kern.CutoffRadius(),
		hoods:  make([]Neighborhood, ps.Bound()),
	}
}

// Update rebuilds every neighborhood from the grid's current cell lists,
// in parallel over particles. Neighborhood storage is reused across
// updates.
func (r *InnerRelation) Update() {
	if len(r.hoods) < r.ps.Bound() {
		r.hoods = append(r.hoods, make([]Neighborhood, r.ps.Bound()-len(r.hoods))...)
	}
	pos := r.ps.Pos
	n := r.ps.TotalReal
	engine.EachParallel(n, func(i int, _ float64) {
		nb := &r.hoods[i]
		nb.reset()
		pi := pos[i]
		r.g.ForEachNeighborCell(r.g.CellIndexOf(pi), func(cell int) {
			for _, j := range r.g.Cell(cell) {
				if j == i {
					continue
				}
				d := pi.Sub(pos[j])
				dist := math.Sqrt(d.X*d.X + d.Y*d.Y)
				if dist >= r.cutoff || dist == 0 {
					continue
				}
				nb.add(j, dist, r.kern.W(dist), r.kern.DW(dist), d.Scale(1/dist))
			}
		})
	}, 0)
	r.stamp = r.g.Stamp()
	r.built = true
}

// Fresh reports whether the relation matches the grid's current rebuild.
func (r *InnerRelation) Fresh() error {
	if !r.built || r.stamp != r.g.Stamp() {
		return &StaleError{Have: r.stamp, Want: r.g.Stamp()}
	}
	return nil
}

// Config returns particle i's neighborhood without a freshness check.
// Interaction sweeps use this after the driver has validated the relation
// once at stage start.
func (r *InnerRelation) Config(i int) *Neighborhood { return &r.hoods[i] }

// Neighborhood is the guarded accessor: it fails instead of silently
// returning pairs from before the last rebuild.
func (r *InnerRelation) Neighborhood(i int) (*Neighborhood, error) {
	if err := r.Fresh(); err != nil {
		return nil, err
	}
	return &r.hoods[i], nil
}

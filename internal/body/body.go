package body

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/grid"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/neighbor"
	"github.com/resolventdk/gosph/internal/particles"
)

// ErrConfig marks a system or body rejected before stepping starts.
var ErrConfig = errors.New("gosph: invalid configuration")

// ConfigError names the offending field.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gosph: invalid configuration: %s: %s", e.Field, e.Detail)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// Body couples one particle set to its spatial index and smoothing
// kernel. The grid's cell size is the kernel cutoff, so a particle's
// neighbors always live in its own or an adjacent cell.
type Body struct {
	Name      string
	Particles *particles.ParticleSet
	Grid      *grid.CellLinkedList
	Kernel    kernel.Kernel

	relations []*neighbor.InnerRelation
}

// NewBody builds a body over the system's domain. Positions must already
// be set; the grid starts empty until UpdateCellLinkedList runs.
func NewBody(name string, ps *particles.ParticleSet, lower, upper r2.Vec, kern kernel.Kernel) (*Body, error) {
	g, err := grid.New(lower, upper, kern.CutoffRadius())
	if err != nil {
		return nil, err
	}
	return &Body{Name: name, Particles: ps, Grid: g, Kernel: kern}, nil
}

// UpdateCellLinkedList re-buckets the real particles into the grid.
func (b *Body) UpdateCellLinkedList() {
	b.Grid.Rebuild(b.Particles.Pos, b.Particles.TotalReal)
}

// SortParticles reorders particle storage to follow cell order, for
// cache locality on large bodies. The id maps keep stable identities
// valid across the reorder. The grid is rebuilt afterwards: its cell
// lists hold slot indices, which the sort invalidates.
func (b *Body) SortParticles() error {
	if err := b.Particles.SortByCell(b.Grid.NumCells(), b.Grid.CellIndexOf); err != nil {
		return err
	}
	b.UpdateCellLinkedList()
	return nil
}

// NewInnerRelation builds the body's self-interaction neighbor relation
// and registers it with the body for configuration refreshes.
func (b *Body) NewInnerRelation() *neighbor.InnerRelation {
	rel := neighbor.NewInnerRelation(b.Particles, b.Grid, b.Kernel)
	b.relations = append(b.relations, rel)
	return rel
}

// UpdateConfiguration refreshes every relation created on the body.
// Call after each grid rebuild; relations record the stamp they saw, so
// a missed refresh surfaces as a staleness error on guarded access.
func (b *Body) UpdateConfiguration() {
	for _, rel := range b.relations {
		rel.Update()
	}
}

// RealRange covers the body's real particles, tracking injections.
func (b *Body) RealRange() engine.IndexRange {
	return engine.IndexRange{Size: func() int { return b.Particles.TotalReal }}
}

// SplitSweep is the body's split-cell half-step range.
func (b *Body) SplitSweep() engine.SplitRange {
	return engine.SplitRange{List: b.Grid}
}

// RigidCoupling is the contract for solid collaborators driven by the
// step driver outside the stage pipeline: the net fluid load on the
// solid, and the constraint it applies back onto its particles.
type RigidCoupling interface {
	NetForce() (force r2.Vec, torque float64)
	ApplyConstraint(dt float64)
}

// System owns the domain, the bodies and the run clock.
type System struct {
	Lower, Upper r2.Vec
	Spacing      float64
	Bodies       []*Body
	Clock        engine.Clock
}

func NewSystem(lower, upper r2.Vec, spacing float64) *System {
	return &System{Lower: lower, Upper: upper, Spacing: spacing}
}

// AddBody creates a body over the system domain and registers it.
func (s *System) AddBody(name string, ps *particles.ParticleSet, kern kernel.Kernel) (*Body, error) {
	b, err := NewBody(name, ps, s.Lower, s.Upper, kern)
	if err != nil {
		return nil, err
	}
	s.Bodies = append(s.Bodies, b)
	return b, nil
}

// Validate rejects systems that must not start stepping.
func (s *System) Validate() error {
	if !(s.Spacing > 0) || math.IsInf(s.Spacing, 0) {
		return &ConfigError{Field: "spacing", Detail: fmt.Sprintf("must be a positive finite number, got %v", s.Spacing)}
	}
	if s.Upper.X <= s.Lower.X || s.Upper.Y <= s.Lower.Y {
		return &ConfigError{Field: "domain", Detail: fmt.Sprintf("upper bound %v does not exceed lower bound %v", s.Upper, s.Lower)}
	}
	if len(s.Bodies) == 0 {
		return &ConfigError{Field: "bodies", Detail: "system has no bodies"}
	}
	for _, b := range s.Bodies {
		if b.Particles.TotalReal == 0 {
			return &ConfigError{Field: b.Name, Detail: "body has no real particles"}
		}
		if b.Kernel.CutoffRadius() < s.Spacing {
			return &ConfigError{Field: b.Name, Detail: fmt.Sprintf("kernel cutoff %v below particle spacing %v", b.Kernel.CutoffRadius(), s.Spacing)}
		}
		lo, hi := b.Grid.Bounds()
		for i := 0; i < b.Particles.TotalReal; i++ {
			p := b.Particles.Pos[i]
			if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
				return &ConfigError{Field: b.Name, Detail: fmt.Sprintf("particle %d at %v outside domain", i, p)}
			}
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				return &ConfigError{Field: b.Name, Detail: fmt.Sprintf("particle %d position is NaN", i)}
			}
		}
	}
	return nil
}

// InitializeCellLinkedLists buckets every body once before the first
// step.
func (s *System) InitializeCellLinkedLists() {
	for _, b := range s.Bodies {
		b.UpdateCellLinkedList()
	}
}

// InitializeConfigurations builds every body's neighborhoods once the
// cell lists are in place.
func (s *System) InitializeConfigurations() {
	for _, b := range s.Bodies {
		b.UpdateConfiguration()
	}
}

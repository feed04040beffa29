package dynamics

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
)

// NewTimeStepInitialization resets the per-step accumulators: gravity
// into acceleration, zero density change rate.
func NewTimeStepInitialization(b *body.Body, gravity r2.Vec) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, _ float64) {
			ps.Acc[i] = gravity
			ps.DRho[i] = 0
		},
	}
}

// NewAdvectPositions moves particles with their current velocity.
func NewAdvectPositions(b *body.Body) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, dt float64) {
			ps.Pos[i] = ps.Pos[i].Add(ps.Vel[i].Scale(dt))
		},
	}
}

// NewVelocityKick integrates the accumulated acceleration into velocity.
func NewVelocityKick(b *body.Body) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, dt float64) {
			ps.Vel[i] = ps.Vel[i].Add(ps.Acc[i].Scale(dt))
		},
	}
}

// NewPositionRelaxation advances positions directly along the relaxation
// acceleration. The quadratic step keeps the pseudo-dynamics free of
// accumulated velocity.
func NewPositionRelaxation(b *body.Body) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, dt float64) {
			ps.Pos[i] = ps.Pos[i].Add(ps.Acc[i].Scale(dt * dt))
		},
	}
}

// NewRandomizePosition jitters particles off the lattice before
// relaxation, up to a quarter spacing per axis. The jitter stream is
// sequential: run it once with Exec during setup, not ParallelExec.
func NewRandomizePosition(b *body.Body, spacing float64, seed int64) *engine.SimpleDynamics {
	ps := b.Particles
	rng := rand.New(rand.NewSource(seed))
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, _ float64) {
			j := r2.Vec{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
			ps.Pos[i] = ps.Pos[i].Add(j.Scale(0.5 * spacing))
		},
	}
}

// NewBoxBounding clamps particles into box. Relaxation sweeps run it as
// a pre-process so the repulsion never pushes particles out of the
// domain.
func NewBoxBounding(b *body.Body, box body.AABox) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: b.RealRange(),
		Update: func(i int, _ float64) {
			p := ps.Pos[i]
			if p.X < box.Lower.X {
				p.X = box.Lower.X
			} else if p.X > box.Upper.X {
				p.X = box.Upper.X
			}
			if p.Y < box.Lower.Y {
				p.Y = box.Lower.Y
			} else if p.Y > box.Upper.Y {
				p.Y = box.Upper.Y
			}
			ps.Pos[i] = p
		},
	}
}

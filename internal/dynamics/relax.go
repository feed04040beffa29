package dynamics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/neighbor"
)

// NewRelaxationAcceleration drives particles toward a uniform
// zero-order-consistent distribution: each neighbor contributes a
// repulsion along the pair direction weighted by its volume and the
// kernel gradient.
func NewRelaxationAcceleration(b *body.Body, rel *neighbor.InnerRelation) *engine.InteractionDynamics {
	ps := b.Particles
	return &engine.InteractionDynamics{
		Range: b.RealRange(),
		Initialize: func(i int, _ float64) {
			ps.Acc[i] = r2.Vec{}
		},
		Interact: func(i int, _ float64) {
			nb := rel.Config(i)
			acc := ps.Acc[i]
			for k, j := range nb.J {
				acc = acc.Add(nb.E[k].Scale(-2 * nb.DW[k] * ps.Vol[j]))
			}
			ps.Acc[i] = acc
		},
	}
}

// NewRelaxationTimeStep bounds the relaxation step by the strongest
// acceleration present, so a single step never moves a particle more
// than a fraction of the smoothing length.
func NewRelaxationTimeStep(b *body.Body) *engine.ReduceDynamics[float64] {
	ps := b.Particles
	h := b.Kernel.SmoothingLength()
	return &engine.ReduceDynamics[float64]{
		Size: func() int { return ps.TotalReal },
		Init: 0,
		Fn: func(i int, _ float64) float64 {
			a := ps.Acc[i]
			return math.Sqrt(a.X*a.X + a.Y*a.Y)
		},
		Combine: engine.MaxFloat,
		Finish: func(amax float64) float64 {
			return math.Sqrt(0.05 * h / (amax + 1e-15))
		},
	}
}

package dynamics

import (
	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/neighbor"
)

// NewDensitySummation rebuilds density from the kernel sum over the
// neighborhood. A pure gather: each particle writes only its own fields,
// so the whole-body sweep parallelizes freely.
func NewDensitySummation(b *body.Body, rel *neighbor.InnerRelation) *engine.InteractionDynamics {
	ps := b.Particles
	w0 := b.Kernel.W0()
	sigma := make([]float64, ps.Bound())

	return &engine.InteractionDynamics{
		Range: b.RealRange(),
		Setup: func(_ float64) {
			if len(sigma) < ps.Bound() {
				sigma = append(sigma, make([]float64, ps.Bound()-len(sigma))...)
			}
		},
		Initialize: func(i int, _ float64) {
			sigma[i] = 0
		},
		Interact: func(i int, _ float64) {
			nb := rel.Config(i)
			s := 0.0
			for k, j := range nb.J {
				s += nb.W[k] * ps.Mass[j]
			}
			sigma[i] += s
		},
		Update: func(i int, _ float64) {
			rho := sigma[i] + w0*ps.Mass[i]
			ps.Rho[i] = rho
			ps.Vol[i] = ps.Mass[i] / rho
		},
	}
}

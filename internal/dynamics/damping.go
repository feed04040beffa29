package dynamics

import (
	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/neighbor"
)

// NewPairwiseDamping builds the split-sweep velocity damping stage. Each
// visit relaxes the velocity difference of a pair by exchanging the same
// momentum increment in opposite directions, so total linear momentum is
// conserved to floating point no matter how many workers run the sweep.
// The stage must run over the split range: concurrent writes to
// neighbors are only safe inside one sweep group.
func NewPairwiseDamping(b *body.Body, rel *neighbor.InnerRelation, eta float64) *engine.InteractionDynamics {
	ps := b.Particles
	w0 := b.Kernel.W0()

	return &engine.InteractionDynamics{
		Range: b.SplitSweep(),
		Interact: func(i int, dt float64) {
			nb := rel.Config(i)
			mi := ps.Mass[i]
			vi := ps.Vel[i]
			for k, j := range nb.J {
				mj := ps.Mass[j]
				mu := mi * mj / (mi + mj)
				lambda := eta * dt * mu * nb.W[k] / w0
				dp := ps.Vel[j].Sub(vi).Scale(lambda)
				vi = vi.Add(dp.Scale(1 / mi))
				ps.Vel[j] = ps.Vel[j].Sub(dp.Scale(1 / mj))
			}
			ps.Vel[i] = vi
		},
	}
}

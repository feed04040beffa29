package metrics

import (
	"math"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
)

// DensityDeviation is the rms relative deviation from the reference
// density, the usual weakly-compressible quality check.
type DensityDeviation struct {
	name   string
	reduce *engine.ReduceDynamics[float64]
	body   *body.Body
	latest float64
}

func NewDensityDeviation(b *body.Body, rho0 float64) *DensityDeviation {
	ps := b.Particles
	return &DensityDeviation{
		name: "density_rms",
		body: b,
		reduce: &engine.ReduceDynamics[float64]{
			Size: func() int { return ps.TotalReal },
			Init: 0,
			Fn: func(i int, _ float64) float64 {
				d := (ps.Rho[i] - rho0) / rho0
				return d * d
			},
			Combine: engine.SumFloat,
		},
	}
}

func (d *DensityDeviation) Name() string { return d.name }

func (d *DensityDeviation) Observe(t float64) {
	n := d.body.Particles.TotalReal
	if n == 0 {
		d.latest = 0
		return
	}
	d.latest = math.Sqrt(d.reduce.Exec(0) / float64(n))
}

func (d *DensityDeviation) Value() float64 { return d.latest }

func (d *DensityDeviation) Reset() { d.latest = 0 }

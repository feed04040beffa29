package metrics

import (
	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/dynamics"
	"github.com/resolventdk/gosph/internal/engine"
)

// PeakSpeed tracks the largest velocity magnitude seen over the run.
type PeakSpeed struct {
	name   string
	reduce *engine.ReduceDynamics[float64]
	peak   float64
}

func NewPeakSpeed(b *body.Body) *PeakSpeed {
	return &PeakSpeed{
		name:   "peak_speed",
		reduce: dynamics.NewMaxSpeed(b),
	}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(t float64) {
	if v := p.reduce.Exec(0); v > p.peak {
		p.peak = v
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

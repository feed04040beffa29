package metrics

import (
	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/dynamics"
	"github.com/resolventdk/gosph/internal/engine"
)

type KineticEnergy struct {
	name   string
	reduce *engine.ReduceDynamics[float64]
	latest float64
}

func NewKineticEnergy(b *body.Body) *KineticEnergy {
	return &KineticEnergy{
		name:   "kinetic_energy",
		reduce: dynamics.NewTotalKineticEnergy(b),
	}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(t float64) {
	k.latest = k.reduce.Exec(0)
}

func (k *KineticEnergy) Value() float64 { return k.latest }

func (k *KineticEnergy) Reset() { k.latest = 0 }

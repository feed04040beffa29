package dynamics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
)

// NewAcousticTimeStep computes the CFL-limited step from the fastest
// signal speed present: sound speed plus particle speed.
func NewAcousticTimeStep(b *body.Body, soundSpeed, cfl float64) *engine.ReduceDynamics[float64] {
	ps := b.Particles
	h := b.Kernel.SmoothingLength()
	return &engine.ReduceDynamics[float64]{
		Size: func() int { return ps.TotalReal },
		Init: 0,
		Fn: func(i int, _ float64) float64 {
			v := ps.Vel[i]
			return soundSpeed + math.Sqrt(v.X*v.X+v.Y*v.Y)
		},
		Combine: engine.MaxFloat,
		Finish: func(signal float64) float64 {
			return cfl * h / signal
		},
	}
}

// NewMaxDisplacement reduces to the largest position change a
// relaxation step of the given dt applies, the residual that decides
// convergence.
func NewMaxDisplacement(b *body.Body) *engine.ReduceDynamics[float64] {
	ps := b.Particles
	return &engine.ReduceDynamics[float64]{
		Size: func() int { return ps.TotalReal },
		Init: 0,
		Fn: func(i int, dt float64) float64 {
			a := ps.Acc[i]
			return math.Sqrt(a.X*a.X+a.Y*a.Y) * dt * dt
		},
		Combine: engine.MaxFloat,
	}
}

// NewMaxSpeed reduces to the largest velocity magnitude.
func NewMaxSpeed(b *body.Body) *engine.ReduceDynamics[float64] {
	ps := b.Particles
	return &engine.ReduceDynamics[float64]{
		Size: func() int { return ps.TotalReal },
		Init: 0,
		Fn: func(i int, _ float64) float64 {
			v := ps.Vel[i]
			return math.Sqrt(v.X*v.X + v.Y*v.Y)
		},
		Combine: engine.MaxFloat,
	}
}

// NewTotalKineticEnergy sums the body's kinetic energy.
func NewTotalKineticEnergy(b *body.Body) *engine.ReduceDynamics[float64] {
	ps := b.Particles
	return &engine.ReduceDynamics[float64]{
		Size: func() int { return ps.TotalReal },
		Init: 0,
		Fn: func(i int, _ float64) float64 {
			v := ps.Vel[i]
			return 0.5 * ps.Mass[i] * (v.X*v.X + v.Y*v.Y)
		},
		Combine: engine.SumFloat,
	}
}

// Bounds is a running bounding box.
type Bounds struct {
	Lower, Upper r2.Vec
}

// NewDomainBounds reduces to the bounding box of all real particles.
func NewDomainBounds(b *body.Body) *engine.ReduceDynamics[Bounds] {
	ps := b.Particles
	return &engine.ReduceDynamics[Bounds]{
		Size: func() int { return ps.TotalReal },
		Init: Bounds{
			Lower: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
			Upper: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
		},
		Fn: func(i int, _ float64) Bounds {
			return Bounds{Lower: ps.Pos[i], Upper: ps.Pos[i]}
		},
		Combine: func(a, b Bounds) Bounds {
			return Bounds{
				Lower: engine.LowerBound(a.Lower, b.Lower),
				Upper: engine.UpperBound(a.Upper, b.Upper),
			}
		},
	}
}

// NewInvalidStateCheck reports whether NaN or Inf crept into any
// position or velocity. Drivers run it between steps and abort with
// engine.ErrInvalidState.
func NewInvalidStateCheck(b *body.Body) *engine.ReduceDynamics[bool] {
	ps := b.Particles
	bad := func(v r2.Vec) bool {
		return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0)
	}
	return &engine.ReduceDynamics[bool]{
		Size: func() int { return ps.TotalReal },
		Init: false,
		Fn: func(i int, _ float64) bool {
			return bad(ps.Pos[i]) || bad(ps.Vel[i])
		},
		Combine: engine.Or,
	}
}

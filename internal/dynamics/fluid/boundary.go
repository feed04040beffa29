package fluid

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
)

// VelocityProfile supplies the imposed velocity at a position. The
// current velocity is passed so profiles can ramp or blend.
type VelocityProfile func(pos, vel r2.Vec) r2.Vec

// EquationOfState maps density to pressure.
type EquationOfState func(rho float64) float64

// WeaklyCompressibleEOS is the linear artificial-compressibility law
// p = c^2 (rho - rho0).
func WeaklyCompressibleEOS(rho0, soundSpeed float64) EquationOfState {
	c2 := soundSpeed * soundSpeed
	return func(rho float64) float64 { return c2 * (rho - rho0) }
}

const (
	defaultRelaxationRate  = 0.3
	defaultDampingStrength = 5.0
)

func newFlowRelaxation(b *body.Body, part *body.PartByCell, target VelocityProfile, rate float64) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: part.Range(),
		Update: func(i int, _ float64) {
			v := ps.Vel[i]
			ps.Vel[i] = v.Add(target(ps.Pos[i], v).Sub(v).Scale(rate))
		},
	}
}

// NewFlowRelaxation nudges the velocity in the buffer region toward the
// target profile a fraction per step.
func NewFlowRelaxation(b *body.Body, part *body.PartByCell, target VelocityProfile) *engine.SimpleDynamics {
	return newFlowRelaxation(b, part, target, defaultRelaxationRate)
}

// NewInflowCondition is the rate-one variant: the profile is imposed
// outright.
func NewInflowCondition(b *body.Body, part *body.PartByCell, target VelocityProfile) *engine.SimpleDynamics {
	return newFlowRelaxation(b, part, target, 1.0)
}

// NewDensityRenormalization rescales summed density where the kernel
// support is cut by a boundary and plain summation under-counts. The
// integrator reports the covered volume fraction; dividing by it
// restores the reference level. floor bounds the correction for
// particles the integrator barely sees.
func NewDensityRenormalization(b *body.Body, part *body.PartByCell, integ body.SurfaceIntegrator, floor float64) *engine.SimpleDynamics {
	ps := b.Particles
	return &engine.SimpleDynamics{
		Range: part.Range(),
		Update: func(i int, _ float64) {
			frac := integ.KernelIntegral(ps.Pos[i])
			if frac < floor {
				frac = floor
			}
			if frac < 1 {
				ps.Rho[i] /= frac
				ps.Vol[i] = ps.Mass[i] / ps.Rho[i]
			}
		},
	}
}

// NewDampingBoundary quenches velocity over the damping zone with a
// quadratic ramp along the flow axis: zero strength where particles
// enter the zone, full strength at its far bound.
func NewDampingBoundary(b *body.Body, part *body.PartByCell, zone body.AABox, axis int) *engine.SimpleDynamics {
	ps := b.Particles
	lo := axisOf(zone.Lower, axis)
	span := axisOf(zone.Upper, axis) - lo
	return &engine.SimpleDynamics{
		Range: part.Range(),
		Update: func(i int, dt float64) {
			f := (axisOf(ps.Pos[i], axis) - lo) / span
			ps.Vel[i] = ps.Vel[i].Scale(1 - dt*defaultDampingStrength*f*f)
		},
	}
}

func axisOf(v r2.Vec, axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

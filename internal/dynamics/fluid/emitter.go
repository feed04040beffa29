package fluid

import (
	"fmt"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/engine"
)

// Emitter feeds new particles into the stream from a fixed inflow
// region. The emitter particles are identified once by stable id; each
// step Condition reimposes the inflow state on them, and Inject realizes
// one buffer particle per particle that crossed the emitter's
// downstream bound, pulling the source back by the periodic span so the
// same ids recycle through the region indefinitely.
type Emitter struct {
	body     *body.Body
	part     *body.PartByParticle
	axis     int
	positive bool
	lower    float64
	upper    float64
	span     float64
	target   VelocityProfile
	rho0     float64
	eos      EquationOfState
}

// NewEmitter builds an emitter over the particles currently inside
// zone and reserves bufferWidth times that many inactive slots for
// injection. The axis selects the flow direction, positive its sign.
func NewEmitter(b *body.Body, zone body.AABox, axis int, positive bool, bufferWidth int, target VelocityProfile, rho0 float64, eos EquationOfState) (*Emitter, error) {
	if axis != 0 && axis != 1 {
		return nil, &body.ConfigError{Field: "axis", Detail: fmt.Sprintf("got %d, want 0 or 1", axis)}
	}
	if bufferWidth < 1 {
		return nil, &body.ConfigError{Field: "bufferWidth", Detail: fmt.Sprintf("got %d, want at least 1", bufferWidth)}
	}
	lower := axisOf(zone.Lower, axis)
	upper := axisOf(zone.Upper, axis)
	if !(upper > lower) {
		return nil, &body.ConfigError{Field: "zone", Detail: "empty span along the flow axis"}
	}
	part := body.NewPartByParticle(b, zone)
	if part.Size() == 0 {
		return nil, &body.ConfigError{Field: "zone", Detail: "no particles inside the emitter region"}
	}

	b.Particles.AddBufferParticles(part.Size() * bufferWidth)

	return &Emitter{
		body:     b,
		part:     part,
		axis:     axis,
		positive: positive,
		lower:    lower,
		upper:    upper,
		span:     upper - lower,
		target:   target,
		rho0:     rho0,
		eos:      eos,
	}, nil
}

// Size reports how many particles the emitter recycles.
func (e *Emitter) Size() int { return e.part.Size() }

// Condition returns the stage that reimposes the inflow velocity,
// reference density and matching pressure on the emitter particles.
func (e *Emitter) Condition() *engine.SimpleDynamics {
	ps := e.body.Particles
	return &engine.SimpleDynamics{
		Range: e.part.Range(),
		Update: func(id int, _ float64) {
			i := ps.SortedID[id]
			ps.Vel[i] = e.target(ps.Pos[i], ps.Vel[i])
			ps.Rho[i] = e.rho0
			ps.P[i] = e.eos(ps.Rho[i])
		},
	}
}

// Inject realizes one buffer particle per emitter particle that crossed
// the downstream bound since the last call. The realized copy keeps the
// crossed position and joins the stream; the source is translated back
// by the periodic span with its density and pressure reset. A full
// particle set surfaces as a CapacityError with nothing realized for
// the remaining crossings.
func (e *Emitter) Inject() error {
	ps := e.body.Particles
	for _, id := range e.part.IDs {
		i := ps.SortedID[id]
		x := axisOf(ps.Pos[i], e.axis)
		if e.positive && x > e.upper {
			if _, err := ps.RealizeBuffer(i); err != nil {
				return err
			}
			e.shift(i, -e.span)
		} else if !e.positive && x < e.lower {
			if _, err := ps.RealizeBuffer(i); err != nil {
				return err
			}
			e.shift(i, e.span)
		}
	}
	return nil
}

func (e *Emitter) shift(i int, dx float64) {
	ps := e.body.Particles
	if e.axis == 0 {
		ps.Pos[i].X += dx
	} else {
		ps.Pos[i].Y += dx
	}
	ps.Rho[i] = e.rho0
	ps.P[i] = e.eos(ps.Rho[i])
}

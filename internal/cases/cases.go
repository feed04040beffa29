package cases

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/metrics"
	"github.com/resolventdk/gosph/internal/particles"
	"github.com/resolventdk/gosph/internal/storage"
)

// Zone is a labelled region of the domain, exposed so frontends can
// outline where the special-treatment boxes sit.
type Zone struct {
	Name string
	Box  body.AABox
}

// Scene is a fully built simulation: the system, its main body, the
// metrics to sample, and the composed step. Step owns the whole
// per-step sequence including index and configuration rebuilds, and
// returns the step size it advanced by. Done, when set, reports
// convergence after a step; the runner then ends the run early.
type Scene struct {
	System  *body.System
	Fluid   *body.Body
	Zones   []Zone
	Metrics []metrics.Metric
	Step    func() (float64, error)
	Done    func() bool
}

// TakeSnapshot captures the real particle state for storage.
func (s *Scene) TakeSnapshot() *storage.Snapshot {
	ps := s.Fluid.Particles
	n := ps.TotalReal
	return &storage.Snapshot{
		Time: s.System.Clock.Time,
		Pos:  append([]r2.Vec(nil), ps.Pos[:n]...),
		Vel:  append([]r2.Vec(nil), ps.Vel[:n]...),
		Rho:  append([]float64(nil), ps.Rho[:n]...),
		P:    append([]float64(nil), ps.P[:n]...),
		Mass: append([]float64(nil), ps.Mass[:n]...),
		Vol:  append([]float64(nil), ps.Vol[:n]...),
	}
}

// particlesFromSnapshot rebuilds a particle set from a saved state.
func particlesFromSnapshot(snap *storage.Snapshot) *particles.ParticleSet {
	ps := particles.New(len(snap.Pos))
	copy(ps.Pos, snap.Pos)
	copy(ps.Vel, snap.Vel)
	copy(ps.Rho, snap.Rho)
	copy(ps.P, snap.P)
	copy(ps.Mass, snap.Mass)
	copy(ps.Vol, snap.Vol)
	return ps
}

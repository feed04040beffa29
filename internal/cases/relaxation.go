package cases

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/dynamics"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/metrics"
	"github.com/resolventdk/gosph/internal/particles"
	"github.com/resolventdk/gosph/internal/storage"
)

const (
	relaxationDiscFraction = 0.35
	relaxationStirFraction = 0.02
	relaxationDampingEta   = 1.0
	relaxationTolerance    = 1e-4
)

// buildRelaxation settles a jittered disc of particles into a uniform
// distribution: repulsive relaxation acceleration moves positions, the
// pairwise sweep bleeds the stirring velocity off.
func buildRelaxation(cfg *config.Config, st *storage.Store) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lower, upper := cfg.LowerVec(), cfg.UpperVec()
	spacing := cfg.Domain.Spacing
	rho0 := cfg.Fluid.Rho0
	sys := body.NewSystem(lower, upper, spacing)

	span := upper.Sub(lower)
	disc := body.Circle{
		Center: lower.Add(span.Scale(0.5)),
		Radius: relaxationDiscFraction * math.Min(span.X, span.Y),
	}
	pts := body.GenerateLattice(disc, spacing)
	if len(pts) == 0 {
		return nil, &body.ConfigError{Field: "domain.spacing", Detail: "no lattice points fit the relaxation disc"}
	}

	ps := particles.New(len(pts))
	copy(ps.Pos, pts)
	for i := range pts {
		ps.Mass[i] = rho0 * spacing * spacing
		ps.Rho[i] = rho0
		ps.Vol[i] = spacing * spacing
	}

	b, err := sys.AddBody("relax", ps, kernel.NewWendlandC2(cfg.SmoothingLength()))
	if err != nil {
		return nil, err
	}

	dynamics.NewRandomizePosition(b, spacing, cfg.Seed).Exec(0)

	// seeded stir so the damping sweep has kinetic energy to dissipate
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	stir := relaxationStirFraction * cfg.Fluid.SoundSpeed
	for i := 0; i < ps.TotalReal; i++ {
		v := r2.Vec{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
		ps.Vel[i] = v.Scale(2 * stir)
	}

	if err := sys.Validate(); err != nil {
		return nil, err
	}
	sys.InitializeCellLinkedLists()
	rel := b.NewInnerRelation()
	sys.InitializeConfigurations()

	domain := body.AABox{Lower: lower, Upper: upper}
	bound := dynamics.NewBoxBounding(b, domain)
	accel := dynamics.NewRelaxationAcceleration(b, rel)
	accel.AddPre(bound)
	relaxStep := dynamics.NewRelaxationTimeStep(b)
	density := dynamics.NewDensitySummation(b, rel)
	move := dynamics.NewPositionRelaxation(b)
	damping := dynamics.NewPairwiseDamping(b, rel, relaxationDampingEta)
	check := dynamics.NewInvalidStateCheck(b)
	residual := dynamics.NewMaxDisplacement(b)

	scene := &Scene{
		System: sys,
		Fluid:  b,
		Metrics: []metrics.Metric{
			metrics.NewKineticEnergy(b),
			metrics.NewPeakSpeed(b),
			metrics.NewDensityDeviation(b, rho0),
		},
	}
	scene.Step = func() (float64, error) {
		b.UpdateCellLinkedList()
		b.UpdateConfiguration()
		density.ParallelExec(0)
		accel.ParallelExec(0)
		dt := relaxStep.ParallelExec(0)
		move.ParallelExec(dt)
		damping.ParallelExec(dt)
		if check.ParallelExec(0) {
			return 0, engine.ErrInvalidState
		}
		return dt, nil
	}
	// converged when the last step moved nothing further than a small
	// fraction of the spacing
	scene.Done = func() bool {
		return residual.ParallelExec(sys.Clock.LastDt) < relaxationTolerance*spacing
	}
	return scene, nil
}

package cases

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/config"
	"github.com/resolventdk/gosph/internal/dynamics"
	"github.com/resolventdk/gosph/internal/dynamics/fluid"
	"github.com/resolventdk/gosph/internal/engine"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/metrics"
	"github.com/resolventdk/gosph/internal/particles"
	"github.com/resolventdk/gosph/internal/storage"
)

const (
	emitterWidthCells   = 4
	inletBufferCells    = 8
	outletFraction      = 0.25
	initialFillFraction = 0.5
	channelDampingEta   = 5.0
)

// buildChannel drives flow along the x axis: the emitter recycles its
// particles and realizes copies into the stream, a relaxation buffer
// shapes the profile near the inlet, and a damping zone quiets the flow
// before the outlet wall.
func buildChannel(cfg *config.Config, st *storage.Store) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lower, upper := cfg.LowerVec(), cfg.UpperVec()
	spacing := cfg.Domain.Spacing
	rho0 := cfg.Fluid.Rho0
	span := upper.Sub(lower)
	sys := body.NewSystem(lower, upper, spacing)

	var ps *particles.ParticleSet
	if cfg.Reload != "" {
		snap, err := st.LoadSnapshot(cfg.Reload)
		if err != nil {
			return nil, err
		}
		ps = particlesFromSnapshot(snap)
	} else {
		fill := body.AABox{
			Lower: lower,
			Upper: r2.Vec{X: lower.X + initialFillFraction*span.X, Y: upper.Y},
		}
		pts := body.GenerateLattice(fill, spacing)
		if len(pts) == 0 {
			return nil, &body.ConfigError{Field: "domain.spacing", Detail: "no lattice points fit the channel fill"}
		}
		ps = particles.New(len(pts))
		copy(ps.Pos, pts)
		for i := range pts {
			ps.Mass[i] = rho0 * spacing * spacing
			ps.Rho[i] = rho0
			ps.Vol[i] = spacing * spacing
		}
	}

	b, err := sys.AddBody("water", ps, kernel.NewWendlandC2(cfg.SmoothingLength()))
	if err != nil {
		return nil, err
	}

	// parabolic profile with the configured mean velocity
	u := cfg.Inflow.Velocity
	yc := lower.Y + 0.5*span.Y
	halfH := 0.5 * span.Y
	profile := func(pos, _ r2.Vec) r2.Vec {
		f := (pos.Y - yc) / halfH
		return r2.Vec{X: 1.5 * u * (1 - f*f)}
	}
	eos := fluid.WeaklyCompressibleEOS(rho0, cfg.Fluid.SoundSpeed)

	emitterZone := body.AABox{
		Lower: lower,
		Upper: r2.Vec{X: lower.X + emitterWidthCells*spacing, Y: upper.Y},
	}
	em, err := fluid.NewEmitter(b, emitterZone, 0, true, cfg.Inflow.BufferWidth, profile, rho0, eos)
	if err != nil {
		return nil, err
	}

	inletZone := body.AABox{
		Lower: lower,
		Upper: r2.Vec{X: lower.X + inletBufferCells*spacing, Y: upper.Y},
	}
	inletPart := body.NewPartByCell(b, inletZone)
	inletRelax := fluid.NewFlowRelaxation(b, inletPart, profile)

	outletZone := body.AABox{
		Lower: r2.Vec{X: upper.X - outletFraction*span.X, Y: lower.Y},
		Upper: upper,
	}
	outletPart := body.NewPartByCell(b, outletZone)
	outletDamping := fluid.NewDampingBoundary(b, outletPart, outletZone, 0)

	if err := sys.Validate(); err != nil {
		return nil, err
	}
	sys.InitializeCellLinkedLists()
	rel := b.NewInnerRelation()
	sys.InitializeConfigurations()

	init := dynamics.NewTimeStepInitialization(b, cfg.GravityVec())
	density := dynamics.NewDensitySummation(b, rel)
	kick := dynamics.NewVelocityKick(b)
	damping := dynamics.NewPairwiseDamping(b, rel, channelDampingEta)
	cond := em.Condition()
	advect := dynamics.NewAdvectPositions(b)
	bound := dynamics.NewBoxBounding(b, body.AABox{Lower: lower, Upper: upper})
	acoustic := dynamics.NewAcousticTimeStep(b, cfg.Fluid.SoundSpeed, cfg.Fluid.CFL)
	check := dynamics.NewInvalidStateCheck(b)

	scene := &Scene{
		System: sys,
		Fluid:  b,
		Zones: []Zone{
			{Name: "emitter", Box: emitterZone},
			{Name: "inlet", Box: inletZone},
			{Name: "outlet", Box: outletZone},
		},
		Metrics: []metrics.Metric{
			metrics.NewParticleCount(b),
			metrics.NewKineticEnergy(b),
			metrics.NewPeakSpeed(b),
			metrics.NewDensityDeviation(b, rho0),
		},
	}
	scene.Step = func() (float64, error) {
		dt := acoustic.ParallelExec(0)
		if err := b.SortParticles(); err != nil {
			return 0, err
		}
		b.UpdateConfiguration()
		init.ParallelExec(0)
		density.ParallelExec(0)
		kick.ParallelExec(dt)
		damping.ParallelExec(dt)
		inletRelax.Exec(0)
		cond.Exec(0)
		advect.ParallelExec(dt)
		outletDamping.Exec(dt)
		bound.Exec(0)
		if err := em.Inject(); err != nil {
			return 0, err
		}
		if check.ParallelExec(0) {
			return 0, engine.ErrInvalidState
		}
		return dt, nil
	}
	return scene, nil
}

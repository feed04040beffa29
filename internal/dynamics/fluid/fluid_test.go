package fluid

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/body"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/particles"
)

const (
	stripSpacing = 0.1
	stripRho0    = 1000.0
)

// 20x10 lattice filling the left half of a [0,4]x[0,1] channel
func stripBody(t *testing.T) *body.Body {
	t.Helper()
	sys := body.NewSystem(r2.Vec{}, r2.Vec{X: 4, Y: 1}, stripSpacing)
	box := body.AABox{Upper: r2.Vec{X: 2, Y: 1}}
	pts := body.GenerateLattice(box, stripSpacing)
	ps := particles.New(len(pts))
	copy(ps.Pos, pts)
	for i := range pts {
		ps.Mass[i] = stripRho0 * stripSpacing * stripSpacing
		ps.Rho[i] = stripRho0
		ps.Vol[i] = stripSpacing * stripSpacing
	}
	b, err := sys.AddBody("water", ps, kernel.NewWendlandC2(1.3*stripSpacing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.UpdateCellLinkedList()
	return b
}

func uniformInflow(u float64) VelocityProfile {
	return func(_, _ r2.Vec) r2.Vec { return r2.Vec{X: u} }
}

func emitterZone() body.AABox {
	return body.AABox{Upper: r2.Vec{X: 0.4, Y: 1}}
}

func TestWeaklyCompressibleEOS(t *testing.T) {
	eos := WeaklyCompressibleEOS(stripRho0, 10)
	if p := eos(stripRho0); p != 0 {
		t.Errorf("expected zero pressure at reference density, got %v", p)
	}
	if p := eos(stripRho0 + 2); math.Abs(p-200) > 1e-12 {
		t.Errorf("expected pressure 200, got %v", p)
	}
	if p := eos(stripRho0 - 1); math.Abs(p+100) > 1e-12 {
		t.Errorf("expected pressure -100, got %v", p)
	}
}

func TestInflowConditionImposesProfile(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	for i := 0; i < ps.TotalReal; i++ {
		ps.Vel[i] = r2.Vec{X: 9, Y: 9}
	}

	zone := emitterZone()
	part := body.NewPartByCell(b, zone)
	if part.Size() == 0 {
		t.Fatal("inflow part is empty")
	}
	NewInflowCondition(b, part, uniformInflow(1.5)).Exec(0)

	for i := 0; i < ps.TotalReal; i++ {
		if !zone.Contains(ps.Pos[i]) {
			continue
		}
		if ps.Vel[i].X != 1.5 || ps.Vel[i].Y != 0 {
			t.Fatalf("particle %d inside the zone kept velocity %v", i, ps.Vel[i])
		}
	}
}

func TestFlowRelaxationConvergesGeometrically(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	zone := emitterZone()
	part := body.NewPartByCell(b, zone)
	relax := NewFlowRelaxation(b, part, uniformInflow(1))

	// pick a particle well inside the zone
	probe := -1
	for i := 0; i < ps.TotalReal; i++ {
		if ps.Pos[i].X < 0.3 && ps.Pos[i].Y > 0.3 && ps.Pos[i].Y < 0.7 {
			probe = i
			break
		}
	}
	if probe < 0 {
		t.Fatal("no probe particle inside the zone")
	}

	for n := 1; n <= 5; n++ {
		relax.Exec(0)
		want := 1 - math.Pow(0.7, float64(n))
		if math.Abs(ps.Vel[probe].X-want) > 1e-12 {
			t.Errorf("after %d steps expected u=%v, got %v", n, want, ps.Vel[probe].X)
		}
		if ps.Vel[probe].Y != 0 {
			t.Errorf("after %d steps expected v=0, got %v", n, ps.Vel[probe].Y)
		}
	}
}

func TestDampingBoundaryQuadraticRamp(t *testing.T) {
	spacing := 0.1
	sys := body.NewSystem(r2.Vec{}, r2.Vec{X: 4, Y: 1}, spacing)
	ps := particles.New(3)
	ps.Pos[0] = r2.Vec{X: 3.0, Y: 0.5}
	ps.Pos[1] = r2.Vec{X: 3.5, Y: 0.5}
	ps.Pos[2] = r2.Vec{X: 4.0, Y: 0.5}
	for i := range ps.Pos {
		ps.Vel[i] = r2.Vec{X: 2, Y: 0}
		ps.Mass[i] = 1
		ps.Rho[i] = stripRho0
		ps.Vol[i] = 1e-3
	}
	b, err := sys.AddBody("water", ps, kernel.NewWendlandC2(1.3*spacing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.UpdateCellLinkedList()

	zone := body.AABox{Lower: r2.Vec{X: 3}, Upper: r2.Vec{X: 4, Y: 1}}
	part := body.NewPartByCell(b, zone)
	dt := 0.02
	NewDampingBoundary(b, part, zone, 0).Exec(dt)

	// factor is zero at the zone entrance, one at the far bound
	cases := []struct {
		slot   int
		factor float64
	}{
		{0, 0},
		{1, 0.5},
		{2, 1},
	}
	for _, c := range cases {
		want := 2 * (1 - dt*5*c.factor*c.factor)
		if math.Abs(ps.Vel[c.slot].X-want) > 1e-14 {
			t.Errorf("slot %d: expected u=%v, got %v", c.slot, want, ps.Vel[c.slot].X)
		}
	}
	if !(ps.Vel[2].X < ps.Vel[1].X && ps.Vel[1].X < ps.Vel[0].X) {
		t.Errorf("damping not monotonic along the zone: %v, %v, %v",
			ps.Vel[0].X, ps.Vel[1].X, ps.Vel[2].X)
	}
}

func TestDensityRenormalizationRestoresFloorDensity(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	integ := body.ShapeIntegrator{
		Shape:  body.AABox{Upper: r2.Vec{X: 4, Y: 1}},
		Kernel: b.Kernel,
	}

	// floor cells away from the corners, so only the y=0 wall truncates
	zone := body.AABox{Lower: r2.Vec{X: 0.5}, Upper: r2.Vec{X: 1.5, Y: 0.1}}
	part := body.NewPartByCell(b, zone)
	if part.Size() == 0 {
		t.Fatal("floor part is empty")
	}

	// write the truncated sum a summation against the wall would give
	for _, c := range part.Cells {
		for _, i := range b.Grid.Cell(c) {
			ps.Rho[i] = stripRho0 * integ.KernelIntegral(ps.Pos[i])
		}
	}
	deep := -1
	for i := 0; i < ps.TotalReal; i++ {
		if ps.Pos[i].Y > 0.5 {
			deep = i
			break
		}
	}
	if deep < 0 {
		t.Fatal("no particle outside the floor cells")
	}
	ps.Rho[deep] = 123

	NewDensityRenormalization(b, part, integ, 0.1).Exec(0)

	checked := 0
	for _, c := range part.Cells {
		for _, i := range b.Grid.Cell(c) {
			if ps.Pos[i].Y > 0.2 {
				continue
			}
			if math.Abs(ps.Rho[i]-stripRho0) > 1e-9 {
				t.Errorf("particle %d: expected density %v, got %v", i, stripRho0, ps.Rho[i])
			}
			if math.Abs(ps.Vol[i]-stripSpacing*stripSpacing) > 1e-12 {
				t.Errorf("particle %d: volume not refreshed, got %v", i, ps.Vol[i])
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no truncated particles checked")
	}
	if ps.Rho[deep] != 123 {
		t.Errorf("particle outside the part corrected to %v", ps.Rho[deep])
	}
}

func TestNewEmitterValidation(t *testing.T) {
	eos := WeaklyCompressibleEOS(stripRho0, 10)
	tests := []struct {
		name  string
		zone  body.AABox
		axis  int
		width int
	}{
		{"bad axis", emitterZone(), 2, 2},
		{"zero buffer width", emitterZone(), 0, 0},
		{"empty span", body.AABox{Lower: r2.Vec{X: 0.4}, Upper: r2.Vec{X: 0.4, Y: 1}}, 0, 2},
		{"no particles", body.AABox{Lower: r2.Vec{X: 3}, Upper: r2.Vec{X: 3.4, Y: 1}}, 0, 2},
	}
	for _, tt := range tests {
		b := stripBody(t)
		_, err := NewEmitter(b, tt.zone, tt.axis, true, tt.width, uniformInflow(1), stripRho0, eos)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
			continue
		}
		if !errors.Is(err, body.ErrConfig) {
			t.Errorf("%s: expected configuration error, got %v", tt.name, err)
		}
	}
}

func TestEmitterReservesBuffer(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	n := ps.TotalReal
	em, err := NewEmitter(b, emitterZone(), 0, true, 3, uniformInflow(1), stripRho0,
		WeaklyCompressibleEOS(stripRho0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if em.Size() != 40 {
		t.Fatalf("expected 40 emitter particles, got %d", em.Size())
	}
	if ps.TotalReal != n {
		t.Errorf("reserving buffer changed TotalReal to %d", ps.TotalReal)
	}
	if got := ps.Bound() - n; got != 120 {
		t.Errorf("expected 120 buffer slots, got %d", got)
	}
}

func TestEmitterConditionSurvivesReorder(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	zone := emitterZone()
	inside := body.NewPartByParticle(b, zone)
	em, err := NewEmitter(b, zone, 0, true, 2, uniformInflow(1.5), stripRho0,
		WeaklyCompressibleEOS(stripRho0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// scramble slots, then overwrite the state the condition must restore
	perm := make([]int, ps.TotalReal)
	for i := range perm {
		perm[i] = ps.TotalReal - 1 - i
	}
	if err := ps.Reorder(perm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < ps.TotalReal; i++ {
		ps.Vel[i] = r2.Vec{X: 9, Y: 9}
		ps.Rho[i] = 1
		ps.P[i] = 7
	}

	em.Condition().Exec(0)

	for _, id := range inside.IDs {
		i := ps.SortedID[id]
		if ps.Vel[i].X != 1.5 || ps.Vel[i].Y != 0 {
			t.Fatalf("id %d: expected inflow velocity, got %v", id, ps.Vel[i])
		}
		if ps.Rho[i] != stripRho0 {
			t.Errorf("id %d: expected reference density, got %v", id, ps.Rho[i])
		}
		if ps.P[i] != 0 {
			t.Errorf("id %d: expected zero pressure, got %v", id, ps.P[i])
		}
	}

	// a particle outside the emitter keeps its state
	outside := -1
	for i := 0; i < ps.TotalReal; i++ {
		if ps.Pos[i].X > 1 {
			outside = i
			break
		}
	}
	if outside < 0 {
		t.Fatal("no particle outside the emitter")
	}
	if ps.Vel[outside].X != 9 || ps.Rho[outside] != 1 || ps.P[outside] != 7 {
		t.Errorf("outside particle was touched: vel=%v rho=%v p=%v",
			ps.Vel[outside], ps.Rho[outside], ps.P[outside])
	}
}

func TestEmitterInjectsOnCrossing(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	em, err := NewEmitter(b, emitterZone(), 0, true, 2, uniformInflow(1.5), stripRho0,
		WeaklyCompressibleEOS(stripRho0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := ps.TotalReal

	src := -1
	for i := 0; i < n; i++ {
		if math.Abs(ps.Pos[i].X-0.35) < 1e-9 && math.Abs(ps.Pos[i].Y-0.45) < 1e-9 {
			src = i
			break
		}
	}
	if src < 0 {
		t.Fatal("no particle on the last emitter column")
	}
	ps.Pos[src].X = 0.41
	ps.Vel[src] = r2.Vec{X: 1.5}

	if err := em.Inject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.TotalReal != n+1 {
		t.Fatalf("expected %d real particles, got %d", n+1, ps.TotalReal)
	}

	// the realized copy keeps the crossed position and state
	if ps.Pos[n].X != 0.41 || ps.Pos[n].Y != 0.45 {
		t.Errorf("realized particle at %v, want {0.41 0.45}", ps.Pos[n])
	}
	if ps.Vel[n].X != 1.5 {
		t.Errorf("realized particle velocity %v, want 1.5", ps.Vel[n].X)
	}

	// the source recycled upstream by the periodic span with reset state
	if math.Abs(ps.Pos[src].X-0.01) > 1e-12 {
		t.Errorf("source recycled to x=%v, want 0.01", ps.Pos[src].X)
	}
	if ps.Rho[src] != stripRho0 || ps.P[src] != 0 {
		t.Errorf("source state not reset: rho=%v p=%v", ps.Rho[src], ps.P[src])
	}

	// nothing crosses on the second pass
	if err := em.Inject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.TotalReal != n+1 {
		t.Errorf("second pass injected: %d real particles", ps.TotalReal)
	}
}

func TestEmitterInjectsDownstreamNegative(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	zone := emitterZone()
	em, err := NewEmitter(b, zone, 0, false, 2, uniformInflow(-1), stripRho0,
		WeaklyCompressibleEOS(stripRho0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := ps.TotalReal

	src := -1
	for i := 0; i < n; i++ {
		if zone.Contains(ps.Pos[i]) {
			src = i
			break
		}
	}
	if src < 0 {
		t.Fatal("no particle inside the emitter")
	}
	ps.Pos[src].X = -0.05

	if err := em.Inject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.TotalReal != n+1 {
		t.Fatalf("expected %d real particles, got %d", n+1, ps.TotalReal)
	}
	if ps.Pos[n].X != -0.05 {
		t.Errorf("realized particle at x=%v, want -0.05", ps.Pos[n].X)
	}
	if math.Abs(ps.Pos[src].X-0.35) > 1e-12 {
		t.Errorf("source recycled to x=%v, want 0.35", ps.Pos[src].X)
	}
}

func TestEmitterCapacityError(t *testing.T) {
	b := stripBody(t)
	ps := b.Particles
	zone := emitterZone()
	inside := body.NewPartByParticle(b, zone)
	em, err := NewEmitter(b, zone, 0, true, 1, uniformInflow(1), stripRho0,
		WeaklyCompressibleEOS(stripRho0, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := ps.TotalReal

	crossAll := func() {
		for _, id := range inside.IDs {
			i := ps.SortedID[id]
			ps.Pos[i].X += 0.41
		}
	}

	// first wave fills the buffer exactly
	crossAll()
	if err := em.Inject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.TotalReal != ps.Bound() {
		t.Fatalf("expected a full set, got %d of %d", ps.TotalReal, ps.Bound())
	}

	// second wave has nowhere to go
	crossAll()
	before := make([]r2.Vec, len(inside.IDs))
	for k, id := range inside.IDs {
		before[k] = ps.Pos[ps.SortedID[id]]
	}
	err = em.Inject()
	if err == nil {
		t.Fatal("expected a capacity error, got nil")
	}
	if !errors.Is(err, particles.ErrCapacityExceeded) {
		t.Errorf("expected capacity error, got %v", err)
	}
	var capErr *particles.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected a CapacityError, got %T", err)
	}
	if capErr.Bound != n+len(inside.IDs) {
		t.Errorf("expected bound %d, got %d", n+len(inside.IDs), capErr.Bound)
	}
	if ps.TotalReal != ps.Bound() {
		t.Errorf("failed injection changed TotalReal to %d", ps.TotalReal)
	}
	for k, id := range inside.IDs {
		if got := ps.Pos[ps.SortedID[id]]; got != before[k] {
			t.Errorf("failed injection moved id %d to %v", id, got)
		}
	}
}

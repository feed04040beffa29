package neighbor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/resolventdk/gosph/internal/grid"
	"github.com/resolventdk/gosph/internal/kernel"
	"github.com/resolventdk/gosph/internal/particles"
)

// a line of particles, unit spacing, inside a padded 2-D grid
func lineSetup(t *testing.T, n int, x0 float64) (*particles.ParticleSet, *grid.CellLinkedList, *InnerRelation) {
	t.Helper()
	kern := kernel.NewWendlandC2(0.75) // cutoff 1.5
	ps := particles.New(n)
	for i := 0; i < n; i++ {
		ps.Pos[i] = r2.Vec{X: x0 + float64(i), Y: 2}
	}
	g, err := grid.New(r2.Vec{}, r2.Vec{X: x0 + float64(n) + 2, Y: 4.5}, kern.CutoffRadius())
	require.NoError(t, err)
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel := NewInnerRelation(ps, g, kern)
	rel.Update()
	return ps, g, rel
}

func TestLineNeighborCounts(t *testing.T) {
	_, _, rel := lineSetup(t, 10, 0.25)

	for i := 0; i < 10; i++ {
		nb := rel.Config(i)
		want := 2
		if i == 0 || i == 9 {
			want = 1
		}
		assert.Equal(t, want, nb.Len(), "particle %d neighbor count", i)
		for k, j := range nb.J {
			assert.Equal(t, 1.0, nb.Dist[k], "distance to neighbor %d", j)
		}
	}
}

func TestLineNeighborsAfterTranslation(t *testing.T) {
	ps, g, rel := lineSetup(t, 10, 0.25)

	before := make([][]int, 10)
	cellsBefore := make([]int, 10)
	for i := 0; i < 10; i++ {
		before[i] = append([]int(nil), rel.Config(i).J...)
		cellsBefore[i] = g.CellIndexOf(ps.Pos[i])
	}

	// a rigid shift of one cell size moves every particle one cell over
	// but leaves every neighbor set untouched
	for i := 0; i < 10; i++ {
		ps.Pos[i].X += 1.5
	}
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel.Update()

	for i := 0; i < 10; i++ {
		assert.Equal(t, cellsBefore[i]+1, g.CellIndexOf(ps.Pos[i]), "cell of particle %d", i)
		assert.Equal(t, before[i], rel.Config(i).J, "neighbors of particle %d", i)
	}
}

func TestNeighborhoodTerms(t *testing.T) {
	kern := kernel.NewWendlandC2(0.75)
	ps := particles.New(2)
	ps.Pos[0] = r2.Vec{X: 2, Y: 2}
	ps.Pos[1] = r2.Vec{X: 3, Y: 2}
	g, err := grid.New(r2.Vec{}, r2.Vec{X: 6, Y: 6}, kern.CutoffRadius())
	require.NoError(t, err)
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel := NewInnerRelation(ps, g, kern)
	rel.Update()

	nb0, nb1 := rel.Config(0), rel.Config(1)
	require.Equal(t, 1, nb0.Len(), "left particle neighbor count")
	require.Equal(t, 1, nb1.Len(), "right particle neighbor count")

	assert.Equal(t, 1, nb0.J[0], "left sees right")
	assert.Equal(t, 0, nb1.J[0], "right sees left")
	assert.Equal(t, kern.W(1), nb0.W[0], "cached kernel value")
	assert.Equal(t, kern.DW(1), nb0.DW[0], "cached kernel derivative")

	// unit vector points from the neighbor toward the owner
	assert.InDelta(t, -1, nb0.E[0].X, 1e-14, "left owner direction")
	assert.InDelta(t, 1, nb1.E[0].X, 1e-14, "right owner direction")
	assert.InDelta(t, 0, nb0.E[0].Y, 1e-14, "no vertical component")
}

func TestNeighborSymmetry(t *testing.T) {
	kern := kernel.NewWendlandC2(0.6)
	pts := []r2.Vec{
		{X: 2.0, Y: 2.0}, {X: 2.8, Y: 2.1}, {X: 2.3, Y: 2.9},
		{X: 4.9, Y: 4.9}, {X: 2.1, Y: 2.6}, {X: 3.4, Y: 2.2},
	}
	ps := particles.New(len(pts))
	copy(ps.Pos, pts)
	g, err := grid.New(r2.Vec{}, r2.Vec{X: 7, Y: 7}, kern.CutoffRadius())
	require.NoError(t, err)
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel := NewInnerRelation(ps, g, kern)
	rel.Update()

	for i := range pts {
		nb := rel.Config(i)
		for k, j := range nb.J {
			assert.NotEqual(t, i, j, "self excluded")
			other := rel.Config(j)
			found := -1
			for m, jj := range other.J {
				if jj == i {
					found = m
				}
			}
			require.GreaterOrEqual(t, found, 0, "pair %d,%d symmetric", i, j)
			assert.Equal(t, nb.Dist[k], other.Dist[found], "pair distance agrees")
			assert.Equal(t, nb.W[k], other.W[found], "pair kernel value agrees")
			assert.InDelta(t, -nb.E[k].X, other.E[found].X, 1e-14, "unit vectors opposite")
			assert.InDelta(t, -nb.E[k].Y, other.E[found].Y, 1e-14, "unit vectors opposite")
		}
	}
}

func TestBufferSlotsExcluded(t *testing.T) {
	kern := kernel.NewWendlandC2(0.75)
	ps := particles.New(2)
	ps.Pos[0] = r2.Vec{X: 2, Y: 2}
	ps.Pos[1] = r2.Vec{X: 3, Y: 2}
	ps.AddBufferParticles(5) // buffer slots all sit at the origin
	g, err := grid.New(r2.Vec{}, r2.Vec{X: 6, Y: 6}, kern.CutoffRadius())
	require.NoError(t, err)
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel := NewInnerRelation(ps, g, kern)
	rel.Update()

	assert.Equal(t, 1, rel.Config(0).Len(), "buffer slots must not appear as neighbors")
}

func TestStaleConfiguration(t *testing.T) {
	ps, g, rel := lineSetup(t, 4, 0.25)

	require.NoError(t, rel.Fresh(), "fresh after update")
	if _, err := rel.Neighborhood(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g.Rebuild(ps.Pos, ps.TotalReal)

	err := rel.Fresh()
	require.Error(t, err, "stale after unseen rebuild")
	assert.True(t, errors.Is(err, ErrStaleConfiguration), "wraps the stale sentinel")
	var se *StaleError
	require.True(t, errors.As(err, &se), "exposes the stamps")
	assert.Equal(t, se.Want, se.Have+1, "one missed rebuild")

	_, err = rel.Neighborhood(1)
	assert.True(t, errors.Is(err, ErrStaleConfiguration), "guarded accessor fails")

	rel.Update()
	assert.NoError(t, rel.Fresh(), "fresh again after update")
}

func TestCoincidentParticlesSkipped(t *testing.T) {
	kern := kernel.NewWendlandC2(0.75)
	ps := particles.New(2)
	ps.Pos[0] = r2.Vec{X: 2, Y: 2}
	ps.Pos[1] = r2.Vec{X: 2, Y: 2}
	g, err := grid.New(r2.Vec{}, r2.Vec{X: 6, Y: 6}, kern.CutoffRadius())
	require.NoError(t, err)
	g.Rebuild(ps.Pos, ps.TotalReal)
	rel := NewInnerRelation(ps, g, kern)
	rel.Update()

	for i := 0; i < 2; i++ {
		for _, dist := range rel.Config(i).Dist {
			assert.Greater(t, dist, 0.0, "no zero-distance pairs")
		}
		for _, e := range rel.Config(i).E {
			assert.False(t, math.IsNaN(e.X) || math.IsNaN(e.Y), "no NaN directions")
		}
	}
}

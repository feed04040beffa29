package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CellLinkedList buckets particle slots into a uniform grid of square
// cells. The cell size must not be smaller than the interaction cutoff so
// that all neighbors of a particle live in the particle's cell or the
// eight cells around it.
type CellLinkedList struct {
	lower    r2.Vec
	upper    r2.Vec
	cellSize float64
	inv      float64
	nx, ny   int

	cells [][]int
	split [][]int
	stamp uint64
}

// New builds an empty grid covering at least [lower, upper]. The grid is
// padded outward to a whole number of cells, with at least three cells
// per axis so the sweep coloring is meaningful.
func New(lower, upper r2.Vec, cellSize float64) (*CellLinkedList, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("gosph: grid cell size must be a positive finite number, got %v", cellSize)
	}
	if upper.X <= lower.X || upper.Y <= lower.Y {
		return nil, fmt.Errorf("gosph: grid upper bound %v does not exceed lower bound %v", upper, lower)
	}

	nx := int(math.Ceil((upper.X - lower.X) / cellSize))
	ny := int(math.Ceil((upper.Y - lower.Y) / cellSize))
	if nx < 3 {
		nx = 3
	}
	if ny < 3 {
		ny = 3
	}

	g := &CellLinkedList{
		lower:    lower,
		upper:    r2.Vec{X: lower.X + float64(nx)*cellSize, Y: lower.Y + float64(ny)*cellSize},
		cellSize: cellSize,
		inv:      1 / cellSize,
		nx:       nx,
		ny:       ny,
		cells:    make([][]int, nx*ny),
	}
	g.buildSplit()
	return g, nil
}

// buildSplit colors cells by (ix mod 3, iy mod 3) into nine sweep groups.
// Two distinct cells in one group sit at least three cells apart along
// some axis, so their one-cell write halos never overlap.
func (g *CellLinkedList) buildSplit() {
	g.split = make([][]int, 9)
	for iy := 0; iy < g.ny; iy++ {
		for ix := 0; ix < g.nx; ix++ {
			k := (ix % 3) + 3*(iy%3)
			g.split[k] = append(g.split[k], iy*g.nx+ix)
		}
	}
}

func (g *CellLinkedList) NumCells() int           { return g.nx * g.ny }
func (g *CellLinkedList) Dims() (nx, ny int)      { return g.nx, g.ny }
func (g *CellLinkedList) CellSize() float64       { return g.cellSize }
func (g *CellLinkedList) Bounds() (lo, hi r2.Vec) { return g.lower, g.upper }
func (g *CellLinkedList) Cell(c int) []int        { return g.cells[c] }
func (g *CellLinkedList) SplitGroups() [][]int    { return g.split }

// CellCoords splits a row-major cell index back into grid coordinates.
func (g *CellLinkedList) CellCoords(c int) (int, int) { return c % g.nx, c / g.nx }

// Stamp counts rebuilds. Consumers derived from the grid record the stamp
// they saw so use across an unseen rebuild is detectable.
func (g *CellLinkedList) Stamp() uint64 { return g.stamp }

// CellIndexOf maps a position to its row-major cell index, clamping
// positions outside the padded bounds into the edge cells.
func (g *CellLinkedList) CellIndexOf(pos r2.Vec) int {
	ix := int((pos.X - g.lower.X) * g.inv)
	iy := int((pos.Y - g.lower.Y) * g.inv)
	if ix < 0 {
		ix = 0
	} else if ix >= g.nx {
		ix = g.nx - 1
	}
	if iy < 0 {
		iy = 0
	} else if iy >= g.ny {
		iy = g.ny - 1
	}
	return iy*g.nx + ix
}

// Rebuild re-buckets the first n entries of pos, reusing cell storage.
func (g *CellLinkedList) Rebuild(pos []r2.Vec, n int) {
	for c := range g.cells {
		g.cells[c] = g.cells[c][:0]
	}
	for i := 0; i < n; i++ {
		c := g.CellIndexOf(pos[i])
		g.cells[c] = append(g.cells[c], i)
	}
	g.stamp++
}

// ForEachNeighborCell calls fn for the cell c and every geometrically
// adjacent cell, clamped at the domain edges. Order is row-major.
func (g *CellLinkedList) ForEachNeighborCell(c int, fn func(cell int)) {
	cx, cy := c%g.nx, c/g.nx
	for dy := -1; dy <= 1; dy++ {
		iy := cy + dy
		if iy < 0 || iy >= g.ny {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			ix := cx + dx
			if ix < 0 || ix >= g.nx {
				continue
			}
			fn(iy*g.nx + ix)
		}
	}
}

package body

import (
	"github.com/resolventdk/gosph/internal/engine"
)

// PartByParticle is a body subset fixed by particle identity: the stable
// ids of the particles inside shape when the part was built. Operators
// resolve current slots through SortedID at call time, so the part stays
// valid across reorders.
type PartByParticle struct {
	Body *Body
	IDs  []int
}

func NewPartByParticle(b *Body, s Shape) *PartByParticle {
	part := &PartByParticle{Body: b}
	ps := b.Particles
	for slot := 0; slot < ps.TotalReal; slot++ {
		if s.Contains(ps.Pos[slot]) {
			part.IDs = append(part.IDs, ps.UnsortedID[slot])
		}
	}
	return part
}

func (p *PartByParticle) Size() int { return len(p.IDs) }

// Range feeds the stable ids to the stage; the per-particle func owns
// the id-to-slot translation.
func (p *PartByParticle) Range() engine.IndexList {
	return engine.IndexList{IDs: p.IDs}
}

// PartByCell is a body subset fixed by geometry: the grid cells whose
// rectangle overlaps shape's bounds. Its particle contents follow every
// rebuild through the grid, so the part needs no refresh while the grid
// dimensions stand.
type PartByCell struct {
	Body  *Body
	Cells []int
}

func NewPartByCell(b *Body, s Shape) *PartByCell {
	part := &PartByCell{Body: b}
	lo, hi := s.Bounds()
	gridLo, _ := b.Grid.Bounds()
	size := b.Grid.CellSize()

	for c := 0; c < b.Grid.NumCells(); c++ {
		ix, iy := b.Grid.CellCoords(c)
		x0 := gridLo.X + float64(ix)*size
		y0 := gridLo.Y + float64(iy)*size
		if x0 <= hi.X && x0+size >= lo.X && y0 <= hi.Y && y0+size >= lo.Y {
			part.Cells = append(part.Cells, c)
		}
	}
	return part
}

func (p *PartByCell) Size() int { return len(p.Cells) }

func (p *PartByCell) Range() engine.CellRange {
	return engine.CellRange{Cells: p.Cells, List: p.Body.Grid}
}

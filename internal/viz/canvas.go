package viz

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Braille Patterns: each cell is a 2x4 dot matrix
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a monochrome dot canvas backed by Braille cells. Dot
// coordinates run over (Width*2) x (Height*4) with the origin at the
// top left.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// At reports the Braille rune at cell column col, row row.
func (c *Canvas) At(col, row int) rune { return c.cells[row*c.Width+col] }

// Dot sets the dot at (x, y). Out-of-range coordinates are dropped.
func (c *Canvas) Dot(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
}

// Line draws a dot line from (x0, y0) to (x1, y1) with Bresenham's
// algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect outlines the axis-aligned rectangle spanned by the two corners.
func (c *Canvas) Rect(x0, y0, x1, y1 int) {
	c.Line(x0, y0, x1, y0)
	c.Line(x1, y0, x1, y1)
	c.Line(x1, y1, x0, y1)
	c.Line(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Width*3 + 1) * c.Height)
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto canvas dots. World y points up,
// canvas y points down.
type Viewport struct {
	Lower, Upper r2.Vec
	dw, dh       int
}

func NewViewport(lower, upper r2.Vec, c *Canvas) Viewport {
	return Viewport{Lower: lower, Upper: upper, dw: c.DotWidth(), dh: c.DotHeight()}
}

// Dot maps p to dot coordinates. The second return is false when p
// falls outside the viewport bounds.
func (v Viewport) Dot(p r2.Vec) (int, int, bool) {
	sx := (p.X - v.Lower.X) / (v.Upper.X - v.Lower.X)
	sy := (p.Y - v.Lower.Y) / (v.Upper.Y - v.Lower.Y)
	if sx < 0 || sx > 1 || sy < 0 || sy > 1 {
		return 0, 0, false
	}
	x := int(sx * float64(v.dw-1))
	y := int((1 - sy) * float64(v.dh-1))
	return x, y, true
}

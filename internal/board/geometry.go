package board

import "math"

const (
	DefaultDim  = 700.0
	DefaultSize = 19
)

// Geometry maps between surface pixels and grid cells. The grid is inset by
// one cell spacing on every side, so cell (0,0) is centred at (Offset, Offset).
//
// Rows always follow the y axis and columns the x axis, both when drawing
// and when resolving clicks.
type Geometry struct {
	Dim  float64
	Size int
}

// NewGeometry returns a geometry for a dim×dim surface holding a size×size grid.
func NewGeometry(dim float64, size int) Geometry {
	return Geometry{Dim: dim, Size: size}
}

// Offset is the spacing between lines, which is also the margin.
func (g Geometry) Offset() float64 {
	return g.Dim / float64(g.Size+1)
}

// Center returns the pixel centre of pos.
func (g Geometry) Center(pos Position) (x, y float64) {
	offset := g.Offset()
	return float64(pos.Col+1) * offset, float64(pos.Row+1) * offset
}

// CellAt resolves a pixel to the nearest cell. ok is false when the nearest
// cell lies outside [0, Size-1] on either axis.
func (g Geometry) CellAt(px, py float64) (pos Position, ok bool) {
	offset := g.Offset()
	pos = Position{
		Row: int(math.Round((py - offset) / offset)),
		Col: int(math.Round((px - offset) / offset)),
	}
	return pos, g.Contains(pos)
}

// Contains reports whether pos is a cell of the grid.
func (g Geometry) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Size && pos.Col >= 0 && pos.Col < g.Size
}

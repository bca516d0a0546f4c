package term

import (
	"image/color"
	"sync"

	"boardclient/internal/board"
)

// Mark is what a terminal cell shows at an intersection.
type Mark int

const (
	MarkNone Mark = iota
	MarkLight
	MarkDark
	MarkHint
)

// Surface draws a board onto a character grid. Grid lines are implied by
// the layout, so only circles are recorded: each one is snapped to the
// intersection under its centre and classified by luminance.
type Surface struct {
	mu    sync.RWMutex
	geo   board.Geometry
	draft [][]Mark
	shown [][]Mark
}

// NewSurface returns an empty surface for geo.
func NewSurface(geo board.Geometry) *Surface {
	return &Surface{
		geo:   geo,
		draft: newMarks(geo.Size),
		shown: newMarks(geo.Size),
	}
}

func newMarks(size int) [][]Mark {
	m := make([][]Mark, size)
	for i := range m {
		m[i] = make([]Mark, size)
	}
	return m
}

func (s *Surface) Clear(color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = newMarks(s.geo.Size)
}

func (s *Surface) Line(x1, y1, x2, y2 float64, stroke color.NRGBA) {}

func (s *Surface) Circle(cx, cy, diameter float64, fill color.NRGBA) {
	pos, ok := s.geo.CellAt(cx, cy)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft[pos.Row][pos.Col] = classify(fill)
}

func classify(c color.NRGBA) Mark {
	l := (int(c.R) + int(c.G) + int(c.B)) / 3
	switch {
	case l >= 192:
		return MarkLight
	case l <= 63:
		return MarkDark
	}
	return MarkHint
}

// Flush makes the drawing visible to At.
func (s *Surface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for row := range s.draft {
		copy(s.shown[row], s.draft[row])
	}
}

// At returns the visible mark at pos.
func (s *Surface) At(pos board.Position) Mark {
	if !s.geo.Contains(pos) {
		return MarkNone
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shown[pos.Row][pos.Col]
}

// Size returns the number of lines of the grid.
func (s *Surface) Size() int {
	return s.geo.Size
}

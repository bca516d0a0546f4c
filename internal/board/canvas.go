package board

import (
	"image/color"
	"sync"
)

type OpKind int

const (
	OpLine OpKind = iota + 1
	OpCircle
)

// Op is one recorded drawing operation. Lines use X1..Y2, circles use
// X1,Y1 as the centre and Diameter.
type Op struct {
	Kind     OpKind
	X1, Y1   float64
	X2, Y2   float64
	Diameter float64
	Color    color.NRGBA
}

// Flusher is implemented by surfaces that present drawing in batches.
// Nothing drawn since the previous Flush is visible before Flush.
type Flusher interface {
	Flush()
}

// Canvas is a Surface that keeps a display list of what was drawn since the
// last Clear. Readers see the list as of the last Flush. It is safe for
// concurrent use.
type Canvas struct {
	mu         sync.RWMutex
	dim        float64
	draftBg    color.NRGBA
	draft      []Op
	background color.NRGBA
	ops        []Op
}

// NewCanvas returns an empty dim×dim canvas.
func NewCanvas(dim float64) *Canvas {
	return &Canvas{dim: dim}
}

func (c *Canvas) Clear(background color.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftBg = background
	c.draft = nil
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, stroke color.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = append(c.draft, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: stroke})
}

func (c *Canvas) Circle(cx, cy, diameter float64, fill color.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = append(c.draft, Op{Kind: OpCircle, X1: cx, Y1: cy, Diameter: diameter, Color: fill})
}

// Flush publishes everything drawn so far.
func (c *Canvas) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.background = c.draftBg
	c.ops = append([]Op(nil), c.draft...)
}

// Frame is an immutable copy of a canvas.
type Frame struct {
	Dim        float64
	Background color.NRGBA
	Ops        []Op
}

// Frame copies the display list as of the last Flush.
func (c *Canvas) Frame() Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Frame{
		Dim:        c.dim,
		Background: c.background,
		Ops:        append([]Op(nil), c.ops...),
	}
}

// Circles returns only the circle operations of the frame.
func (f Frame) Circles() []Op {
	out := make([]Op, 0, len(f.Ops))
	for _, op := range f.Ops {
		if op.Kind == OpCircle {
			out = append(out, op)
		}
	}
	return out
}

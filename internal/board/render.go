package board

import "image/color"

// Surface is a drawing target. Coordinates are in surface pixels.
type Surface interface {
	Clear(background color.NRGBA)
	Line(x1, y1, x2, y2 float64, stroke color.NRGBA)
	Circle(cx, cy, diameter float64, fill color.NRGBA)
}

// Shade holds the luminance a player's stones are drawn with.
type Shade struct {
	Move       uint8
	Suggestion uint8
}

// Palette maps player colors to render luminance.
type Palette map[Cell]Shade

var (
	Background = color.NRGBA{R: 200, G: 200, B: 200, A: 150}
	LineColor  = color.NRGBA{A: 255}
)

// DefaultPalette draws player one white and player two black, with both
// suggestions in mid gray.
func DefaultPalette() Palette {
	return Palette{
		PlayerOne: {Move: 255, Suggestion: 128},
		PlayerTwo: {Move: 0, Suggestion: 128},
	}
}

func gray(l uint8) color.NRGBA {
	return color.NRGBA{R: l, G: l, B: l, A: 255}
}

// Render redraws the whole board: background, grid lines, then every stone
// of grid. A nil grid draws an empty board.
func Render(s Surface, geo Geometry, palette Palette, grid Grid) {
	s.Clear(Background)

	offset := geo.Offset()
	for i := 0; i < geo.Size; i++ {
		pos := offset + offset*float64(i)
		s.Line(pos, offset/2, pos, geo.Dim-offset/2, LineColor)
		s.Line(offset/2, pos, geo.Dim-offset/2, pos, LineColor)
	}

	for row, cells := range grid {
		for col, c := range cells {
			if c == Empty {
				continue
			}
			DrawStone(s, geo, palette, Position{Row: row, Col: col}, c)
		}
	}
}

// DrawStone draws one stone at pos with the player's move luminance.
func DrawStone(s Surface, geo Geometry, palette Palette, pos Position, c Cell) {
	x, y := geo.Center(pos)
	s.Circle(x, y, geo.Offset()-1, gray(palette[c].Move))
}

// DrawSuggestion draws a hinted stone with the player's suggestion luminance.
func DrawSuggestion(s Surface, geo Geometry, palette Palette, sg Suggestion) {
	x, y := geo.Center(sg.Position)
	s.Circle(x, y, geo.Offset()-1, gray(palette[sg.Color].Suggestion))
}

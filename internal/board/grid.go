package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Cell is the state of one intersection as encoded by the game server.
type Cell int

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

// Opponent returns the other player's color. Empty stays empty.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case PlayerOne:
		return "player-one"
	case PlayerTwo:
		return "player-two"
	}
	return fmt.Sprintf("cell(%d)", int(c))
}

// Grid is a row-major board snapshot: Grid[row][col].
type Grid [][]Cell

var ErrMalformedGrid = errors.New("malformed board snapshot")

// NewGrid returns an all-empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for row := range g {
		g[row] = make([]Cell, size)
	}
	return g
}

// Validate checks that the grid is size×size and only holds known cells.
func (g Grid) Validate(size int) error {
	if len(g) != size {
		return fmt.Errorf("%w: %d rows, want %d", ErrMalformedGrid, len(g), size)
	}
	for row, cells := range g {
		if len(cells) != size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, row, len(cells), size)
		}
		for col, c := range cells {
			if c != Empty && c != PlayerOne && c != PlayerTwo {
				return fmt.Errorf("%w: unknown cell %d at (%d,%d)", ErrMalformedGrid, c, row, col)
			}
		}
	}
	return nil
}

// At returns the cell at pos, or Empty when pos lies outside the grid.
func (g Grid) At(pos Position) Cell {
	if pos.Row < 0 || pos.Row >= len(g) || pos.Col < 0 || pos.Col >= len(g[pos.Row]) {
		return Empty
	}
	return g[pos.Row][pos.Col]
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for row, cells := range g {
		out[row] = append([]Cell(nil), cells...)
	}
	return out
}

// Count returns the number of non-empty cells.
func (g Grid) Count() int {
	n := 0
	for _, cells := range g {
		for _, c := range cells {
			if c != Empty {
				n++
			}
		}
	}
	return n
}

// Position addresses a cell by row and column. On the wire it is [row, col].
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("position: want [row, col], got %d values", len(pair))
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// Move is a stone placement request.
type Move struct {
	Color    Cell     `json:"color"`
	Position Position `json:"position"`
}

// Suggestion is an advisory cell the server proposes for highlighting.
type Suggestion struct {
	Color    Cell     `json:"color"`
	Position Position `json:"position"`
}

package term

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardclient/internal/board"
	"boardclient/internal/session"
)

func renderedSurface(t *testing.T, grid board.Grid) *Surface {
	t.Helper()
	geo := board.NewGeometry(700, 19)
	s := NewSurface(geo)
	board.Render(s, geo, board.DefaultPalette(), grid)
	s.Flush()
	return s
}

func TestSurface_MapsCirclesToCells(t *testing.T) {
	grid := board.NewGrid(19)
	grid[2][3] = board.PlayerOne
	grid[17][17] = board.PlayerTwo
	s := renderedSurface(t, grid)

	assert.Equal(t, MarkLight, s.At(board.Position{Row: 2, Col: 3}))
	assert.Equal(t, MarkDark, s.At(board.Position{Row: 17, Col: 17}))
	assert.Equal(t, MarkNone, s.At(board.Position{Row: 3, Col: 2}))
	assert.Equal(t, MarkNone, s.At(board.Position{Row: 19, Col: 0}))
}

func TestSurface_SuggestionAndFlush(t *testing.T) {
	s := renderedSurface(t, board.NewGrid(19))
	board.DrawSuggestion(s, s.geo, board.DefaultPalette(), board.Suggestion{
		Color:    board.PlayerOne,
		Position: board.Position{Row: 5, Col: 6},
	})
	pos := board.Position{Row: 5, Col: 6}
	assert.Equal(t, MarkNone, s.At(pos))
	s.Flush()
	assert.Equal(t, MarkHint, s.At(pos))

	s.Clear(board.Background)
	s.Flush()
	assert.Equal(t, MarkNone, s.At(pos))
}

func TestGridRune(t *testing.T) {
	assert.Equal(t, '┌', gridRune(0, 0, 19))
	assert.Equal(t, '┘', gridRune(18, 18, 19))
	assert.Equal(t, '┬', gridRune(5, 0, 19))
	assert.Equal(t, '├', gridRune(0, 5, 19))
	assert.Equal(t, '┼', gridRune(5, 5, 19))
}

type fakePlayer struct {
	played chan board.Position
}

func (f *fakePlayer) Play(_ context.Context, pos board.Position) (session.Outcome, error) {
	f.played <- pos
	if pos.Row < 0 || pos.Col < 0 || pos.Row >= 19 || pos.Col >= 19 {
		return session.Outcome{}, session.ErrOutOfBounds
	}
	return session.Outcome{Position: pos, Accepted: true}, nil
}

func (f *fakePlayer) Snapshot() session.View {
	return session.View{State: session.StateIdle, Color: board.PlayerTwo, Board: board.NewGrid(19)}
}

func newTestUI(t *testing.T, s *Surface) (*BoardUI, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 30)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ui := NewBoardUI(context.Background(), tview.NewApplication(), s, logger)
	ui.box.SetRect(0, 0, 40, 21)
	ui.box.Draw(screen)
	return ui, screen
}

func TestBoardUI_DrawsStones(t *testing.T) {
	grid := board.NewGrid(19)
	grid[2][3] = board.PlayerOne
	ui, screen := newTestUI(t, renderedSurface(t, grid))
	defer screen.Fini()

	// Inner rect starts at (1,1); each intersection is two columns wide.
	r, _, _, _ := screen.GetContent(1, 1)
	assert.Equal(t, '┌', r)
	r, _, _, _ = screen.GetContent(1+3*2, 1+2)
	assert.Equal(t, '●', r)
	r, _, _, _ = screen.GetContent(1+3*2+1, 1+2)
	assert.Equal(t, '─', r)

	assert.Equal(t, board.Position{Row: 2, Col: 3}, ui.cellAt(1+3*2, 1+2))
	assert.Equal(t, board.Position{Row: 2, Col: 3}, ui.cellAt(1+3*2+1, 1+2))
	assert.Equal(t, -1, ui.cellAt(0, 5).Col)
}

func TestBoardUI_MouseClickPlays(t *testing.T) {
	ui, screen := newTestUI(t, renderedSurface(t, board.NewGrid(19)))
	defer screen.Fini()
	player := &fakePlayer{played: make(chan board.Position, 4)}
	ui.Bind(player)

	_, ev := ui.mouse(tview.MouseLeftClick, tcell.NewEventMouse(1+4*2, 1+7, tcell.Button1, tcell.ModNone))
	assert.Nil(t, ev)
	assert.Equal(t, board.Position{Row: 7, Col: 4}, <-player.played)

	ui.mu.Lock()
	assert.Equal(t, 4, ui.selX)
	assert.Equal(t, 7, ui.selY)
	ui.mu.Unlock()

	// Clicks off the board still reach the session, which ignores them.
	ui.mouse(tview.MouseLeftClick, tcell.NewEventMouse(0, 25, tcell.Button1, tcell.ModNone))
	got := <-player.played
	assert.Equal(t, -1, got.Col)

	action, ev := ui.mouse(tview.MouseMove, tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, tview.MouseMove, action)
	assert.NotNil(t, ev)
}

func TestBoardUI_KeyboardMovesAndPlays(t *testing.T) {
	ui, screen := newTestUI(t, renderedSurface(t, board.NewGrid(19)))
	defer screen.Fini()
	player := &fakePlayer{played: make(chan board.Position, 4)}
	ui.Bind(player)

	assert.Nil(t, ui.key(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)))
	assert.Nil(t, ui.key(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone)))
	assert.Nil(t, ui.key(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, board.Position{Row: 8, Col: 10}, <-player.played)

	for i := 0; i < 30; i++ {
		ui.key(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	}
	ui.mu.Lock()
	assert.Equal(t, 0, ui.selX)
	ui.mu.Unlock()

	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Same(t, ev, ui.key(ev))
}

func TestStatusText(t *testing.T) {
	grid := board.NewGrid(19)
	grid[0][0] = board.PlayerOne

	text := StatusText(session.View{State: session.StateIdle, Color: board.PlayerOne, Board: grid})
	assert.Contains(t, text, "Your move (● white)")
	assert.Contains(t, text, "stones: 1")

	text = StatusText(session.View{State: session.StateTerminal, Board: grid})
	assert.Contains(t, text, "Game over.")

	text = StatusText(session.View{
		State:      session.StateIdle,
		Color:      board.PlayerTwo,
		Suggestion: &board.Suggestion{Color: board.PlayerTwo, Position: board.Position{Row: 4, Col: 5}},
	})
	assert.Contains(t, text, "○ black")
	assert.Contains(t, text, "hint:")
}

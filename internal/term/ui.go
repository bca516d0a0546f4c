// Package term is a terminal front end for a board session.
package term

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"boardclient/internal/board"
	"boardclient/internal/session"
)

const (
	pageBoard  = "board"
	pageNotice = "notice"
)

// Player is the part of a session the terminal needs.
type Player interface {
	Play(ctx context.Context, pos board.Position) (session.Outcome, error)
	Snapshot() session.View
}

// BoardUI shows a board surface, follows the mouse and keyboard, and reports
// notices in a modal.
type BoardUI struct {
	app     *tview.Application
	pages   *tview.Pages
	box     *tview.Box
	status  *tview.TextView
	surface *Surface
	player  Player
	ctx     context.Context
	log     *slog.Logger

	mu   sync.Mutex
	selX int
	selY int
	// top-left corner of intersection (0,0) as last drawn
	originX int
	originY int
}

// NewBoardUI builds the widgets. Call Bind before Run.
func NewBoardUI(ctx context.Context, app *tview.Application, surface *Surface, logger *slog.Logger) *BoardUI {
	ui := &BoardUI{
		app:     app,
		pages:   tview.NewPages(),
		box:     tview.NewBox(),
		status:  tview.NewTextView().SetDynamicColors(true),
		surface: surface,
		ctx:     ctx,
		log:     logger.With("component", "term"),
		selX:    surface.Size() / 2,
		selY:    surface.Size() / 2,
	}
	ui.box.SetBorder(true).SetTitle(" Gomoku ")
	ui.box.SetDrawFunc(ui.draw)
	ui.box.SetMouseCapture(ui.mouse)
	ui.box.SetInputCapture(ui.key)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.box, surface.Size()+2, 0, true).
		AddItem(ui.status, 3, 0, false)
	ui.pages.AddPage(pageBoard, layout, true, true)
	return ui
}

// Bind attaches the session the board plays into.
func (ui *BoardUI) Bind(p Player) {
	ui.player = p
}

// Root returns the primitive to hand to the application.
func (ui *BoardUI) Root() tview.Primitive {
	return ui.pages
}

// Refresh schedules a redraw from any goroutine.
func (ui *BoardUI) Refresh() {
	go ui.app.QueueUpdateDraw(func() {
		ui.refreshStatus()
	})
}

func (ui *BoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	// inside the border
	ix, iy, iw, ih := x+1, y+1, width-2, height-2
	size := ui.surface.Size()
	left := ix + max(0, (iw-size*2)/2)
	top := iy

	ui.mu.Lock()
	ui.originX, ui.originY = left, top
	selX, selY := ui.selX, ui.selY
	ui.mu.Unlock()

	line := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for row := 0; row < size && row < ih; row++ {
		for col := 0; col < size; col++ {
			r, style := gridRune(col, row, size), line
			switch ui.surface.At(board.Position{Row: row, Col: col}) {
			case MarkLight:
				r, style = '●', tcell.StyleDefault.Foreground(tcell.ColorWhite)
			case MarkDark:
				r, style = '○', tcell.StyleDefault.Foreground(tcell.ColorYellow)
			case MarkHint:
				r, style = '◌', tcell.StyleDefault.Foreground(tcell.ColorAqua)
			}
			if row == selY && col == selX {
				style = style.Reverse(true)
			}
			screen.SetContent(left+col*2, top+row, r, nil, style)
			connector := '─'
			if col == size-1 {
				connector = ' '
			}
			screen.SetContent(left+col*2+1, top+row, connector, nil, line)
		}
	}
	return ix, iy, iw, ih
}

// gridRune returns the box-drawing character for an empty intersection.
func gridRune(x, y, size int) rune {
	top, bottom := y == 0, y == size-1
	left, right := x == 0, x == size-1
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	}
	return '┼'
}

// cellAt maps a terminal coordinate to an intersection. The result may lie
// outside the board; the session decides what that means.
func (ui *BoardUI) cellAt(x, y int) board.Position {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	dx := x - ui.originX
	col := dx / 2
	if dx < 0 {
		col = -1
	}
	return board.Position{Row: y - ui.originY, Col: col}
}

func (ui *BoardUI) mouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	if action != tview.MouseLeftClick {
		return action, event
	}
	x, y := event.Position()
	pos := ui.cellAt(x, y)
	ui.mu.Lock()
	if ui.surface.geo.Contains(pos) {
		ui.selX, ui.selY = pos.Col, pos.Row
	}
	ui.mu.Unlock()
	ui.play(pos)
	return action, nil
}

func (ui *BoardUI) key(event *tcell.EventKey) *tcell.EventKey {
	size := ui.surface.Size()
	move := func(dx, dy int) {
		ui.mu.Lock()
		ui.selX = min(max(ui.selX+dx, 0), size-1)
		ui.selY = min(max(ui.selY+dy, 0), size-1)
		ui.mu.Unlock()
	}
	switch event.Key() {
	case tcell.KeyUp:
		move(0, -1)
	case tcell.KeyDown:
		move(0, 1)
	case tcell.KeyLeft:
		move(-1, 0)
	case tcell.KeyRight:
		move(1, 0)
	case tcell.KeyEnter:
		ui.mu.Lock()
		pos := board.Position{Row: ui.selY, Col: ui.selX}
		ui.mu.Unlock()
		ui.play(pos)
	case tcell.KeyEscape:
		ui.app.Stop()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			ui.app.Stop()
		case 'k':
			move(0, -1)
		case 'j':
			move(0, 1)
		case 'h':
			move(-1, 0)
		case 'l':
			move(1, 0)
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

// play submits a move off the event loop so the network call cannot block
// drawing.
func (ui *BoardUI) play(pos board.Position) {
	if ui.player == nil {
		return
	}
	go func() {
		out, err := ui.player.Play(ui.ctx, pos)
		switch {
		case errors.Is(err, session.ErrOutOfBounds), errors.Is(err, session.ErrMovePending):
			return
		case err != nil && out.Notice == "":
			ui.log.Error("play failed", "position", pos.String(), "error", err)
			ui.notify(err.Error())
		case out.Notice != "":
			ui.notify(out.Notice)
		}
		ui.Refresh()
	}()
}

func (ui *BoardUI) notify(text string) {
	ui.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(text).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(int, string) {
				ui.pages.RemovePage(pageNotice)
				ui.app.SetFocus(ui.box)
			})
		ui.pages.AddPage(pageNotice, modal, false, true)
		ui.app.SetFocus(modal)
	})
}

func (ui *BoardUI) refreshStatus() {
	if ui.player == nil {
		return
	}
	ui.status.SetText(StatusText(ui.player.Snapshot()))
}

// StatusText describes the session for the status line.
func StatusText(view session.View) string {
	var turn string
	switch view.State {
	case session.StateUninitialized:
		turn = "Connecting…"
	case session.StatePending:
		turn = "[yellow]Waiting for the server…[-]"
	case session.StateTerminal:
		turn = "[red]Game over.[-]"
	default:
		stone := "○ black"
		if view.Color == board.PlayerOne {
			stone = "● white"
		}
		turn = fmt.Sprintf("Your move (%s)", stone)
	}
	text := fmt.Sprintf(" %s  stones: %d\n click or ⏎ to play · hjkl/arrows move · q quit", turn, view.Board.Count())
	if view.Suggestion != nil {
		text += fmt.Sprintf("\n hint: %s", view.Suggestion.Position)
	}
	return text
}

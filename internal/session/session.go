// Package session drives one board view: it owns the drawing surface, the
// last snapshot the server confirmed and the local turn, and turns clicks
// into move requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"boardclient/internal/board"
	"boardclient/pkg/apiclient"
)

type State int

const (
	StateUninitialized State = iota
	StateIdle
	StatePending
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateTerminal:
		return "terminal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	GameOverNotice    = "The game is already over. Take a break."
	RejectedNotice    = "Move rejected"
	NotAllowedNotice  = "Forbidden move"
	UnreachableNotice = "Could not reach the game server"
	MalformedNotice   = "The game server sent an unreadable board"
)

var (
	ErrNotInitialized     = errors.New("session not initialized")
	ErrAlreadyInitialized = errors.New("session already initialized")
	ErrOutOfBounds        = errors.New("click outside the board")
	ErrGameOver           = errors.New("game is already over")
	ErrMovePending        = errors.New("a move is already waiting for the server")
)

// API is the part of the game server the session talks to.
type API interface {
	Init(ctx context.Context) (apiclient.InitResponse, error)
	MakeMove(ctx context.Context, move apiclient.MoveRequest) (apiclient.MakeMoveResponse, error)
	CheckMove(ctx context.Context, pos board.Position) (apiclient.CheckMoveResponse, error)
}

// Options configures a Session. Zero values fall back to a 700px 19×19
// board, the default palette and a discarding logger.
type Options struct {
	Geometry   board.Geometry
	Palette    board.Palette
	CheckMoves bool
	Logger     *slog.Logger
	// OnDraw runs after every redraw, outside the session lock.
	OnDraw func()
}

// Outcome describes what happened to a move request.
type Outcome struct {
	Position   board.Position
	Accepted   bool
	Over       bool
	Notice     string
	Suggestion *board.Suggestion
}

// Session is the state of one board view.
type Session struct {
	mu         sync.Mutex
	id         string
	api        API
	surface    board.Surface
	geo        board.Geometry
	palette    board.Palette
	checkMoves bool
	log        *slog.Logger
	onDraw     func()

	state      State
	starting   bool
	color      board.Cell
	last       board.Grid
	suggestion *board.Suggestion
	notice     string
	lastActive time.Time
}

// New creates an uninitialized session drawing onto surface.
func New(id string, api API, surface board.Surface, opts Options) *Session {
	if opts.Geometry.Size <= 0 || opts.Geometry.Dim <= 0 {
		opts.Geometry = board.NewGeometry(board.DefaultDim, board.DefaultSize)
	}
	if opts.Palette == nil {
		opts.Palette = board.DefaultPalette()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		id:         id,
		api:        api,
		surface:    surface,
		geo:        opts.Geometry,
		palette:    opts.Palette,
		checkMoves: opts.CheckMoves,
		log:        opts.Logger.With("component", "session", "session", id),
		onDraw:     opts.OnDraw,
		color:      board.PlayerTwo,
		lastActive: time.Now().UTC(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Geometry() board.Geometry { return s.geo }

// Init fetches the starting position and draws it.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized || s.starting {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.starting = true
	s.mu.Unlock()

	resp, err := s.api.Init(ctx)

	s.mu.Lock()
	s.starting = false
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("init session %s: %w", s.id, err)
	}
	if resp.Board != nil {
		if err := resp.Board.Validate(s.geo.Size); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("init session %s: %w", s.id, err)
		}
	}
	if resp.OpponentOpened() {
		s.color = board.PlayerOne
	}
	s.last = resp.Board.Clone()
	s.state = StateIdle
	s.lastActive = time.Now().UTC()
	board.Render(s.surface, s.geo, s.palette, s.last)
	s.present()
	s.log.Info("session started", "color", s.color.String(), "stones", s.last.Count())
	s.mu.Unlock()

	s.drawn()
	return nil
}

// Click resolves a surface pixel to a cell and plays it.
func (s *Session) Click(ctx context.Context, px, py float64) (Outcome, error) {
	pos, ok := s.geo.CellAt(px, py)
	return s.play(ctx, pos, ok)
}

// Play submits a move at pos for the local color.
func (s *Session) Play(ctx context.Context, pos board.Position) (Outcome, error) {
	return s.play(ctx, pos, s.geo.Contains(pos))
}

func (s *Session) play(ctx context.Context, pos board.Position, inBounds bool) (Outcome, error) {
	s.mu.Lock()
	s.lastActive = time.Now().UTC()
	switch {
	case s.state == StateTerminal:
		s.notice = GameOverNotice
		s.mu.Unlock()
		return Outcome{Position: pos, Over: true, Notice: GameOverNotice}, ErrGameOver
	case !inBounds:
		s.mu.Unlock()
		return Outcome{Position: pos}, ErrOutOfBounds
	case s.state == StateUninitialized:
		s.mu.Unlock()
		return Outcome{Position: pos}, ErrNotInitialized
	case s.state == StatePending:
		s.mu.Unlock()
		return Outcome{Position: pos}, ErrMovePending
	}
	color := s.color
	s.state = StatePending
	s.notice = ""
	s.mu.Unlock()

	// The server may apply a move after the caller gives up, so a submitted
	// move is only bounded by the client timeout.
	ctx = context.WithoutCancel(ctx)

	if s.checkMoves {
		check, err := s.api.CheckMove(ctx, pos)
		if err != nil {
			return s.reject(pos, failureNotice(err), err), nil
		}
		if !check.Allowed {
			return s.reject(pos, NotAllowedNotice, nil), nil
		}
	}

	s.mu.Lock()
	board.DrawStone(s.surface, s.geo, s.palette, pos, color)
	s.present()
	s.mu.Unlock()
	s.drawn()

	s.log.Debug("submitting move", "color", color.String(), "position", pos.String())
	resp, err := s.api.MakeMove(ctx, apiclient.MoveRequest{Color: color, Position: pos})
	if err != nil {
		return s.reject(pos, failureNotice(err), err), nil
	}
	if resp.Rejected() {
		notice := resp.Message
		if notice == "" {
			notice = RejectedNotice
		}
		return s.reject(pos, notice, nil), nil
	}
	if err := resp.Board.Validate(s.geo.Size); err != nil {
		return s.reject(pos, MalformedNotice, err), nil
	}
	return s.accept(pos, color, resp), nil
}

// failureNotice tells a server that answered garbage from one that did not
// answer.
func failureNotice(err error) string {
	var parseErr *apiclient.ParseError
	if errors.As(err, &parseErr) {
		return MalformedNotice
	}
	return UnreachableNotice
}

// reject restores the last confirmed snapshot and records the notice.
func (s *Session) reject(pos board.Position, notice string, cause error) Outcome {
	s.mu.Lock()
	s.state = StateIdle
	s.notice = notice
	s.suggestion = nil
	s.lastActive = time.Now().UTC()
	board.Render(s.surface, s.geo, s.palette, s.last)
	s.present()
	s.mu.Unlock()

	if cause != nil {
		s.log.Warn("move failed", "position", pos.String(), "notice", notice, "error", cause)
	} else {
		s.log.Info("move rejected", "position", pos.String(), "notice", notice)
	}
	s.drawn()
	return Outcome{Position: pos, Notice: notice}
}

func (s *Session) accept(pos board.Position, color board.Cell, resp apiclient.MakeMoveResponse) Outcome {
	s.mu.Lock()
	board.Render(s.surface, s.geo, s.palette, resp.Board)
	// A reply move means the opponent already answered and it is our turn
	// again with the same color.
	if resp.Move == nil {
		s.color = color.Opponent()
	}
	s.suggestion = nil
	if resp.Suggestion != nil && s.geo.Contains(resp.Suggestion.Position) {
		sg := *resp.Suggestion
		s.suggestion = &sg
		board.DrawSuggestion(s.surface, s.geo, s.palette, sg)
	}
	s.present()
	s.last = resp.Board.Clone()
	s.state = StateIdle
	if resp.IsOver {
		s.state = StateTerminal
	}
	s.notice = resp.Message
	s.lastActive = time.Now().UTC()
	out := Outcome{
		Position:   pos,
		Accepted:   true,
		Over:       resp.IsOver,
		Notice:     resp.Message,
		Suggestion: s.suggestion,
	}
	s.mu.Unlock()

	s.log.Info("move accepted",
		"position", pos.String(),
		"over", resp.IsOver,
		"time_move", formatTiming(resp.TimeMove),
		"time_suggestion", formatTiming(resp.TimeSuggestion),
	)
	s.drawn()
	return out
}

func formatTiming(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3fs", *v)
}

// Redraw repaints the last confirmed snapshot and the current suggestion.
func (s *Session) Redraw() {
	s.mu.Lock()
	board.Render(s.surface, s.geo, s.palette, s.last)
	if s.suggestion != nil {
		board.DrawSuggestion(s.surface, s.geo, s.palette, *s.suggestion)
	}
	s.present()
	s.mu.Unlock()
	s.drawn()
}

// present flushes batched surfaces. Callers hold s.mu.
func (s *Session) present() {
	if f, ok := s.surface.(board.Flusher); ok {
		f.Flush()
	}
}

func (s *Session) drawn() {
	if s.onDraw != nil {
		s.onDraw()
	}
}

// View is a read-only copy of the session state.
type View struct {
	ID         string
	State      State
	Color      board.Cell
	Board      board.Grid
	Over       bool
	Suggestion *board.Suggestion
	Notice     string
	Geometry   board.Geometry
	LastActive time.Time
}

// Snapshot returns the current state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sg *board.Suggestion
	if s.suggestion != nil {
		cp := *s.suggestion
		sg = &cp
	}
	return View{
		ID:         s.id,
		State:      s.state,
		Color:      s.color,
		Board:      s.last.Clone(),
		Over:       s.state == StateTerminal,
		Suggestion: sg,
		Notice:     s.notice,
		Geometry:   s.geo,
		LastActive: s.lastActive,
	}
}

// LastActive returns when the session last saw a request or response.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

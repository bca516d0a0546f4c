package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"boardclient/internal/board"
	"boardclient/pkg/realtime"
)

const (
	EventBoard = "board"

	DefaultIdleTTL = 30 * time.Minute
)

// Game pairs a session with the canvas it draws on.
type Game struct {
	Session *Session
	Canvas  *board.Canvas
}

// Store holds the board sessions of a web front end. Every redraw of a
// session is published to its broadcaster as EventBoard.
type Store struct {
	rooms   *realtime.RoomStore[*Game]
	api     API
	opts    Options
	idleTTL time.Duration
	log     *slog.Logger
}

// NewStore creates an empty store. Sessions idle for longer than idleTTL are
// dropped; finished games are dropped after a quarter of it.
func NewStore(api API, opts Options, idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		rooms:   realtime.NewRoomStore[*Game](),
		api:     api,
		opts:    opts,
		idleTTL: idleTTL,
		log:     logger.With("component", "session-store"),
	}
}

// Create starts a session against the server. The session is only
// registered once its starting position has been drawn.
func (s *Store) Create(ctx context.Context) (*Game, error) {
	id := uuid.NewString()
	opts := s.opts
	opts.OnDraw = func() {
		s.rooms.Publish(id, EventBoard)
	}
	canvas := board.NewCanvas(geometryOf(opts).Dim)
	game := &Game{
		Session: New(id, s.api, canvas, opts),
		Canvas:  canvas,
	}
	if err := game.Session.Init(ctx); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.rooms.Create(id, game)
	s.rooms.RunLoop(id, s.expire)
	s.log.Info("session created", "session", id, "sessions", s.rooms.Len())
	return game, nil
}

func geometryOf(opts Options) board.Geometry {
	if opts.Geometry.Size <= 0 || opts.Geometry.Dim <= 0 {
		return board.NewGeometry(board.DefaultDim, board.DefaultSize)
	}
	return opts.Geometry
}

// Get returns a game by ID if it exists.
func (s *Store) Get(id string) (*Game, bool) {
	room, ok := s.rooms.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Click forwards a pixel click to the session and reschedules expiry when
// the game ends.
func (s *Store) Click(ctx context.Context, id string, px, py float64) (Outcome, error) {
	game, ok := s.Get(id)
	if !ok {
		return Outcome{}, fmt.Errorf("session %s: %w", id, ErrNotInitialized)
	}
	out, err := game.Session.Click(ctx, px, py)
	if out.Over {
		s.rooms.Wake(id)
	}
	return out, err
}

// Broadcaster returns the event hub of a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	room, ok := s.rooms.Get(id)
	if !ok {
		return nil, false
	}
	return room.Hub(), true
}

// Delete ends a session and disconnects its subscribers.
func (s *Store) Delete(id string) bool {
	_, ok := s.rooms.Delete(id)
	if ok {
		s.log.Info("session ended", "session", id)
	}
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.rooms.Len()
}

func (s *Store) expire(room *realtime.Room[*Game], now time.Time) (time.Time, bool) {
	view := room.State.Session.Snapshot()
	ttl := s.idleTTL
	if view.Over {
		ttl /= 4
	}
	deadline := view.LastActive.Add(ttl)
	if now.Before(deadline) {
		return deadline, false
	}
	// Delete cancels this loop; stop anyway so the goroutine exits at once.
	s.rooms.Delete(room.ID)
	s.log.Info("session expired", "session", room.ID, "idle", now.Sub(view.LastActive).String())
	return time.Time{}, true
}

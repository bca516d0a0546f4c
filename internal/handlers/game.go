package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"boardclient/internal/board"
	"boardclient/internal/session"
	"boardclient/internal/viewmodel"
	"boardclient/views/components"
	"boardclient/views/pages"
)

const (
	eventBoard  = "board"
	eventStatus = "status"
)

type GameHandler struct {
	store     *session.Store
	timeout   time.Duration
	keepAlive time.Duration
	log       *slog.Logger
}

// NewGameHandler serves board pages. timeout bounds every request except the
// event stream, and must exceed the game server's own timeout.
func NewGameHandler(store *session.Store, timeout time.Duration, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		store:     store,
		timeout:   timeout,
		keepAlive: 25 * time.Second,
		log:       logger.With("component", "game-handler"),
	}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.timeout))
			r.Get("/", h.gamePage)
			r.Delete("/", h.endGame)
			r.Get("/board", h.boardFragment)
			r.Get("/status", h.statusFragment)
			r.Post("/click", h.click)
		})
		r.Get("/stream", h.stream)
	})
}

func (h *GameHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Game, bool) {
	game, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return game, true
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	id := game.Session.ID()
	data := viewmodel.BoardPage{
		Title:     pageTitle,
		GameID:    id,
		ClickURL:  "/game/" + id + "/click",
		StreamURL: "/game/" + id + "/stream",
		Board:     buildBoardFragment(id, game.Canvas.Frame()),
		Status:    buildStatusFragment(game.Session.Snapshot()),
	}
	render(w, r, http.StatusOK, pages.BoardPage(data))
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, components.BoardFragment(buildBoardFragment(game.Session.ID(), game.Canvas.Frame())))
}

func (h *GameHandler) statusFragment(w http.ResponseWriter, r *http.Request) {
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, components.StatusFragment(buildStatusFragment(game.Session.Snapshot())))
}

func (h *GameHandler) endGame(w http.ResponseWriter, r *http.Request) {
	if !h.store.Delete(chi.URLParam(r, "id")) {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) click(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if _, ok := h.store.Get(gameID); !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	x, errX := strconv.ParseFloat(r.FormValue("x"), 64)
	y, errY := strconv.ParseFloat(r.FormValue("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y must be numbers", http.StatusBadRequest)
		return
	}

	out, err := h.store.Click(r.Context(), gameID, x, y)
	h.log.Debug("click", "game", gameID, "x", x, "y", y, "position", out.Position.String(), "accepted", out.Accepted, "error", err)

	// Without the script the move is still played. The notice stays on the
	// session and the status panel of the reloaded page shows it.
	if r.Header.Get("Hx-Request") != "true" {
		http.Redirect(w, r, "/game/"+gameID+"/", http.StatusSeeOther)
		return
	}

	result := viewmodel.ClickResult{
		Accepted: out.Accepted,
		Over:     out.Over,
		Message:  out.Notice,
		Position: [2]int{out.Position.Row, out.Position.Col},
	}
	switch {
	case errors.Is(err, session.ErrOutOfBounds):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, session.ErrGameOver):
		writeJSON(w, http.StatusConflict, result)
	case errors.Is(err, session.ErrMovePending):
		result.Message = "Your previous move is still being checked."
		writeJSON(w, http.StatusConflict, result)
	case errors.Is(err, session.ErrNotInitialized):
		http.NotFound(w, r)
	case err != nil:
		h.log.Error("click failed", "game", gameID, "error", err)
		http.Error(w, "click failed", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	game, ok := h.lookup(w, r)
	if !ok {
		return
	}
	hub, ok := h.store.Broadcaster(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendSnapshot := func() {
		writeSSE(w, eventBoard, renderToString(r, components.BoardFragment(buildBoardFragment(gameID, game.Canvas.Frame()))))
		writeSSE(w, eventStatus, renderToString(r, components.StatusFragment(buildStatusFragment(game.Session.Snapshot()))))
		flusher.Flush()
	}

	sendSnapshot()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			if event == session.EventBoard {
				sendSnapshot()
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func buildBoardFragment(gameID string, frame board.Frame) viewmodel.BoardFragment {
	out := viewmodel.BoardFragment{
		GameID:     gameID,
		Dim:        frame.Dim,
		Background: cssColor(frame.Background.R, frame.Background.G, frame.Background.B, frame.Background.A),
	}
	for _, op := range frame.Ops {
		switch op.Kind {
		case board.OpLine:
			out.Lines = append(out.Lines, viewmodel.Line{
				X1: op.X1, Y1: op.Y1, X2: op.X2, Y2: op.Y2,
				Stroke: cssColor(op.Color.R, op.Color.G, op.Color.B, op.Color.A),
			})
		case board.OpCircle:
			out.Circles = append(out.Circles, viewmodel.Circle{
				CX: op.X1, CY: op.Y1, R: op.Diameter / 2,
				Fill: cssColor(op.Color.R, op.Color.G, op.Color.B, op.Color.A),
			})
		}
	}
	return out
}

func buildStatusFragment(view session.View) viewmodel.StatusFragment {
	return viewmodel.StatusFragment{
		GameID:  view.ID,
		State:   view.State.String(),
		Color:   colorName(view.Color),
		Stones:  view.Board.Count(),
		Over:    view.Over,
		Pending: view.State == session.StatePending,
		Notice:  view.Notice,
	}
}

func colorName(c board.Cell) string {
	switch c {
	case board.PlayerOne:
		return "white"
	case board.PlayerTwo:
		return "black"
	}
	return c.String()
}

func cssColor(r, g, b, a uint8) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(float64(a)/255, 'f', 3, 64))
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"boardclient/internal/session"
	"boardclient/internal/viewmodel"
	"boardclient/views/pages"
)

const pageTitle = "Gomoku"

type HomeHandler struct {
	store      *session.Store
	apiBaseURL string
	boardSize  int
	log        *slog.Logger
}

func NewHomeHandler(store *session.Store, apiBaseURL string, boardSize int, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		store:      store,
		apiBaseURL: apiBaseURL,
		boardSize:  boardSize,
		log:        logger.With("component", "home-handler"),
	}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/games", h.createGame)
}

func (h *HomeHandler) page(errText string) viewmodel.HomePage {
	return viewmodel.HomePage{
		Title:      pageTitle,
		APIBaseURL: h.apiBaseURL,
		BoardSize:  h.boardSize,
		Error:      errText,
	}
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.HomePage(h.page("")))
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.store.Create(r.Context())
	if err != nil {
		h.log.Error("could not start game", "error", err)
		render(w, r, http.StatusBadGateway, pages.HomePage(h.page("Could not start a game: "+err.Error())))
		return
	}
	http.Redirect(w, r, "/game/"+game.Session.ID()+"/", http.StatusSeeOther)
}

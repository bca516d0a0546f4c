package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardclient/internal/board"
)

func newBackend(t *testing.T, routes func(r chi.Router)) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_Defaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)

	c = New(" http://example.test:5000/ ", WithTimeout(time.Second))
	assert.Equal(t, "http://example.test:5000", c.BaseURL())
	assert.Equal(t, time.Second, c.http.Timeout)
}

func TestClient_Post_SendsJSONAndQuery(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "7", r.URL.Query().Get("game"))
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		})
	})
	c := New(srv.URL)

	raw, err := c.Post(context.Background(), "/echo", map[string]int{"color": 2}, url.Values{"game": {"7"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":2}`, string(raw))
}

func TestClient_Post_EmptyBodyIsEmptyObject(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/empty", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	raw, err := New(srv.URL).Post(context.Background(), "/empty", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestClient_Post_ParseError(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/html", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>boom</html>"))
		})
	})

	_, err := New(srv.URL).Post(context.Background(), "/html", nil, nil)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, parseErr.Status)
}

func TestClient_Post_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(addr).Post(context.Background(), "/init", nil, nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, "/init", netErr.Path)
}

func TestClient_Post_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
	})
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Post(context.Background(), "/slow", nil, nil)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr), "got %v", err)
}

func TestClient_Init(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		opponent bool
	}{
		{"no move", `{"board":[[0,0],[0,0]]}`, false},
		{"null move", `{"move":null,"board":[[0,0],[0,0]]}`, false},
		{"bool move", `{"move":true,"board":[[0,0],[0,0]]}`, true},
		{"false move", `{"move":false,"board":[[0,0],[0,0]]}`, false},
		{"object move", `{"move":{"color":2,"position":[1,1]},"board":[[0,0],[0,2]]}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newBackend(t, func(r chi.Router) {
				r.Post(PathInit, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusCreated)
					_, _ = w.Write([]byte(tc.body))
				})
			})

			resp, err := New(srv.URL).Init(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.opponent, resp.OpponentOpened())
			assert.NoError(t, resp.Board.Validate(2))
		})
	}
}

func TestClient_MakeMove(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post(PathMakeMove, func(w http.ResponseWriter, r *http.Request) {
			var req MoveRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Position.Row == 0 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Forbiden move"}`))
				return
			}
			grid := board.NewGrid(3)
			grid[req.Position.Row][req.Position.Col] = req.Color
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"board":           grid,
				"is_over":         false,
				"move":            nil,
				"suggestion":      map[string]any{"color": 1, "position": []int{0, 0}},
				"time_suggestion": 0.25,
			})
		})
	})
	c := New(srv.URL)

	resp, err := c.MakeMove(context.Background(), MoveRequest{Color: board.PlayerTwo, Position: board.Position{Row: 2, Col: 1}})
	require.NoError(t, err)
	require.False(t, resp.Rejected())
	assert.Equal(t, board.PlayerTwo, resp.Board.At(board.Position{Row: 2, Col: 1}))
	assert.Nil(t, resp.Move)
	require.NotNil(t, resp.Suggestion)
	assert.Equal(t, board.PlayerOne, resp.Suggestion.Color)
	require.NotNil(t, resp.TimeSuggestion)
	assert.Equal(t, 0.25, *resp.TimeSuggestion)
	assert.Nil(t, resp.TimeMove)

	resp, err = c.MakeMove(context.Background(), MoveRequest{Color: board.PlayerTwo, Position: board.Position{Row: 0, Col: 1}})
	require.NoError(t, err)
	assert.True(t, resp.Rejected())
	assert.Equal(t, "Forbiden move", resp.Message)
}

func TestClient_CheckMove(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post(PathCheckMove, func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Position board.Position `json:"position"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_, _ = w.Write([]byte(`{"allowed":` + map[bool]string{true: "true", false: "false"}[req.Position.Col%2 == 0] + `}`))
		})
	})
	c := New(srv.URL)

	resp, err := c.CheckMove(context.Background(), board.Position{Row: 1, Col: 2})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)

	resp, err = c.CheckMove(context.Background(), board.Position{Row: 1, Col: 3})
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
}

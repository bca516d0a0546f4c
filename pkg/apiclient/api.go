package apiclient

import (
	"bytes"
	"context"
	"encoding/json"

	"boardclient/internal/board"
)

const (
	PathInit      = "/init"
	PathMakeMove  = "/make-move"
	PathCheckMove = "/check-move"
)

// InitResponse is the reply to /init.
type InitResponse struct {
	// Move is either a boolean or the opening move object the server already
	// played. Anything other than null or false means the server moved first.
	Move  json.RawMessage `json:"move,omitempty"`
	Board board.Grid      `json:"board,omitempty"`
}

// OpponentOpened reports whether the server has already played the first
// move, in which case the client plays as player one.
func (r InitResponse) OpponentOpened() bool {
	raw := bytes.TrimSpace(r.Move)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// MoveRequest is the body of /make-move.
type MoveRequest = board.Move

// OpponentMove is the server's own reply move, when it plays one.
type OpponentMove struct {
	Color    board.Cell      `json:"color"`
	Position *board.Position `json:"position,omitempty"`
}

// MakeMoveResponse is the reply to /make-move. A nil Board means the move was
// rejected and Message says why.
type MakeMoveResponse struct {
	Board          board.Grid        `json:"board,omitempty"`
	Message        string            `json:"message,omitempty"`
	IsOver         bool              `json:"is_over,omitempty"`
	Move           *OpponentMove     `json:"move,omitempty"`
	Suggestion     *board.Suggestion `json:"suggestion,omitempty"`
	TimeMove       *float64          `json:"time_move,omitempty"`
	TimeSuggestion *float64          `json:"time_suggestion,omitempty"`
}

// Rejected reports whether the server refused the move.
func (r MakeMoveResponse) Rejected() bool {
	return r.Board == nil
}

type checkMoveRequest struct {
	Position board.Position `json:"position"`
}

// CheckMoveResponse is the reply to /check-move.
type CheckMoveResponse struct {
	Allowed bool `json:"allowed"`
}

// Init starts a new game on the server.
func (c *Client) Init(ctx context.Context) (InitResponse, error) {
	var out InitResponse
	err := c.postInto(ctx, PathInit, nil, &out)
	return out, err
}

// MakeMove submits a move and returns the server's verdict.
func (c *Client) MakeMove(ctx context.Context, move MoveRequest) (MakeMoveResponse, error) {
	var out MakeMoveResponse
	err := c.postInto(ctx, PathMakeMove, move, &out)
	return out, err
}

// CheckMove asks whether a move at pos would be accepted.
func (c *Client) CheckMove(ctx context.Context, pos board.Position) (CheckMoveResponse, error) {
	var out CheckMoveResponse
	err := c.postInto(ctx, PathCheckMove, checkMoveRequest{Position: pos}, &out)
	return out, err
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardclient/internal/board"
	"boardclient/pkg/apiclient"
)

func TestStore_Create_Get(t *testing.T) {
	api := &fakeAPI{init: apiclient.InitResponse{Board: board.NewGrid(19)}}
	s := NewStore(api, Options{}, time.Minute)

	game, err := s.Create(context.Background())
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.NotEmpty(t, game.Session.ID())
	assert.Equal(t, StateIdle, game.Session.Snapshot().State)
	assert.Len(t, game.Canvas.Frame().Ops, 2*19)

	got, ok := s.Get(game.Session.ID())
	require.True(t, ok)
	assert.Same(t, game, got)

	_, ok = s.Get("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Create_InitFailure(t *testing.T) {
	api := &fakeAPI{initErr: &apiclient.NetworkError{Path: apiclient.PathInit, Err: errors.New("refused")}}
	s := NewStore(api, Options{}, time.Minute)

	_, err := s.Create(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Click_PublishesRedraws(t *testing.T) {
	api := &fakeAPI{
		init:     apiclient.InitResponse{Board: board.NewGrid(19)},
		makeMove: echoMove(19, false),
	}
	s := NewStore(api, Options{}, time.Minute)
	game, err := s.Create(context.Background())
	require.NoError(t, err)
	id := game.Session.ID()

	hub, ok := s.Broadcaster(id)
	require.True(t, ok)
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	out, err := s.Click(context.Background(), id, 620, 620)
	require.NoError(t, err)
	assert.True(t, out.Accepted)

	// Optimistic draw and reconciled draw.
	assert.Equal(t, EventBoard, <-ch)
	assert.Equal(t, EventBoard, <-ch)

	_, err = s.Click(context.Background(), "nonexistent", 1, 1)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestStore_Delete(t *testing.T) {
	api := &fakeAPI{init: apiclient.InitResponse{Board: board.NewGrid(19)}}
	s := NewStore(api, Options{}, time.Minute)
	game, err := s.Create(context.Background())
	require.NoError(t, err)

	hub, _ := s.Broadcaster(game.Session.ID())
	ch := hub.Subscribe()

	assert.True(t, s.Delete(game.Session.ID()))
	_, open := <-ch
	assert.False(t, open)
	assert.False(t, s.Delete(game.Session.ID()))
	_, ok := s.Broadcaster(game.Session.ID())
	assert.False(t, ok)
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	api := &fakeAPI{init: apiclient.InitResponse{Board: board.NewGrid(19)}}
	s := NewStore(api, Options{}, 30*time.Millisecond)
	game, err := s.Create(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := s.Get(game.Session.ID())
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}

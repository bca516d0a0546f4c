package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, "8080", conf.HTTPPort)
	assert.Equal(t, ":8080", conf.Addr())
	assert.Equal(t, "http://localhost:5000", conf.API.BaseURL)
	assert.Equal(t, 10*time.Second, conf.API.Timeout)
	assert.False(t, conf.API.CheckMoves)
	assert.Equal(t, 19, conf.Board.Size)
	assert.Equal(t, 700.0, conf.Board.Dim)
	assert.Equal(t, 30*time.Minute, conf.Session.IdleTTL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
api:
  base-url: http://engine:5000
  check-moves: true
board:
  size: 10
  dim: 500
`), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "http://engine:5000", conf.API.BaseURL)
	assert.True(t, conf.API.CheckMoves)
	assert.Equal(t, 10, conf.Board.Size)
	assert.Equal(t, 500.0, conf.Board.Dim)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://gomoku.example")
	t.Setenv("BOARD_SIZE", "10")
	t.Setenv("PORT", "9999")

	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "https://gomoku.example", conf.API.BaseURL)
	assert.Equal(t, 10, conf.Board.Size)
	assert.Equal(t, ":9999", conf.Addr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:   API{BaseURL: "http://localhost:5000"},
			Board: Board{Size: 19, Dim: 700},
		}
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.Board.Size = 0
	assert.ErrorIs(t, c.Validate(), ErrBoardSize)

	c = valid()
	c.Board.Dim = -1
	assert.ErrorIs(t, c.Validate(), ErrBoardDim)

	c = valid()
	c.API.BaseURL = "localhost:5000"
	assert.ErrorIs(t, c.Validate(), ErrBaseURL)
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("BOARD_SIZE", "0")
	assert.Panics(t, func() { MustLoad("") })
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

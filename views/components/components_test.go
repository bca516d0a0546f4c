package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardclient/internal/viewmodel"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render(&buf))
	return buf.String()
}

func TestBoardFragment(t *testing.T) {
	data := viewmodel.BoardFragment{
		GameID:     `g"1`,
		Dim:        700,
		Background: "rgba(200,200,200,0.588)",
		Lines:      []viewmodel.Line{{X1: 35, Y1: 17.5, X2: 35, Y2: 682.5, Stroke: "rgba(0,0,0,1.000)"}},
		Circles:    []viewmodel.Circle{{CX: 630, CY: 630, R: 17, Fill: "rgba(0,0,0,1.000)"}},
	}
	out := renderString(t, func(b *bytes.Buffer) error { return BoardFragment(data).Render(context.Background(), b) })

	assert.True(t, strings.HasPrefix(out, `<svg id="board-surface"`))
	assert.Contains(t, out, `viewBox="0 0 700 700"`)
	assert.Contains(t, out, `data-game="g&#34;1"`)
	assert.Contains(t, out, `<line x1="35" y1="17.5" x2="35" y2="682.5"`)
	assert.Contains(t, out, `cx="630" cy="630" r="17" fill="rgba(0,0,0,1.000)"`)
	assert.NotContains(t, out, "\n")
}

func TestStatusFragment(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return StatusFragment(viewmodel.StatusFragment{State: "idle", Color: "black", Stones: 3, Notice: "<Forbidden>"}).Render(context.Background(), b)
	})
	assert.Contains(t, out, "You play black.")
	assert.Contains(t, out, "Stones on board: 3")
	assert.Contains(t, out, `<p class="notice">&lt;Forbidden&gt;</p>`)

	out = renderString(t, func(b *bytes.Buffer) error {
		return StatusFragment(viewmodel.StatusFragment{Over: true}).Render(context.Background(), b)
	})
	assert.Contains(t, out, "Game over.")
	assert.NotContains(t, out, "notice")
}

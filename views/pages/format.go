// Package pages renders full HTML documents.
package pages

import (
	"fmt"

	"boardclient/internal/viewmodel"
)

func boardLabel(size int) string {
	return fmt.Sprintf("%d×%d board", size, size)
}

// boardConfig is read by the board script.
func boardConfig(data viewmodel.BoardPage) map[string]any {
	return map[string]any{
		"dim":       data.Board.Dim,
		"clickURL":  data.ClickURL,
		"streamURL": data.StreamURL,
	}
}

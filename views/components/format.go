// Package components renders page fragments that are swapped in place.
package components

import (
	"fmt"
	"strconv"

	"boardclient/internal/viewmodel"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func viewBox(dim float64) string {
	return "0 0 " + num(dim) + " " + num(dim)
}

func turnLine(data viewmodel.StatusFragment) string {
	switch {
	case data.Over:
		return "Game over."
	case data.Pending:
		return "Waiting for the server…"
	}
	return fmt.Sprintf("You play %s.", data.Color)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"

	"boardclient/internal/board"
	"boardclient/internal/config"
	"boardclient/internal/session"
	"boardclient/internal/term"
	"boardclient/pkg/apiclient"
)

func main() {
	_ = godotenv.Load()

	path := "config.yml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	conf, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog := termLogger(conf)
	defer closeLog()

	if err := run(conf, logger); err != nil {
		logger.Error("terminal client failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// termLogger writes to LOG_FILE when set. The screen belongs to the UI.
func termLogger(conf *config.Config) (*slog.Logger, func()) {
	if conf.LogFile == "" {
		return config.NewLogger(io.Discard, conf.LogLevel), func() {}
	}
	f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		return config.NewLogger(io.Discard, conf.LogLevel), func() {}
	}
	return config.NewLogger(f, conf.LogLevel), func() { _ = f.Close() }
}

func run(conf *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	geo := board.NewGeometry(conf.Board.Dim, conf.Board.Size)
	surface := term.NewSurface(geo)
	app := tview.NewApplication()
	ui := term.NewBoardUI(ctx, app, surface, logger)

	api := apiclient.New(conf.API.BaseURL, apiclient.WithTimeout(conf.API.Timeout))
	sess := session.New(uuid.NewString(), api, surface, session.Options{
		Geometry:   geo,
		CheckMoves: conf.API.CheckMoves,
		Logger:     logger,
		OnDraw:     ui.Refresh,
	})
	ui.Bind(sess)

	if err := sess.Init(ctx); err != nil {
		return fmt.Errorf("cannot start a game at %s: %w", api.BaseURL(), err)
	}

	return app.SetRoot(ui.Root(), true).EnableMouse(true).Run()
}

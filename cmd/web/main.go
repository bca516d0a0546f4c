package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"boardclient/internal/board"
	"boardclient/internal/config"
	"boardclient/internal/handlers"
	"boardclient/internal/session"
	"boardclient/pkg/apiclient"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	conf := config.MustLoad(configPath())
	logger := config.NewLogger(os.Stdout, conf.LogLevel)

	api := apiclient.New(conf.API.BaseURL, apiclient.WithTimeout(conf.API.Timeout))
	store := session.NewStore(api, session.Options{
		Geometry:   board.NewGeometry(conf.Board.Dim, conf.Board.Size),
		CheckMoves: conf.API.CheckMoves,
		Logger:     logger,
	}, conf.Session.IdleTTL)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	homeHandler := handlers.NewHomeHandler(store, api.BaseURL(), conf.Board.Size, logger)
	// A click may wait on a check-move and a make-move call.
	gameHandler := handlers.NewGameHandler(store, 2*conf.API.Timeout+5*time.Second, logger)

	homeHandler.RegisterRoutes(r)
	gameHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:              conf.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", publicURL(conf), "api", api.BaseURL())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(fmt.Errorf("server failed: %w", err))
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yml"
}

func publicURL(conf *config.Config) string {
	if conf.BaseURL != "" {
		return conf.BaseURL
	}
	return "http://localhost" + conf.Addr()
}

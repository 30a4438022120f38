package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibecade/internal/config"
	"vibecade/internal/game"
	"vibecade/internal/genai"
	"vibecade/internal/handlers"
	"vibecade/internal/logging"
	"vibecade/internal/storage"
	"vibecade/internal/studio"
	"vibecade/internal/templates"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vibecade:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	debug := flag.Bool("debug", cfg.Debug, "enable debug logging")
	addr := flag.String("addr", cfg.Addr, "listen address")
	flag.Parse()

	log := logging.New(os.Stdout, cfg.LogFormat, *debug)
	rev, date := resolveBuild()
	templates.SetCommit(rev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if c, ok := kv.(io.Closer); ok {
		defer c.Close()
	}

	games := game.NewStore(kv, game.WithKey(cfg.StorageKey), game.WithLogger(log))
	loaded := games.Load(ctx)

	gen, err := genai.New(genai.Config{
		Provider: cfg.GenAIProvider,
		APIKey:   cfg.GenAIAPIKey,
		Model:    cfg.GenAIModel,
		Endpoint: cfg.GenAIEndpoint,
		Timeout:  cfg.GenAITimeout,
	})
	if err != nil {
		return err
	}
	if cfg.GenAIAPIKey == "" {
		log.Warn("API_KEY is not set; generation requests will fail")
	}

	hub := studio.NewHub(ctx, gen, games, cfg.StudioTTL)

	stats, _ := kv.(storage.StatsFetcher)
	h := handlers.NewHandler(games, hub, stats, log)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation can take minutes, so writes get the provider timeout plus slack.
		WriteTimeout: cfg.GenAITimeout + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Vibecade listening",
			slog.String("addr", *addr),
			slog.String("commit", rev),
			slog.String("built", date),
			slog.String("storage", cfg.StorageDriver),
			slog.String("genai", cfg.GenAIProvider),
			slog.Int("games", len(loaded)),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

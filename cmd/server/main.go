package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/KyleGowen/excelsior-sub008/deckrules"
	"github.com/KyleGowen/excelsior-sub008/internal/catalog"
	"github.com/KyleGowen/excelsior-sub008/internal/config"
	httpTransport "github.com/KyleGowen/excelsior-sub008/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	logLevel, err := cfg.Level()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create database dir")
		}
	}

	logger.Info("opening card store", "path", cfg.DatabasePath)
	store, err := catalog.Open(cfg.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "failed to open card store")
	}
	defer store.Close()

	if cfg.CatalogPath != "" {
		cards, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return errors.Wrap(err, "failed to load catalog")
		}
		if err := store.PutCards(ctx, cards.Cards()); err != nil {
			return errors.Wrap(err, "failed to seed card store")
		}
		logger.Info("card store seeded", "path", cfg.CatalogPath, "cards", cards.Len())
	}

	severity, err := cfg.Severity()
	if err != nil {
		return err
	}
	engine := deckrules.NewEngine(deckrules.Options{DrawPileSeverity: severity})

	errChan := make(chan error, 1)

	addr := cfg.Addr()
	server := httpTransport.NewServer(addr, store, engine, logger)
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- errors.Wrap(err, "HTTP server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errChan:
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

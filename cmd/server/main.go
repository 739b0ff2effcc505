package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/timetab/timetab/internal/config"
	"github.com/timetab/timetab/internal/importer"
	"github.com/timetab/timetab/internal/logging"
	"github.com/timetab/timetab/internal/netmon"
	"github.com/timetab/timetab/internal/store"
	"github.com/timetab/timetab/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_url", cfg.Store.BaseURL,
		"preview_ttl", cfg.Import.PreviewTTL,
	)

	st := store.NewClient(store.ClientOptions{
		BaseURL:  cfg.Store.BaseURL,
		APIToken: cfg.Store.APIToken,
		Timeout:  cfg.Store.Timeout,
		RetryMax: cfg.Store.RetryMax,
	})

	engine := importer.NewEngine(st)
	service := importer.NewService(engine, cfg.Import.PreviewTTL)

	healthURL := strings.TrimSuffix(cfg.Store.BaseURL, "/") + "/healthz"
	monitor := netmon.NewPinger(healthURL, cfg.Store.Timeout)

	server := web.NewServer(cfg, service, monitor, logger)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/banshee-data/synthset/internal/api"
	"github.com/banshee-data/synthset/internal/config"
	"github.com/banshee-data/synthset/internal/dataset"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbFile     = flag.String("db", "synthset.db", "Dataset database path")
	configFile = flag.String("config", "", "Optional tuning config (JSON)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(log)

	cfg := config.Empty()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Error("load config", "path", *configFile, "error", err)
			os.Exit(1)
		}
	}

	store, err := dataset.Open(*dbFile)
	if err != nil {
		log.Error("open dataset store", "path", *dbFile, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	server := api.NewServer(store, cfg, log)
	httpServer := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(log, server.ServeMux()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("synthset server listening", "addr", *listen, "db", *dbFile)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "error", err)
			os.Exit(1)
		}
	}
}

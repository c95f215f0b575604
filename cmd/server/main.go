package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/tldr/internal/api"
	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/pipeline"
	"github.com/dgallion1/tldr/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	opts, err := config.LoadOptions(cfg.OptionsFile)
	if err != nil {
		log.Error("invalid widget options", "file", cfg.OptionsFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Error("failed to open store", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, st, opts, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting tldr", "port", cfg.Port, "data_dir", cfg.DataDir, "default_level", opts.DefaultLevel)
	if err := serve(httpServer, orch, st, sigCh, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// serve runs httpServer until a signal arrives on sigCh, then shuts down the server,
// the workers and the store in that order. It returns only after all three stopped.
func serve(httpServer *http.Server, orch *pipeline.Orchestrator, st *store.Store, sigCh <-chan os.Signal, log *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
		if err := st.Close(); err != nil {
			log.Warn("store close", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mindgest/internal/api"
	"github.com/dgallion1/mindgest/internal/config"
	"github.com/dgallion1/mindgest/internal/llm"
	"github.com/dgallion1/mindgest/internal/mindmap"
	"github.com/dgallion1/mindgest/internal/notebook"
	"github.com/dgallion1/mindgest/internal/parser"
	"github.com/dgallion1/mindgest/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the generation backend.
	model, apiKey, url := cfg.BackendSettings()
	backend, err := llm.New(llm.Config{Kind: cfg.Backend, Model: model, APIKey: apiKey, BaseURL: url})
	if err != nil {
		log.Error("creating backend", "error", err)
		os.Exit(1)
	}

	var stats *llm.Stats
	if backend != nil {
		stats = llm.NewStats(cfg.StatsWindow)
		backend = llm.Instrument(backend, stats, log)
	}
	gen := mindmap.NewGenerator(backend, log, mindmap.WithTimeout(cfg.BackendTimeout))
	builder := notebook.NewBuilder(gen, log, cfg.MaxConcurrentDocs)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(pipeline.Options{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
		Parser:       parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}, builder, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, builder, stats, log, api.Options{
		APIKey:         cfg.APIKey,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Backend:        cfg.Backend,
		Model:          model,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()

		if c, ok := backend.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	if cfg.APIKey == "" {
		log.Warn("MINDGEST_API_KEY not set, API is unauthenticated")
	}
	log.Info("starting mindgest", "port", cfg.Port, "backend", cfg.Backend, "model", model)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

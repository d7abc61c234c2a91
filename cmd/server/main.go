package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/app"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("storage_engine=%s", cfg.StorageEngine)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("cors_allowed_origins=%v", cfg.CORSAllowedOrigins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deck, err := app.Open(ctx, cfg, nil)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage")
		if err := deck.Close(); err != nil {
			log.Error("failed to close storage: %v", err)
		}
	}()

	if err := deck.Deck.InitializeOrderIfNeeded(ctx); err != nil {
		log.Error("failed to initialize deck order: %v", err)
		os.Exit(1)
	}

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	importPool.Start(ctx)

	srv := &api.Server{
		Deck:               deck.Deck,
		Import:             deck.Import,
		Jobs:               jobs.NewWorkerQueue(importPool, deck.Import),
		Ping:               deck.Ping,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued imports finish before storage closes.
	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
}

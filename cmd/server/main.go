package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmlira/chesslens/internal/api"
	"github.com/tmlira/chesslens/internal/cache"
	"github.com/tmlira/chesslens/internal/config"
	"github.com/tmlira/chesslens/internal/db"
	"github.com/tmlira/chesslens/internal/logger"
	"github.com/tmlira/chesslens/internal/repository/sqlite"
	"github.com/tmlira/chesslens/internal/services"
	"github.com/tmlira/chesslens/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ChessLens Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("csv_path=%s", cfg.CSVPath)
	log.Debug("sample_size=%d", cfg.SampleSize)
	log.Debug("sample_seed=%d", cfg.SampleSeed)
	log.Debug("log_level=%s", cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	gameRepo := sqlite.NewGameRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	statsCache := cache.New(cfg.CacheMaxEntries)
	ingestPool := worker.NewPool(cfg.IngestWorkers, cfg.IngestQueueSize)

	datasetService := services.NewDatasetService(gameRepo, statsCache, ingestPool, services.DatasetOptions{
		CSVPath:   cfg.CSVPath,
		ChunkSize: cfg.ChunkSize,
		BatchSize: cfg.InsertBatchSize,
	})
	statsService := services.NewStatsService(statsRepo, statsCache, datasetService)
	gameService := services.NewGameService(gameRepo)

	srv := &api.Server{
		DB:        database,
		Datasets:  datasetService,
		Stats:     statsService,
		Games:     gameService,
		Templates: tmpl,
		Config:    &cfg,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ingestPool.Start(ctx)

	// Load the configured sample on startup so the dashboard has data.
	if err := datasetService.Reload(ctx, cfg.SampleSize, cfg.SampleSeed); err != nil {
		log.Error("failed to queue initial ingest: %v", err)
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

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	ingestPool.Stop()

	log.Info("===========================================")
	log.Info("ChessLens Server Stopped")
	log.Info("===========================================")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akorhonen/icefish-log/internal/api"
	"github.com/akorhonen/icefish-log/internal/config"
	"github.com/akorhonen/icefish-log/internal/repository/sqlite"
	"github.com/akorhonen/icefish-log/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize database
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("database initialized", zap.String("path", cfg.DatabasePath))

	// Initialize repository and service
	repo := sqlite.NewSessionRepository(db)
	logbook := service.NewLogbookService(repo, logger)
	defer logbook.Close()

	if err := logbook.Load(context.Background()); err != nil {
		// Not fatal: the service keeps serving with its last-known state
		// and the error is observable through the API.
		logger.Warn("initial load failed", zap.Error(err))
	}

	// Initialize HTTP server
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewServer(logbook, cfg.APIToken, logger),
	}

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped with error", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

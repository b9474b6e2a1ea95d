package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/user/urlsafety-service/internal/app"
	"github.com/user/urlsafety-service/pkg/config"
	"github.com/user/urlsafety-service/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log := logger.New(os.Stdout, cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("logger initialized", zap.String("level", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores and use cases ---
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	// --- HTTP Server ---
	if err := application.Serve(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		application.Close()
		os.Exit(1)
	}
}

// Package main provides the read API entry point for the listing service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/listing-sync/internal/api"
	"github.com/listing-sync/internal/config"
	"github.com/listing-sync/internal/logging"
	"github.com/listing-sync/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Format)
	logging.InitGlobalLogger(logging.LogLevel(cfg.Logging.Level), logging.LogFormat(cfg.Logging.Format))

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer postgres.Close()

	// The search cache is optional: the API serves straight from Postgres
	// when Redis is unavailable.
	var cache api.ResponseCache
	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, serving without search cache")
	} else {
		defer func() {
			_ = redis.Close() // nolint:errcheck
		}()
		cache = storage.NewSearchCache(redis, cfg.Cache.TTL)
	}

	server := api.NewServer(
		&api.ServerConfig{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			FrontendOrigin:  cfg.Server.FrontendOrigin,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		storage.NewListingRepository(postgres),
		cache,
		postgres,
		logger,
	)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

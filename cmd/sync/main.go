// Package main provides the listing sync entry point: a single run with
// -once, or cron-scheduled runs by default.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/listing-sync/internal/config"
	apperrors "github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/feed"
	"github.com/listing-sync/internal/logging"
	"github.com/listing-sync/internal/retry"
	"github.com/listing-sync/internal/storage"
	syncrun "github.com/listing-sync/internal/sync"
)

func main() {
	once := flag.Bool("once", false, "run a single sync and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Format)
	logging.InitGlobalLogger(logging.LogLevel(cfg.Logging.Level), logging.LogFormat(cfg.Logging.Format))

	if err := cfg.ValidateFeed(); err != nil {
		logger.Fatalf("Invalid feed configuration: %v", err)
	}

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer postgres.Close()

	tokenManager, err := feed.NewTokenManager(&feed.TokenManagerConfig{
		Store:        storage.NewTokenRepository(postgres),
		FeedName:     cfg.Feed.Name,
		TokenURL:     cfg.Feed.TokenURL,
		ClientID:     cfg.Feed.ClientID,
		ClientSecret: cfg.Feed.ClientSecret,
	})
	if err != nil {
		logger.Fatalf("Failed to create token manager: %v", err)
	}

	client, err := feed.NewClient(&feed.ClientConfig{
		BaseURL:           cfg.Feed.BaseURL,
		Tokens:            tokenManager,
		CountTimeout:      cfg.Feed.CountTimeout,
		PageTimeout:       cfg.Feed.PageTimeout,
		RequestsPerSecond: cfg.Feed.RequestsPerSecond,
	})
	if err != nil {
		logger.Fatalf("Failed to create feed client: %v", err)
	}

	runner, err := syncrun.NewRunner(&syncrun.RunnerConfig{
		JobName:  cfg.Sync.JobName,
		PageSize: cfg.Sync.PageSize,
		Fetcher:  client,
		Cursors:  storage.NewCursorRepository(postgres),
		Writer:   storage.NewListingRepository(postgres),
		Locker:   storage.NewRunLock(postgres),
	})
	if err != nil {
		logger.Fatalf("Failed to create sync runner: %v", err)
	}

	ctx := logging.WithLogger(context.Background(), logger)

	if *once {
		if err := runOnce(ctx, runner); err != nil {
			logger.Fatalf("Sync run failed: %v", err)
		}
		return
	}

	runScheduled(ctx, cfg, runner, logger)
}

// runOnce executes a single sync run.
func runOnce(ctx context.Context, runner *syncrun.Runner) error {
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Infof(
		"Inserted/Updated: %d | Failed: %d | Next offset: %d",
		report.Upserted, report.Failed, report.NextOffset,
	)
	return nil
}

// runScheduled runs syncs on the configured cron schedule until interrupted.
// Failed runs are retried with backoff; a run skipped because another holds
// the job lock is not retried.
func runScheduled(ctx context.Context, cfg *config.Config, runner *syncrun.Runner, logger *logging.Logger) {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Sync.MaxAttempts

	c := cron.New()
	_, err := c.AddFunc(cfg.Sync.Schedule, func() {
		err := retry.WithExponentialBackoff(ctx, retryCfg, func(ctx context.Context, attempt int) error {
			err := runOnce(ctx, runner)
			var categorized *apperrors.CategorizedError
			if errors.As(err, &categorized) && categorized.Category == apperrors.CategoryConflict {
				logger.Warn("Previous run still in progress, skipping this invocation")
				return nil
			}
			return err
		})
		if err != nil {
			logger.WithError(err).Error("Scheduled sync run failed")
		}
	})
	if err != nil {
		logger.Fatalf("Invalid sync schedule %q: %v", cfg.Sync.Schedule, err)
	}

	logger.Infof("Sync scheduler started with schedule %q", cfg.Sync.Schedule)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down sync scheduler...")
	<-c.Stop().Done()
}

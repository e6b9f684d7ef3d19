// Package bootstrap wires the migration driver shared by the command line
// programs and the admin API.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/downloader"
	"github.com/loganpetree/homesellphotography/internal/hdphotohub"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/media/fetcher"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/providers"
	"github.com/loganpetree/homesellphotography/internal/ratelimit"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// MigrationDeps is everything a migration driver is built from
type MigrationDeps struct {
	HDPhotoHub config.HDPhotoHubConfig
	Storage    config.StorageConfig
	Migration  config.MigrationConfig
	Store      store.Store
	FileSystem adapter.FileSystem
	Clock      adapter.Clock
}

// Migration is a wired driver with the pieces callers report on
type Migration struct {
	Driver     migration.Driver
	Checkpoint migration.CheckpointStore
	Sleeping   *migration.SleepingReport
	HTTPClient adapter.HTTPClient
}

// NewMigration builds the upstream client, the storage backend and the driver
func NewMigration(ctx context.Context, deps MigrationDeps) (*Migration, error) {
	storage, err := providers.NewStorage(ctx, deps.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	logger.InfoCtx(ctx, "Using media storage", zap.String("provider", storage.Name()))

	httpClient := adapter.NewHTTPClient(deps.HDPhotoHub.HTTPTimeout, deps.HDPhotoHub.UserAgent)
	ioAdapter := adapter.NewIO()
	limiter := NewLimiter(deps.HDPhotoHub)

	var sleepingStore store.Store
	if deps.Migration.PersistSleepingMedia {
		sleepingStore = deps.Store
	}
	sleeping := migration.NewSleepingReport(sleepingStore, deps.Clock, deps.Migration.SiteAdminURL)

	source := hdphotohub.WithRateLimit(
		hdphotohub.NewClient(httpClient, ioAdapter, deps.HDPhotoHub.BaseURL, deps.HDPhotoHub.APIKey),
		limiter,
	)
	mediaFetcher := fetcher.NewFetcher(fetcher.Config{
		FallbackTemplates: deps.HDPhotoHub.FallbackURLTemplates,
		CandidateDelay:    deps.Migration.CandidateDelay,
	},
		downloader.WithRateLimit(downloader.NewDownloader(httpClient, ioAdapter, deps.HDPhotoHub.MaxMediaBytes), limiter),
		storage,
		deps.Clock,
		sleeping,
	)

	checkpoint := migration.NewCheckpointStore(deps.Store, deps.Clock)
	driver := migration.NewDriver(
		deps.Migration,
		source,
		mediaFetcher,
		deps.Store,
		checkpoint,
		sleeping,
		deps.FileSystem,
		deps.Clock,
	)

	return &Migration{
		Driver:     driver,
		Checkpoint: checkpoint,
		Sleeping:   sleeping,
		HTTPClient: httpClient,
	}, nil
}

// NewLimiter builds the upstream API and media download rate limits
func NewLimiter(cfg config.HDPhotoHubConfig) ratelimit.Limiter {
	return ratelimit.NewLimiter(map[string]config.RateLimitConfig{
		ratelimit.ProviderAPI:   cfg.RateLimit,
		ratelimit.ProviderMedia: cfg.MediaRateLimit,
	})
}

// LoggerConfig maps the shared base configuration onto the logger
func LoggerConfig(base config.BaseConfig, service string) logger.Config {
	return logger.Config{
		Debug:     base.Debug,
		Console:   base.Console,
		SentryDSN: base.SentryDSN,
		Tags: map[string]string{
			"service": service,
		},
	}
}

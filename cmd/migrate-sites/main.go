package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/bootstrap"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadMigrateConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Initialize(bootstrap.LoggerConfig(cfg.BaseConfig, "migrate-sites")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()

	logger.Flush(2 * time.Second)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.MigrateConfig) int {
	logger.InfoCtx(ctx, "Starting site migration",
		zap.String("csv", cfg.Migration.CSVPath),
		zap.Int("batchSize", cfg.Migration.BatchSize),
		zap.String("docstore", cfg.Docstore.Provider),
		zap.String("storage", cfg.Storage.Provider),
	)

	st, err := store.Open(ctx, cfg.Docstore)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "docstore"))
		return 1
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close document store", zap.Error(err))
		}
	}()

	m, err := bootstrap.NewMigration(ctx, bootstrap.MigrationDeps{
		HDPhotoHub: cfg.HDPhotoHub,
		Storage:    cfg.Storage,
		Migration:  cfg.Migration,
		Store:      st,
		FileSystem: adapter.NewFileSystem(),
		Clock:      adapter.NewClock(),
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "bootstrap"))
		return 1
	}

	summary, err := m.Driver.Run(ctx)
	if summary != nil {
		logger.Info("Migration summary", summary.Fields()...)
		for _, f := range summary.FailedSites {
			logger.Warn("Failed site", zap.Int("index", f.Index), zap.String("siteId", f.SiteID), zap.String("error", f.Error))
		}
	}
	if m.Sleeping.Len() > 0 {
		if werr := m.Sleeping.Write(os.Stdout); werr != nil {
			logger.Warn("Failed to write sleeping media report", zap.Error(werr))
		}
	}

	switch {
	case err == nil:
		logger.Info("Migration finished")
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("Migration interrupted, rerun to resume from the checkpoint")
		return 130
	default:
		logger.Error(err, zap.String("component", "driver"))
		return 1
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/bootstrap"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/downloader"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/media/resizer"
	"github.com/loganpetree/homesellphotography/internal/providers"
	"github.com/loganpetree/homesellphotography/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	siteIDs    = flag.String("sites", "", "Comma separated site ids, overrides resize.site_ids")
	force      = flag.Bool("force", false, "Regenerate tiers that already exist")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadResizeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *siteIDs != "" {
		cfg.Resize.SiteIDs = strings.Split(*siteIDs, ",")
	}
	if *force {
		cfg.Resize.Force = true
	}

	if err := logger.Initialize(bootstrap.LoggerConfig(cfg.BaseConfig, "resize-media")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()

	logger.Flush(2 * time.Second)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.ResizeMediaConfig) int {
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

	storage, err := providers.NewStorage(ctx, cfg.Storage)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "storage"))
		return 1
	}

	httpClient := adapter.NewHTTPClient(cfg.HDPhotoHub.HTTPTimeout, cfg.HDPhotoHub.UserAgent)
	r := resizer.NewResizer(resizer.Config{
		SiteBatchSize:    cfg.Resize.SiteBatchSize,
		MediaConcurrency: cfg.Resize.MediaConcurrency,
		BatchDelay:       cfg.Resize.BatchDelay,
		Force:            cfg.Resize.Force,
		SiteIDs:          cfg.Resize.SiteIDs,
	},
		st,
		httpClient,
		downloader.WithRateLimit(
			downloader.NewDownloader(httpClient, adapter.NewIO(), cfg.HDPhotoHub.MaxMediaBytes),
			bootstrap.NewLimiter(cfg.HDPhotoHub),
		),
		adapter.NewImageCodec(),
		storage,
		adapter.NewClock(),
	)

	logger.InfoCtx(ctx, "Starting derived resolution pass",
		zap.Strings("sites", cfg.Resize.SiteIDs),
		zap.Bool("force", cfg.Resize.Force),
		zap.String("storage", storage.Name()),
	)

	stats, err := r.Run(ctx)
	logger.Info("Resize summary",
		zap.Int64("sitesTotal", stats.SitesTotal),
		zap.Int64("sitesUpdated", stats.SitesUpdated),
		zap.Int64("sitesFailed", stats.SitesFailed),
		zap.Int64("mediaTotal", stats.MediaTotal),
		zap.Int64("resized", stats.Resized),
		zap.Int64("alreadyResized", stats.AlreadyResized),
		zap.Int64("noSourceUrl", stats.NoSourceURL),
		zap.Int64("sourceNotFound", stats.SourceNotFound),
		zap.Int64("downloadFailed", stats.DownloadFailed),
		zap.Int64("authError", stats.AuthError),
		zap.Int64("uploadFailed", stats.UploadFailed),
		zap.Int64("notImage", stats.NotImage),
		zap.Int64("skipped", stats.Skipped()),
	)
	if err != nil {
		logger.Error(err, zap.String("component", "resizer"))
		return 1
	}
	return 0
}

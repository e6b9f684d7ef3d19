package main

import (
	"context"
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
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	overwrite  = flag.Bool("overwrite", false, "Reset existing wake-up sites to pending")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadSeedConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *overwrite {
		cfg.Overwrite = true
	}

	if err := logger.Initialize(bootstrap.LoggerConfig(cfg.BaseConfig, "seed-wake-sites")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()

	logger.Flush(2 * time.Second)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.SeedConfig) int {
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

	seeder := wakeup.NewSeeder(wakeup.SeedConfig{
		CSVPath:         cfg.CSVPath,
		WakeURLTemplate: cfg.WakeUp.WakeURLTemplate,
		Overwrite:       cfg.Overwrite,
	}, st, adapter.NewFileSystem(), adapter.NewClock())

	summary, err := seeder.Seed(ctx)
	if summary != nil {
		logger.Info("Seed summary",
			zap.Int("rows", summary.Rows),
			zap.Int("created", summary.Created),
			zap.Int("existing", summary.Existing),
			zap.Int("invalid", summary.Invalid),
			zap.Int("failed", summary.Failed),
		)
	}
	if err != nil {
		logger.Error(err, zap.String("csv", cfg.CSVPath))
		return 1
	}
	return 0
}

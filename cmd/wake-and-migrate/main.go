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
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	limit      = flag.Int("limit", 0, "Process at most this many sites, overrides wakeup.limit")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadWakeConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *limit > 0 {
		cfg.WakeUp.Limit = *limit
	}

	if err := logger.Initialize(bootstrap.LoggerConfig(cfg.BaseConfig, "wake-and-migrate")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()

	logger.Flush(2 * time.Second)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.WakeConfig) int {
	fs := adapter.NewFileSystem()
	clock := adapter.NewClock()

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
		FileSystem: fs,
		Clock:      clock,
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "bootstrap"))
		return 1
	}

	// Chrome locks its profile, so the session cookies are copied aside
	userDataDir := ""
	if cfg.WakeUp.ChromeProfileDir != "" {
		userDataDir, err = wakeup.PrepareProfile(fs, cfg.WakeUp.ChromeProfileDir)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "profile"))
			return 1
		}
		defer func() {
			if err := fs.RemoveAll(userDataDir); err != nil {
				logger.Warn("Failed to remove profile copy", zap.Error(err), zap.String("dir", userDataDir))
			}
		}()
	}

	browser, err := adapter.NewChromeBrowser(ctx, adapter.ChromeOptions{
		Headless:    cfg.WakeUp.Headless,
		UserDataDir: userDataDir,
		ExecPath:    cfg.WakeUp.ChromeExecPath,
	})
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("component", "browser"))
		return 1
	}
	defer browser.Close()

	orchestrator := wakeup.NewOrchestrator(
		cfg.WakeUp,
		st,
		wakeup.NewChromeWaker(cfg.WakeUp, browser, clock),
		m.Driver,
		clock,
	)

	logger.InfoCtx(ctx, "Starting wake-up run",
		zap.Bool("headless", cfg.WakeUp.Headless),
		zap.Int("limit", cfg.WakeUp.Limit),
	)

	summary, err := orchestrator.Run(ctx)
	if summary != nil {
		logger.Info("Wake-up summary",
			zap.Int("total", summary.Total),
			zap.Int("completed", summary.Completed),
			zap.Int("failed", summary.Failed),
			zap.Int("wakeFailed", summary.WakeFailed),
			zap.Int("errors", summary.Errors),
		)
	}
	if m.Sleeping.Len() > 0 {
		if werr := m.Sleeping.Write(os.Stdout); werr != nil {
			logger.Warn("Failed to write sleeping media report", zap.Error(werr))
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("Wake-up run interrupted")
		return 130
	default:
		logger.Error(err, zap.String("component", "orchestrator"))
		return 1
	}
}

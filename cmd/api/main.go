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
	"github.com/loganpetree/homesellphotography/internal/api/middleware"
	"github.com/loganpetree/homesellphotography/internal/api/rest"
	"github.com/loganpetree/homesellphotography/internal/api/server"
	"github.com/loganpetree/homesellphotography/internal/bootstrap"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/store"
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := logger.Initialize(bootstrap.LoggerConfig(cfg.BaseConfig, "api-server")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting HomeSell admin API")

	st, err := store.Open(ctx, cfg.Docstore)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to open document store", zap.Error(err), zap.String("provider", cfg.Docstore.Provider))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close document store", zap.Error(err))
		}
	}()

	clock := adapter.NewClock()
	m, err := bootstrap.NewMigration(ctx, bootstrap.MigrationDeps{
		HDPhotoHub: cfg.HDPhotoHub,
		Storage:    cfg.Storage,
		Migration:  cfg.Migration,
		Store:      st,
		FileSystem: adapter.NewFileSystem(),
		Clock:      clock,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create migration driver", zap.Error(err))
	}

	handler := rest.NewHandler(m.Checkpoint, wakeup.NewService(st, m.Driver, clock))

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTSecret: cfg.Auth.JWTSecret,
			APIKeys:   cfg.Auth.APIKeys,
		},
		AllowedOrigins: cfg.Auth.AllowedOrigins,
	}, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}

package bootstrap_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/bootstrap"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/ratelimit"
	"github.com/loganpetree/homesellphotography/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func migrationDeps(storage config.StorageConfig) bootstrap.MigrationDeps {
	return bootstrap.MigrationDeps{
		HDPhotoHub: config.HDPhotoHubConfig{
			BaseURL:     "https://example.test/api/v1",
			APIKey:      "key",
			HTTPTimeout: time.Second,
		},
		Storage: storage,
		Migration: config.MigrationConfig{
			CSVPath:              "sites.csv",
			BatchSize:            5,
			PersistSleepingMedia: true,
		},
		Store:      store.NewMemoryStore(),
		FileSystem: adapter.NewFileSystem(),
		Clock:      adapter.NewClock(),
	}
}

func TestNewMigration(t *testing.T) {
	m, err := bootstrap.NewMigration(context.Background(), migrationDeps(config.StorageConfig{
		Provider: config.StorageProviderS3,
		S3: config.S3Config{
			Bucket:       "media",
			Region:       "us-east-1",
			Endpoint:     "http://localhost:9000",
			UsePathStyle: true,
		},
	}))
	require.NoError(t, err)

	assert.NotNil(t, m.Driver)
	assert.NotNil(t, m.Checkpoint)
	assert.NotNil(t, m.HTTPClient)
	require.NotNil(t, m.Sleeping)
	assert.Equal(t, 0, m.Sleeping.Len())
}

func TestNewMigration_StorageErrors(t *testing.T) {
	tests := []struct {
		name    string
		storage config.StorageConfig
	}{
		{"unknown provider", config.StorageConfig{Provider: "ftp"}},
		{"s3 without bucket", config.StorageConfig{Provider: config.StorageProviderS3}},
		{"cloudflare without token", config.StorageConfig{
			Provider:   config.StorageProviderCloudflare,
			Cloudflare: config.CloudflareConfig{AccountID: "acct"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := bootstrap.NewMigration(context.Background(), migrationDeps(tt.storage))
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestNewLimiter(t *testing.T) {
	limiter := bootstrap.NewLimiter(config.HDPhotoHubConfig{
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx, ratelimit.ProviderAPI))
	assert.Error(t, limiter.Wait(ctx, ratelimit.ProviderAPI))

	// media downloads are unlimited by default
	for range 10 {
		require.NoError(t, limiter.Wait(ctx, ratelimit.ProviderMedia))
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := bootstrap.LoggerConfig(config.BaseConfig{
		Debug:     true,
		Console:   true,
		SentryDSN: "https://sentry.example.com",
	}, "migrate-sites")

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Console)
	assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
	assert.Equal(t, map[string]string{"service": "migrate-sites"}, cfg.Tags)
}

package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	mediaprovider "github.com/loganpetree/homesellphotography/internal/media/provider"
	"github.com/loganpetree/homesellphotography/internal/providers/cloudflare"
	"github.com/loganpetree/homesellphotography/internal/providers/s3"
)

// NewStorage builds the configured object storage backend
func NewStorage(ctx context.Context, cfg config.StorageConfig) (mediaprovider.Storage, error) {
	switch cfg.Provider {
	case config.StorageProviderS3:
		if cfg.S3.Bucket == "" {
			return nil, errors.New("storage.s3.bucket is required")
		}
		client, err := adapter.NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint, cfg.S3.UsePathStyle)
		if err != nil {
			return nil, err
		}
		return s3.NewMediaProvider(client, s3.Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			KeyPrefix:     cfg.KeyPrefix,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		}), nil

	case config.StorageProviderCloudflare:
		if cfg.Cloudflare.AccountID == "" || cfg.Cloudflare.APIToken == "" {
			return nil, errors.New("storage.cloudflare.account_id and storage.cloudflare.api_token are required")
		}
		client, err := adapter.NewCloudflareClient(cfg.Cloudflare.APIToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
		}
		return cloudflare.NewMediaProvider(client, cloudflare.Config{
			AccountID: cfg.Cloudflare.AccountID,
			KeyPrefix: cfg.KeyPrefix,
		}), nil
	}

	return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
}

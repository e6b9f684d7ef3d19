package providers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/providers"
)

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.StorageConfig
		wantName    string
		expectError bool
	}{
		{
			name:     "cloudflare",
			cfg:      config.StorageConfig{Provider: config.StorageProviderCloudflare, Cloudflare: config.CloudflareConfig{AccountID: "acct", APIToken: "token"}},
			wantName: "cloudflare",
		},
		{
			name:        "cloudflare without token",
			cfg:         config.StorageConfig{Provider: config.StorageProviderCloudflare, Cloudflare: config.CloudflareConfig{AccountID: "acct"}},
			expectError: true,
		},
		{
			name:        "s3 without bucket",
			cfg:         config.StorageConfig{Provider: config.StorageProviderS3},
			expectError: true,
		},
		{
			name:        "unknown provider",
			cfg:         config.StorageConfig{Provider: "gcs"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := providers.NewStorage(context.Background(), tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, storage.Name())
		})
	}
}

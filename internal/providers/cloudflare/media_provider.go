package cloudflare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	mediaprovider "github.com/loganpetree/homesellphotography/internal/media/provider"
)

const CLOUDFLARE_PROVIDER_NAME = "cloudflare"

// ErrUnsupportedContentType is returned for non-image uploads; Images only hosts rasters
var ErrUnsupportedContentType = errors.New("cloudflare images only accepts images")

// Config holds configuration for Cloudflare Images
type Config struct {
	// AccountID is the Cloudflare account ID for Images
	AccountID string
	// KeyPrefix is prepended to the storage path recorded as the image name
	KeyPrefix string
}

// mediaProvider stores media in Cloudflare Images. Images get generated ids,
// so the storage path travels as the image name and metadata.
type mediaProvider struct {
	cfClient adapter.CloudflareClient
	config   Config
	rc       *cloudflare.ResourceContainer
}

// NewMediaProvider creates a Cloudflare Images storage
func NewMediaProvider(cfClient adapter.CloudflareClient, config Config) mediaprovider.Storage {
	return &mediaProvider{
		cfClient: cfClient,
		config:   config,
		rc:       cloudflare.AccountIdentifier(config.AccountID),
	}
}

func (p *mediaProvider) Name() string {
	return CLOUDFLARE_PROVIDER_NAME
}

func (p *mediaProvider) Write(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	name := p.config.KeyPrefix + strings.TrimPrefix(path, "/")
	image, err := p.cfClient.UploadImage(ctx, p.rc, cloudflare.UploadImageParams{
		File: io.NopCloser(bytes.NewReader(data)),
		Name: name,
		Metadata: map[string]interface{}{
			"path":        name,
			"contentType": contentType,
		},
	})
	if err != nil {
		if isUnauthorized(err) {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrStorageUnauthorized, name, err)
		}
		return "", fmt.Errorf("failed to upload image %s: %w", name, err)
	}

	variantURL := publicVariant(image.Variants)
	if variantURL == "" {
		return "", fmt.Errorf("cloudflare returned no variants for %s", name)
	}

	logger.DebugCtx(ctx, "Uploaded to Cloudflare Images",
		zap.String("imageID", image.ID),
		zap.String("path", name),
	)

	return variantURL, nil
}

// publicVariant prefers the "public" variant, falling back to the first one
func publicVariant(variants []string) string {
	for _, v := range variants {
		if strings.HasSuffix(v, "/public") {
			return v
		}
	}
	if len(variants) > 0 {
		return variants[0]
	}
	return ""
}

func isUnauthorized(err error) bool {
	var typed interface{ Type() cloudflare.ErrorType }
	if errors.As(err, &typed) {
		t := typed.Type()
		return t == cloudflare.ErrorTypeAuthentication || t == cloudflare.ErrorTypeAuthorization
	}

	var cfErr *cloudflare.Error
	if errors.As(err, &cfErr) {
		return cfErr.StatusCode == http.StatusUnauthorized || cfErr.StatusCode == http.StatusForbidden
	}
	return false
}

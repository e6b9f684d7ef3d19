package mediaprovider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

// Storage is the object storage media are re-hosted into. Write returns
// the public URL of the object and wraps domain.ErrStorageUnauthorized when
// the backend rejects the credentials or the account.
//
//go:generate mockgen -source=provider.go -destination=../../mocks/storage.go -package=mocks -mock_names=Storage=MockStorage
type Storage interface {
	Write(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Name returns the provider name
	Name() string
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName keeps ASCII letters and digits only
func SanitizeName(name string) string {
	return nonAlphanumeric.ReplaceAllString(name, "")
}

// MediaPath is the storage path of a re-hosted media asset:
// {siteId}/media/{order:03}_{sanitizedName}.{ext}
func MediaPath(siteID string, order int, name, mediaID, extension string) string {
	base := SanitizeName(strings.TrimSuffix(name, "."+strings.TrimPrefix(extension, ".")))
	if base == "" {
		base = mediaID
	}
	return fmt.Sprintf("%s/media/%03d_%s.%s", siteID, order, base, normalizeExtension(extension))
}

// DerivedPath is the storage path of a derived resolution:
// {siteId}/media/{order:03}_{mediaId}_{tier}.jpg
func DerivedPath(siteID string, order int, mediaID, tier string) string {
	return fmt.Sprintf("%s/media/%03d_%s_%s.jpg", siteID, order, mediaID, tier)
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return "jpg"
	}
	return ext
}

// Exists checks a public URL with a HEAD request. Only 404 and 410 count as missing.
func Exists(ctx context.Context, httpClient adapter.HTTPClient, url string) (bool, error) {
	resp, err := httpClient.Head(ctx, url)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return false, nil
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest:
		return true, nil
	}
	return false, fmt.Errorf("unexpected status %d checking %s", resp.StatusCode, url)
}

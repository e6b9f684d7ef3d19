package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	mediaprovider "github.com/loganpetree/homesellphotography/internal/media/provider"
)

const S3_PROVIDER_NAME = "s3"

// Config holds the bucket layout
type Config struct {
	Bucket string
	Region string
	// KeyPrefix is prepended to every object key, e.g. "sites/"
	KeyPrefix string
	// PublicBaseURL overrides the virtual-hosted bucket URL, e.g. a CDN origin
	PublicBaseURL string
}

var unauthorizedCodes = map[string]bool{
	"AccessDenied":          true,
	"AllAccessDisabled":     true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"AccountProblem":        true,
	"ExpiredToken":          true,
}

type mediaProvider struct {
	client adapter.S3Client
	config Config
}

// NewMediaProvider creates object storage on an S3 bucket
func NewMediaProvider(client adapter.S3Client, config Config) mediaprovider.Storage {
	return &mediaProvider{client: client, config: config}
}

func (p *mediaProvider) Name() string {
	return S3_PROVIDER_NAME
}

// Key returns the object key for a storage path
func (p *mediaProvider) Key(path string) string {
	return p.config.KeyPrefix + strings.TrimPrefix(path, "/")
}

// PublicURL returns the public URL of an object key
func (p *mediaProvider) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	if p.config.PublicBaseURL != "" {
		return strings.TrimSuffix(p.config.PublicBaseURL, "/") + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.config.Bucket, p.config.Region, escaped)
}

func (p *mediaProvider) Write(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	key := p.Key(path)

	_, err := p.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		if isUnauthorized(err) {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrStorageUnauthorized, key, err)
		}
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	logger.DebugCtx(ctx, "Stored object",
		zap.String("bucket", p.config.Bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return p.PublicURL(key), nil
}

func isUnauthorized(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && unauthorizedCodes[apiErr.ErrorCode()] {
		return true
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) {
		code := statusErr.HTTPStatusCode()
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	return false
}

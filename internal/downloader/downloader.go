package downloader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

var (
	// ErrEmptyBody is returned when a 200 response carries no bytes
	ErrEmptyBody = errors.New("empty response body")

	// ErrNotMedia is returned when the body sniffs as a document (an error page served with 200)
	ErrNotMedia = errors.New("response body is not media")
)

// DownloadResult is a fully buffered media download
type DownloadResult struct {
	URL         string
	Data        []byte
	ContentType string
}

// Size returns the number of downloaded bytes
func (d *DownloadResult) Size() int64 {
	return int64(len(d.Data))
}

// Downloader defines the interface for downloading media files
//
//go:generate mockgen -source=downloader.go -destination=../mocks/downloader.go -package=mocks -mock_names=Downloader=MockDownloader
type Downloader interface {
	// Download fetches url retrying transient failures
	Download(ctx context.Context, url string) (*DownloadResult, error)

	// DownloadOnce fetches url with a single attempt
	DownloadOnce(ctx context.Context, url string) (*DownloadResult, error)
}

type downloader struct {
	httpClient adapter.HTTPClient
	io         adapter.IO
	maxBytes   int64
}

// NewDownloader returns a Downloader reading at most maxBytes per body (0 = unlimited)
func NewDownloader(httpClient adapter.HTTPClient, io adapter.IO, maxBytes int64) Downloader {
	return &downloader{
		httpClient: httpClient,
		io:         io,
		maxBytes:   maxBytes,
	}
}

func (d *downloader) Download(ctx context.Context, url string) (*DownloadResult, error) {
	resp, err := d.httpClient.GetResponse(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	return d.read(url, resp)
}

func (d *downloader) DownloadOnce(ctx context.Context, url string) (*DownloadResult, error) {
	resp, err := d.httpClient.GetResponseNoRetry(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	return d.read(url, resp)
}

func (d *downloader) read(url string, resp *http.Response) (*DownloadResult, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := d.io.ReadAllLimited(resp.Body, d.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyBody
	}

	contentType := detectContentType(resp.Header.Get("Content-Type"), data)
	if !IsMediaType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotMedia, contentType)
	}

	logger.Debug("Downloaded media",
		zap.String("url", url),
		zap.String("contentType", contentType),
		zap.Int("bytes", len(data)),
	)

	return &DownloadResult{
		URL:         url,
		Data:        data,
		ContentType: contentType,
	}, nil
}

// detectContentType trusts a specific header and sniffs the body otherwise
func detectContentType(header string, data []byte) string {
	if header != "" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil &&
			mediaType != "application/octet-stream" && mediaType != "binary/octet-stream" &&
			!strings.HasPrefix(mediaType, "text/") {
			return mediaType
		}
	}

	mtype := mimetype.Detect(data)
	mediaType, _, err := mime.ParseMediaType(mtype.String())
	if err != nil {
		return mtype.String()
	}
	return mediaType
}

// IsMediaType reports whether contentType can hold image or video bytes
func IsMediaType(contentType string) bool {
	switch {
	case strings.HasPrefix(contentType, "image/"),
		strings.HasPrefix(contentType, "video/"),
		contentType == "application/octet-stream":
		return true
	}
	return false
}

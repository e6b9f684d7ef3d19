package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/downloader"
	"github.com/loganpetree/homesellphotography/internal/logger"
	mediaprovider "github.com/loganpetree/homesellphotography/internal/media/provider"
	"github.com/loganpetree/homesellphotography/internal/normalizer"
)

// SleepingRecorder collects media whose upstream URL is still a placeholder
//
//go:generate mockgen -source=fetcher.go -destination=../../mocks/fetcher.go -package=mocks -mock_names=Fetcher=MockFetcher,SleepingRecorder=MockSleepingRecorder
type SleepingRecorder interface {
	RecordSleeping(ctx context.Context, siteID string, media domain.Media)
}

// Fetcher re-hosts a single media asset
type Fetcher interface {
	// FetchAndStore downloads the first working candidate URL of m and writes it
	// to storage. Download and storage failures are recorded on the returned
	// media as processingError; an error is returned only for malformed input.
	FetchAndStore(ctx context.Context, siteID string, m domain.SourceMedia) (domain.Media, error)
}

// Config holds the candidate resolution settings
type Config struct {
	// FallbackTemplates are media URL templates with {mid} and {ext} tokens
	FallbackTemplates []string
	// CandidateDelay is the pause between two candidate attempts
	CandidateDelay time.Duration
}

type fetcher struct {
	config     Config
	downloader downloader.Downloader
	storage    mediaprovider.Storage
	clock      adapter.Clock
	recorder   SleepingRecorder
}

// NewFetcher creates a Fetcher. recorder may be nil.
func NewFetcher(
	config Config,
	downloader downloader.Downloader,
	storage mediaprovider.Storage,
	clock adapter.Clock,
	recorder SleepingRecorder,
) Fetcher {
	return &fetcher{
		config:     config,
		downloader: downloader,
		storage:    storage,
		clock:      clock,
		recorder:   recorder,
	}
}

func (f *fetcher) FetchAndStore(ctx context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
	if siteID == "" {
		return domain.Media{}, fmt.Errorf("%w: empty site id", domain.ErrInvalidMedia)
	}
	if m.MID <= 0 {
		return domain.Media{}, fmt.Errorf("%w: missing media id", domain.ErrInvalidMedia)
	}

	media := normalizer.NormalizeMedia(m)
	ext := Extension(m)

	if IsPlaceholder(m.URL) {
		logger.InfoCtx(ctx, "Detected sleeping media",
			zap.String("siteId", siteID),
			zap.String("mediaId", media.MediaID),
			zap.String("name", m.Name),
		)
		if f.recorder != nil {
			f.recorder.RecordSleeping(ctx, siteID, media)
		}
	}

	result, err := f.download(ctx, siteID, Candidates(m.URL, m.MID, ext, f.config.FallbackTemplates))
	if err != nil {
		return failed(ctx, siteID, media, fmt.Errorf("%w: %v", domain.ErrAssetUnavailable, err)), nil
	}

	storagePath := mediaprovider.MediaPath(siteID, m.Order, m.Name, media.MediaID, ext)
	storageURL, err := f.storage.Write(ctx, storagePath, result.Data, result.ContentType)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnauthorized) {
			logger.ErrorCtx(ctx, err, zap.String("siteId", siteID), zap.String("mediaId", media.MediaID))
		}
		return failed(ctx, siteID, media, fmt.Errorf("failed to store media: %w", err)), nil
	}

	media.StorageURL = storageURL
	media.URL = storageURL
	if result.URL != m.URL {
		media.WorkingURL = result.URL
	}
	if media.Size == 0 {
		media.Size = result.Size()
	}

	logger.DebugCtx(ctx, "Stored media",
		zap.String("siteId", siteID),
		zap.String("mediaId", media.MediaID),
		zap.String("storageUrl", storageURL),
		zap.Bool("fallback", media.WorkingURL != ""),
	)

	return media, nil
}

// download returns the first candidate yielding media bytes
func (f *fetcher) download(ctx context.Context, siteID string, candidates []string) (*downloader.DownloadResult, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no candidate URLs")
	}

	var errs []string
	for i, candidate := range candidates {
		if i > 0 {
			if err := adapter.SleepContext(ctx, f.clock, f.config.CandidateDelay); err != nil {
				return nil, err
			}
		}

		result, err := f.downloader.DownloadOnce(ctx, candidate)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.DebugCtx(ctx, "Candidate failed",
			zap.String("siteId", siteID),
			zap.String("url", candidate),
			zap.Error(err),
		)
		errs = append(errs, fmt.Sprintf("%s: %v", candidate, err))
	}

	return nil, fmt.Errorf("tried %d urls: %s", len(candidates), strings.Join(errs, "; "))
}

func failed(ctx context.Context, siteID string, media domain.Media, err error) domain.Media {
	msg := err.Error()
	media.ProcessingError = &msg
	media.StorageURL = ""
	media.URL = media.OriginalURL
	media.WorkingURL = ""

	logger.WarnCtx(ctx, "Media kept on original URL",
		zap.String("siteId", siteID),
		zap.String("mediaId", media.MediaID),
		zap.String("originalUrl", media.OriginalURL),
		zap.Error(err),
	)
	return media
}

// IsPlaceholder reports whether an upstream media URL has not been generated
// yet: empty, or a last path segment holding only an extension like "/.jpg".
func IsPlaceholder(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return true
	}

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	if strings.HasSuffix(p, "/") {
		return true
	}

	base := path.Base(p)
	return strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".")
}

// Candidates lists download URLs in order: the upstream URL unless it is a
// placeholder, then every fallback template. Duplicates are dropped.
func Candidates(sourceURL string, mid int64, ext string, templates []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}

	if !IsPlaceholder(sourceURL) {
		add(strings.TrimSpace(sourceURL))
	}

	replacer := strings.NewReplacer("{mid}", strconv.FormatInt(mid, 10), "{ext}", ext)
	for _, t := range templates {
		add(replacer.Replace(t))
	}
	return out
}

// Extension returns the lower-case extension of a media entry without the
// dot, taken from the entry itself or its URL, defaulting to jpg
func Extension(m domain.SourceMedia) string {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(m.Extension), "."))
	if ext != "" {
		return ext
	}
	if u, err := url.Parse(m.URL); err == nil {
		if e := strings.TrimPrefix(path.Ext(u.Path), "."); e != "" {
			return strings.ToLower(e)
		}
	}
	return "jpg"
}

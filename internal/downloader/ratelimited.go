package downloader

import (
	"context"

	"github.com/loganpetree/homesellphotography/internal/ratelimit"
)

type rateLimitedDownloader struct {
	Downloader
	limiter ratelimit.Limiter
}

// WithRateLimit throttles downloads through the media provider of limiter
func WithRateLimit(d Downloader, limiter ratelimit.Limiter) Downloader {
	return &rateLimitedDownloader{Downloader: d, limiter: limiter}
}

func (d *rateLimitedDownloader) Download(ctx context.Context, url string) (*DownloadResult, error) {
	if err := d.limiter.Wait(ctx, ratelimit.ProviderMedia); err != nil {
		return nil, err
	}
	return d.Downloader.Download(ctx, url)
}

func (d *rateLimitedDownloader) DownloadOnce(ctx context.Context, url string) (*DownloadResult, error) {
	if err := d.limiter.Wait(ctx, ratelimit.ProviderMedia); err != nil {
		return nil, err
	}
	return d.Downloader.DownloadOnce(ctx, url)
}

package hdphotohub

import (
	"context"

	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/ratelimit"
)

type rateLimitedClient struct {
	Client
	limiter ratelimit.Limiter
}

// WithRateLimit throttles GetSite through the API provider of limiter
func WithRateLimit(c Client, limiter ratelimit.Limiter) Client {
	return &rateLimitedClient{Client: c, limiter: limiter}
}

func (c *rateLimitedClient) GetSite(ctx context.Context, siteID string, includeAll bool) (*domain.SourceRecord, error) {
	if err := c.limiter.Wait(ctx, ratelimit.ProviderAPI); err != nil {
		return nil, &domain.FetchError{SiteID: siteID, Err: err}
	}
	return c.Client.GetSite(ctx, siteID, includeAll)
}

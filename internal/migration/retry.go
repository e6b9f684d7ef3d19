package migration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

// SiteResult is one fetch-and-store attempt of a whole site
type SiteResult struct {
	Record *domain.SourceRecord
	Media  []domain.Media
	Stats  SiteStats
}

// RetryPolicy re-runs a site whose media mostly failed, riding out upstream
// hiccups. Only sites with more than MinMedia media qualify.
type RetryPolicy struct {
	SuccessThreshold float64
	MinMedia         int
	Cooldown         time.Duration
	MaxRetries       int
	Clock            adapter.Clock
}

// NewRetryPolicy builds a policy from configuration
func NewRetryPolicy(cfg config.RetryConfig, clock adapter.Clock) RetryPolicy {
	return RetryPolicy{
		SuccessThreshold: cfg.SuccessThreshold,
		MinMedia:         cfg.MinMedia,
		Cooldown:         cfg.Cooldown,
		MaxRetries:       cfg.MaxRetries,
		Clock:            clock,
	}
}

// ShouldRetry reports whether stats are degraded enough for another attempt
func (p RetryPolicy) ShouldRetry(stats SiteStats) bool {
	return stats.Total > p.MinMedia && stats.SuccessRate() < p.SuccessThreshold
}

// Do runs attempt and retries it after the cooldown while the result stays
// below the threshold. A failed retry keeps the earlier result, and a retry
// never replaces a result with a better success rate.
func (p RetryPolicy) Do(ctx context.Context, attempt func(context.Context) (*SiteResult, error)) (*SiteResult, error) {
	result, err := attempt(ctx)
	if err != nil {
		return nil, err
	}

	for retry := 1; retry <= p.MaxRetries && p.ShouldRetry(result.Stats); retry++ {
		logger.WarnCtx(ctx, "Low media success rate, retrying site after cooldown",
			zap.String("siteId", result.Stats.SiteID),
			zap.Float64("successRate", result.Stats.SuccessRate()),
			zap.Duration("cooldown", p.Cooldown),
			zap.Int("retry", retry),
		)

		if err := adapter.SleepContext(ctx, p.Clock, p.Cooldown); err != nil {
			return nil, err
		}

		next, err := attempt(ctx)
		if err != nil {
			logger.WarnCtx(ctx, "Retry failed, keeping first result",
				zap.String("siteId", result.Stats.SiteID),
				zap.Error(err),
			)
			break
		}

		if next.Stats.SuccessRate() >= result.Stats.SuccessRate() {
			result = next
		}
		result.Stats.Retries = retry
	}

	return result, nil
}

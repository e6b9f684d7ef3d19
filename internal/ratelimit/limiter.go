package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

// Provider names
const (
	ProviderAPI   = "hdphotohub-api"
	ProviderMedia = "hdphotohub-media"
)

// slowWait is how long a token wait may take before it is logged
const slowWait = 5 * time.Second

// Limiter throttles outbound requests per provider
type Limiter interface {
	// Wait blocks until a token of provider is available or ctx ends.
	// Providers without a configured rate are never throttled.
	Wait(ctx context.Context, provider string) error
}

type limiter struct {
	limiters map[string]*rate.Limiter
}

// NewLimiter creates a token bucket for every provider with a positive rate
func NewLimiter(providers map[string]config.RateLimitConfig) Limiter {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for name, cfg := range providers {
		if cfg.RequestsPerSecond <= 0 {
			continue
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(int(cfg.RequestsPerSecond), 1)
		}
		limiters[name] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)

		logger.Info("Rate limit configured",
			zap.String("provider", name),
			zap.Float64("requests_per_second", cfg.RequestsPerSecond),
			zap.Int("burst", burst),
		)
	}
	return &limiter{limiters: limiters}
}

func (l *limiter) Wait(ctx context.Context, provider string) error {
	lim, ok := l.limiters[provider]
	if !ok {
		return nil
	}

	start := time.Now()
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", provider, err)
	}
	if waited := time.Since(start); waited > slowWait {
		logger.DebugCtx(ctx, "Rate limit token acquired after wait",
			zap.String("provider", provider),
			zap.Duration("waited", waited),
		)
	}
	return nil
}

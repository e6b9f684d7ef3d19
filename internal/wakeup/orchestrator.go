package wakeup

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// ErrAlreadyRunning is returned when Run is called on a busy orchestrator
var ErrAlreadyRunning = errors.New("wake-up orchestrator already running")

// Summary counts the final status of every processed wake-up site
type Summary struct {
	Total      int
	Completed  int
	Failed     int
	WakeFailed int
	Errors     int
}

func (s *Summary) add(status domain.WakeUpStatus) {
	switch status {
	case domain.WakeUpStatusCompleted:
		s.Completed++
	case domain.WakeUpStatusFailed:
		s.Failed++
	case domain.WakeUpStatusWakeFailed:
		s.WakeFailed++
	default:
		s.Errors++
	}
}

// Orchestrator wakes every pending wake-up site and migrates those that woke up
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// Run processes every site that is not completed, one at a time
	Run(ctx context.Context) (*Summary, error)

	// ProcessSite wakes and migrates one site, returning its final status.
	// Failures are recorded on the site and never returned.
	ProcessSite(ctx context.Context, site domain.WakeUpSite) domain.WakeUpStatus
}

type orchestrator struct {
	config  config.WakeUpConfig
	service *Service
	store   store.Store
	waker   Waker
	clock   adapter.Clock
	running atomic.Bool
}

// NewOrchestrator creates a wake-up orchestrator
func NewOrchestrator(cfg config.WakeUpConfig, st store.Store, waker Waker, migrator SiteMigrator, clock adapter.Clock) Orchestrator {
	return &orchestrator{
		config:  cfg,
		service: NewService(st, migrator, clock),
		store:   st,
		waker:   waker,
		clock:   clock,
	}
}

// pendingSites lists sites that still need work, honoring the configured limit
func (o *orchestrator) pendingSites(ctx context.Context) ([]domain.WakeUpSite, error) {
	sites, err := o.service.List(ctx, "")
	if err != nil {
		return nil, err
	}

	pending := make([]domain.WakeUpSite, 0, len(sites))
	for _, site := range sites {
		if site.MigrationStatus == domain.WakeUpStatusCompleted {
			continue
		}
		if site.WakeUpURL == "" {
			logger.WarnCtx(ctx, "Skipping wake-up site without url", zap.String("siteId", site.SiteID))
			continue
		}
		pending = append(pending, site)
		if o.config.Limit > 0 && len(pending) >= o.config.Limit {
			break
		}
	}
	return pending, nil
}

func (o *orchestrator) Run(ctx context.Context) (*Summary, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer o.running.Store(false)

	sites, err := o.pendingSites(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	logger.InfoCtx(ctx, "Starting wake-up and migrate", zap.Int("sites", len(sites)), zap.Int("limit", o.config.Limit))

	for i, site := range sites {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		status := o.ProcessSite(ctx, site)
		summary.Total++
		summary.add(status)

		logger.InfoCtx(ctx, "Wake-up site processed",
			zap.String("siteId", site.SiteID),
			zap.String("status", string(status)),
			zap.Int("index", i),
			zap.Int("of", len(sites)),
		)

		if i < len(sites)-1 {
			if err := adapter.SleepContext(ctx, o.clock, o.config.SiteDelay); err != nil {
				return summary, err
			}
		}
	}

	logger.InfoCtx(ctx, "Wake-up and migrate completed",
		zap.Int("total", summary.Total),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Int("wakeFailed", summary.WakeFailed),
		zap.Int("errors", summary.Errors),
	)
	return summary, nil
}

func (o *orchestrator) ProcessSite(ctx context.Context, site domain.WakeUpSite) domain.WakeUpStatus {
	now := o.clock.Now().UTC()
	if err := o.store.Update(ctx, domain.CollectionWakeUpSites, site.SiteID, map[string]interface{}{
		"lastWakeUpAttempt": now,
		"updatedAt":         now,
	}); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to stamp wake-up attempt: %w", err), zap.String("siteId", site.SiteID))
		return domain.WakeUpStatusError
	}

	result, err := o.waker.Wake(ctx, site)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to wake site: %w", err), zap.String("siteId", site.SiteID))
		return o.transition(ctx, site.SiteID, domain.WakeUpStatusError, err.Error())
	}
	if !result.Awake {
		logger.WarnCtx(ctx, "Site did not wake up", zap.String("siteId", site.SiteID), zap.String("reason", result.Reason))
		return o.transition(ctx, site.SiteID, domain.WakeUpStatusWakeFailed, result.Reason)
	}

	if err := o.store.Update(ctx, domain.CollectionWakeUpSites, site.SiteID, map[string]interface{}{
		"isAwake":         true,
		"migrationStatus": string(domain.WakeUpStatusWaking),
		"migrationError":  "",
		"updatedAt":       o.clock.Now().UTC(),
	}); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("siteId", site.SiteID))
		return domain.WakeUpStatusError
	}

	if _, err := o.service.migrate(ctx, &site); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to migrate woken site: %w", err), zap.String("siteId", site.SiteID))
		return domain.WakeUpStatusFailed
	}
	return domain.WakeUpStatusCompleted
}

// transition records status and returns it, downgrading to error when the write fails
func (o *orchestrator) transition(ctx context.Context, siteID string, status domain.WakeUpStatus, reason string) domain.WakeUpStatus {
	if err := o.service.SetStatus(ctx, siteID, status, reason); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("siteId", siteID))
		return domain.WakeUpStatusError
	}
	return status
}

package wakeup

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// SiteMigrator is the single-site entry point of the migration driver
type SiteMigrator interface {
	MigrateSite(ctx context.Context, siteID string, row *domain.CSVRow) (*migration.SiteStats, error)
}

// Service reads and transitions wake-up site records
type Service struct {
	store    store.Store
	migrator SiteMigrator
	clock    adapter.Clock
}

// NewService creates a wake-up site service
func NewService(st store.Store, migrator SiteMigrator, clock adapter.Clock) *Service {
	return &Service{store: st, migrator: migrator, clock: clock}
}

// Get returns one wake-up site or domain.ErrNotFound
func (s *Service) Get(ctx context.Context, siteID string) (*domain.WakeUpSite, error) {
	var site domain.WakeUpSite
	if err := s.store.Get(ctx, domain.CollectionWakeUpSites, siteID, &site); err != nil {
		return nil, err
	}
	if site.SiteID == "" {
		site.SiteID = siteID
	}
	return &site, nil
}

// List returns wake-up sites ordered by site id, optionally only those in status
func (s *Service) List(ctx context.Context, status domain.WakeUpStatus) ([]domain.WakeUpSite, error) {
	q := store.Query{OrderBy: "siteId"}
	if status != "" {
		q.Filters = []store.Filter{{Field: "migrationStatus", Op: store.OpEqual, Value: string(status)}}
	}

	docs, err := s.store.List(ctx, domain.CollectionWakeUpSites, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list wake-up sites: %w", err)
	}

	sites := make([]domain.WakeUpSite, 0, len(docs))
	for _, doc := range docs {
		var site domain.WakeUpSite
		if err := doc.DataTo(&site); err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable wake-up site", zap.String("id", doc.ID()), zap.Error(err))
			continue
		}
		if site.SiteID == "" {
			site.SiteID = doc.ID()
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// SetAwake records the awake flag reported by an operator
func (s *Service) SetAwake(ctx context.Context, siteID string, awake bool) error {
	return s.store.Update(ctx, domain.CollectionWakeUpSites, siteID, map[string]interface{}{
		"isAwake":   awake,
		"updatedAt": s.clock.Now().UTC(),
	})
}

// SetStatus moves a site to status, recording reason as the migration error
func (s *Service) SetStatus(ctx context.Context, siteID string, status domain.WakeUpStatus, reason string) error {
	return s.store.Update(ctx, domain.CollectionWakeUpSites, siteID, map[string]interface{}{
		"migrationStatus": string(status),
		"migrationError":  reason,
		"updatedAt":       s.clock.Now().UTC(),
	})
}

// Migrate runs the single-site migration for a wake-up site using its staged
// CSV row, moving it through in_progress to completed or failed
func (s *Service) Migrate(ctx context.Context, siteID string) (*migration.SiteStats, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, fmt.Errorf("%w: site id is required", domain.ErrInvalidInput)
	}

	site, err := s.Get(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if err := s.SetStatus(ctx, siteID, domain.WakeUpStatusInProgress, ""); err != nil {
		return nil, err
	}

	return s.migrate(ctx, site)
}

func (s *Service) migrate(ctx context.Context, site *domain.WakeUpSite) (*migration.SiteStats, error) {
	row := site.CSVData
	if row.SiteID == "" {
		row.SiteID = site.SiteID
	}

	stats, err := s.migrator.MigrateSite(ctx, site.SiteID, &row)
	if err != nil {
		if statusErr := s.SetStatus(ctx, site.SiteID, domain.WakeUpStatusFailed, err.Error()); statusErr != nil {
			logger.ErrorCtx(ctx, statusErr, zap.String("siteId", site.SiteID))
		}
		return nil, err
	}

	if err := s.SetStatus(ctx, site.SiteID, domain.WakeUpStatusCompleted, ""); err != nil {
		return stats, err
	}
	return stats, nil
}

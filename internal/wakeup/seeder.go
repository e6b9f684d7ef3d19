package wakeup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/csvstaging"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// SeedConfig configures the wake-up site seeder
type SeedConfig struct {
	CSVPath         string
	WakeURLTemplate string
	// Overwrite resets sites that already exist back to pending
	Overwrite bool
}

// SeedSummary counts what the seeder did with each CSV row
type SeedSummary struct {
	Rows     int
	Created  int
	Existing int
	Invalid  int
	Failed   int
}

// Seeder creates wake-up site records from the staging CSV
type Seeder struct {
	config SeedConfig
	store  store.Store
	fs     adapter.FileSystem
	clock  adapter.Clock
}

// NewSeeder creates a wake-up site seeder
func NewSeeder(cfg SeedConfig, st store.Store, fs adapter.FileSystem, clock adapter.Clock) *Seeder {
	return &Seeder{config: cfg, store: st, fs: fs, clock: clock}
}

// Seed writes one pending wake-up site per CSV row. Rows without a site id
// and repeated site ids are skipped; existing records are kept unless
// Overwrite is set. Only an unreadable CSV is returned as an error.
func (s *Seeder) Seed(ctx context.Context) (*SeedSummary, error) {
	rows, err := csvstaging.ReadFile(s.fs, s.config.CSVPath)
	if err != nil {
		return nil, err
	}

	summary := &SeedSummary{Rows: len(rows)}
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		siteID := strings.TrimSpace(row.SiteID)
		if siteID == "" || seen[siteID] {
			logger.WarnCtx(ctx, "Skipping row", zap.Int("index", i), zap.String("siteId", siteID))
			summary.Invalid++
			continue
		}
		seen[siteID] = true

		if !s.config.Overwrite {
			var existing domain.WakeUpSite
			err := s.store.Get(ctx, domain.CollectionWakeUpSites, siteID, &existing)
			if err == nil {
				summary.Existing++
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to check wake-up site: %w", err), zap.String("siteId", siteID))
				summary.Failed++
				continue
			}
		}

		now := s.clock.Now().UTC()
		site := domain.WakeUpSite{
			SiteID:          siteID,
			IsAwake:         false,
			WakeUpURL:       WakeURL(s.config.WakeURLTemplate, siteID),
			MigrationStatus: domain.WakeUpStatusPending,
			CSVData:         row,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.store.Set(ctx, domain.CollectionWakeUpSites, siteID, site); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to create wake-up site: %w", err), zap.String("siteId", siteID))
			summary.Failed++
			continue
		}
		summary.Created++
	}

	logger.InfoCtx(ctx, "Seeded wake-up sites",
		zap.Int("rows", summary.Rows),
		zap.Int("created", summary.Created),
		zap.Int("existing", summary.Existing),
		zap.Int("invalid", summary.Invalid),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

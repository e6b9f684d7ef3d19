package migration

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/csvstaging"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/hdphotohub"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/media/fetcher"
	"github.com/loganpetree/homesellphotography/internal/normalizer"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// Config is an alias to config.MigrationConfig for convenience
type Config = config.MigrationConfig

// Driver migrates the sites listed in the staging CSV
//
//go:generate mockgen -source=driver.go -destination=../mocks/driver.go -package=mocks -mock_names=Driver=MockDriver
type Driver interface {
	// Run migrates every pending row, resuming from the persisted checkpoint.
	// Per-site failures are counted in the summary; only fatal input errors
	// and cancellation are returned.
	Run(ctx context.Context) (*Summary, error)

	// MigrateSite fetches, re-hosts, normalizes and writes one site without
	// touching the checkpoint. row may be nil.
	MigrateSite(ctx context.Context, siteID string, row *domain.CSVRow) (*SiteStats, error)
}

type driver struct {
	config     Config
	source     hdphotohub.Client
	fetcher    fetcher.Fetcher
	store      store.Store
	checkpoint CheckpointStore
	sleeping   *SleepingReport
	fs         adapter.FileSystem
	clock      adapter.Clock
	retry      RetryPolicy
	mediaPool  pond.ResultPool[domain.Media]
}

// NewDriver creates a migration driver. sleeping may be nil.
func NewDriver(
	cfg Config,
	source hdphotohub.Client,
	fetcher fetcher.Fetcher,
	st store.Store,
	checkpoint CheckpointStore,
	sleeping *SleepingReport,
	fs adapter.FileSystem,
	clock adapter.Clock,
) Driver {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.MediaConcurrency <= 0 {
		cfg.MediaConcurrency = 16
	}

	return &driver{
		config:     cfg,
		source:     source,
		fetcher:    fetcher,
		store:      st,
		checkpoint: checkpoint,
		sleeping:   sleeping,
		fs:         fs,
		clock:      clock,
		retry:      NewRetryPolicy(cfg.Retry, clock),
		mediaPool:  pond.NewResultPool[domain.Media](cfg.MediaConcurrency),
	}
}

// ResumeIndex returns the first row to visit. A completed checkpoint starts a
// new pass at 0 where completed sites are skipped. A force range pulls the
// start back to its lower bound and an explicit start index wins over both.
func ResumeIndex(progress *domain.MigrationProgress, cfg Config, rows int) int {
	start := 0
	if progress.Status != domain.ProgressStatusCompleted {
		start = progress.LastProcessedIndex + 1
	}
	if cfg.ForceReprocess.Enabled() && cfg.ForceReprocess.From < start {
		start = cfg.ForceReprocess.From
	}
	if cfg.StartIndex >= 0 {
		start = cfg.StartIndex
	}
	return max(0, min(start, rows))
}

func (d *driver) Run(ctx context.Context) (*Summary, error) {
	now := d.clock.Now().UTC()
	summary := &Summary{
		RunID:     ulid.MustNewDefault(now).String(),
		StartedAt: now,
	}

	progress, err := d.checkpoint.Load(ctx)
	if err != nil {
		return summary, err
	}

	rows, err := csvstaging.ReadFile(d.fs, d.config.CSVPath)
	if err != nil {
		return summary, d.fail(ctx, progress, err)
	}

	start := ResumeIndex(progress, d.config, len(rows))
	if progress.Status == domain.ProgressStatusCompleted {
		progress.StartTime = now
	}
	progress.RunID = summary.RunID
	progress.Status = domain.ProgressStatusInProgress
	progress.Error = ""
	if err := d.checkpoint.Save(ctx, progress); err != nil {
		return summary, err
	}

	summary.TotalRows = len(rows)
	summary.StartIndex = start

	logger.InfoCtx(ctx, "Starting migration",
		zap.String("runId", summary.RunID),
		zap.Int("rows", len(rows)),
		zap.Int("startIndex", start),
		zap.Int("completedSites", len(progress.CompletedSites)),
		zap.Int("batchSize", d.config.BatchSize),
		zap.Bool("forceReprocess", d.config.ForceReprocess.Enabled()),
	)

	for batchStart := start; batchStart < len(rows); batchStart += d.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return d.finish(summary), err
		}

		batchEnd := min(batchStart+d.config.BatchSize, len(rows))
		summary.Batches++
		batch := BatchStats{Number: summary.Batches}

		for i := batchStart; i < batchEnd; i++ {
			if err := d.processRow(ctx, progress, i, &rows[i], summary, &batch); err != nil {
				if errors.Is(err, domain.ErrFatalInput) {
					return d.finish(summary), d.fail(ctx, progress, err)
				}
				return d.finish(summary), err
			}
		}

		logger.InfoCtx(ctx, "Batch completed",
			zap.Int("batch", batch.Number),
			zap.Int("fromIndex", batchStart),
			zap.Int("toIndex", batchEnd-1),
			zap.Int("processed", batch.Processed),
			zap.Int("skipped", batch.Skipped),
			zap.Int("failed", batch.Failed),
			zap.Int("totalMigrated", summary.Migrated),
			zap.Int("totalFailed", summary.Failed),
		)

		if batchEnd < len(rows) {
			if err := adapter.SleepContext(ctx, d.clock, d.config.InterBatchDelay); err != nil {
				return d.finish(summary), err
			}
		}
	}

	progress.Status = domain.ProgressStatusCompleted
	if last := len(rows) - 1; last > progress.LastProcessedIndex {
		progress.LastProcessedIndex = last
	}
	if err := d.checkpoint.Save(ctx, progress); err != nil {
		return d.finish(summary), err
	}

	d.finish(summary)
	logger.InfoCtx(ctx, "Migration completed", summary.Fields()...)
	return summary, nil
}

// processRow migrates one CSV row. Only fatal errors and cancellation are returned.
func (d *driver) processRow(
	ctx context.Context,
	progress *domain.MigrationProgress,
	index int,
	row *domain.CSVRow,
	summary *Summary,
	batch *BatchStats,
) error {
	siteID := strings.TrimSpace(row.SiteID)
	if siteID == "" {
		logger.WarnCtx(ctx, "Skipping row without site id", zap.Int("index", index))
		summary.InvalidRows++
		batch.Skipped++
		return nil
	}

	reprocess := false
	if progress.IsCompleted(siteID) {
		if !d.config.ForceReprocess.Contains(index) {
			logger.DebugCtx(ctx, "Skipping completed site", zap.String("siteId", siteID), zap.Int("index", index))
			summary.AlreadyCompleted++
			batch.Skipped++
			return nil
		}
		reprocess = true
	}

	logger.InfoCtx(ctx, "Processing site",
		zap.String("siteId", siteID),
		zap.Int("index", index),
		zap.Int("of", summary.TotalRows),
		zap.Bool("reprocess", reprocess),
	)

	stats, err := d.MigrateSite(ctx, siteID, row)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.ErrorCtx(ctx, fmt.Errorf("failed to migrate site %s: %w", siteID, err),
			zap.String("siteId", siteID),
			zap.Int("index", index),
		)
		summary.Failed++
		summary.FailedSites = append(summary.FailedSites, FailedSite{Index: index, SiteID: siteID, Error: err.Error()})
		batch.Failed++
		return nil
	}

	progress.MarkCompleted(siteID, index)
	if err := d.checkpoint.Save(ctx, progress); err != nil {
		return err
	}

	summary.addSite(*stats)
	if reprocess {
		summary.Reprocessed++
	}
	batch.Processed++
	return nil
}

func (d *driver) MigrateSite(ctx context.Context, siteID string, row *domain.CSVRow) (*SiteStats, error) {
	result, err := d.retry.Do(ctx, func(ctx context.Context) (*SiteResult, error) {
		return d.fetchSite(ctx, siteID)
	})
	if err != nil {
		return nil, err
	}

	site := normalizer.Normalize(result.Record, row)
	if result.Record.SID == 0 {
		site.SiteID = siteID
	}
	site.Media = result.Media
	now := d.clock.Now().UTC()
	site.MigratedAt = &now
	site.UpdatedAt = &now

	if err := d.store.Set(ctx, domain.CollectionSites, siteID, site); err != nil {
		return nil, fmt.Errorf("failed to write site: %w", err)
	}

	logger.InfoCtx(ctx, "Site migrated", siteFields(result.Stats)...)
	return &result.Stats, nil
}

// fetchSite fetches the record and re-hosts every media in parallel,
// returning media sorted by order
func (d *driver) fetchSite(ctx context.Context, siteID string) (*SiteResult, error) {
	rec, err := d.source.GetSite(ctx, siteID, true)
	if err != nil {
		return nil, err
	}
	if rec.SID != 0 && strconv.FormatInt(rec.SID, 10) != siteID {
		logger.WarnCtx(ctx, "Upstream returned a different site id",
			zap.String("siteId", siteID),
			zap.Int64("sid", rec.SID),
		)
	}

	valid := make([]domain.SourceMedia, 0, len(rec.Media))
	for _, m := range rec.Media {
		if m.MID <= 0 {
			logger.WarnCtx(ctx, "Dropping media without id", zap.String("siteId", siteID), zap.String("name", m.Name))
			continue
		}
		valid = append(valid, m)
	}

	media := []domain.Media{}
	if len(valid) > 0 {
		group := d.mediaPool.NewGroup()
		for _, m := range valid {
			group.SubmitErr(func() (domain.Media, error) {
				return d.fetcher.FetchAndStore(ctx, siteID, m)
			})
		}
		if media, err = group.Wait(); err != nil {
			return nil, fmt.Errorf("failed to process media: %w", err)
		}
	}
	slices.SortStableFunc(media, func(a, b domain.Media) int {
		return cmp.Compare(a.Order, b.Order)
	})

	stats := ComputeSiteStats(siteID, media)
	stats.Invalid = len(rec.Media) - len(valid)
	return &SiteResult{Record: rec, Media: media, Stats: stats}, nil
}

// fail marks the checkpoint failed and returns cause
func (d *driver) fail(ctx context.Context, progress *domain.MigrationProgress, cause error) error {
	progress.Status = domain.ProgressStatusFailed
	progress.Error = cause.Error()
	if err := d.checkpoint.Save(ctx, progress); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mark checkpoint failed: %w", err))
	}
	return cause
}

func (d *driver) finish(summary *Summary) *Summary {
	summary.FinishedAt = d.clock.Now().UTC()
	if d.sleeping != nil {
		summary.SleepingMedia = d.sleeping.Len()
	}
	return summary
}

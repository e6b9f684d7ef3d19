package migration

import (
	"time"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/media/fetcher"
)

// SiteStats counts the media outcomes of one site
type SiteStats struct {
	SiteID   string
	Total    int
	Stored   int
	Fallback int
	Failed   int
	Sleeping int
	Invalid  int
	Retries  int
}

// SuccessRate is the stored share of all media, 1 for a site without media
func (s SiteStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Stored) / float64(s.Total)
}

// ComputeSiteStats counts stored, fallback and failed media
func ComputeSiteStats(siteID string, media []domain.Media) SiteStats {
	stats := SiteStats{SiteID: siteID, Total: len(media)}
	for _, m := range media {
		switch {
		case m.Stored():
			stats.Stored++
			if m.WorkingURL != "" {
				stats.Fallback++
			}
		default:
			stats.Failed++
		}
		if fetcher.IsPlaceholder(m.OriginalURL) {
			stats.Sleeping++
		}
	}
	return stats
}

// FailedSite is a row left for a future run
type FailedSite struct {
	Index  int
	SiteID string
	Error  string
}

// BatchStats counts the rows of one batch
type BatchStats struct {
	Number    int
	Processed int
	Skipped   int
	Failed    int
}

// Summary is the outcome of a driver run
type Summary struct {
	RunID            string
	TotalRows        int
	StartIndex       int
	Batches          int
	Migrated         int
	Reprocessed      int
	Failed           int
	AlreadyCompleted int
	InvalidRows      int
	MediaTotal       int
	MediaStored      int
	MediaFallback    int
	MediaFailed      int
	SleepingMedia    int
	FailedSites      []FailedSite
	StartedAt        time.Time
	FinishedAt       time.Time
}

func (s *Summary) addSite(stats SiteStats) {
	s.Migrated++
	s.MediaTotal += stats.Total
	s.MediaStored += stats.Stored
	s.MediaFallback += stats.Fallback
	s.MediaFailed += stats.Failed
}

// Fields renders the summary as log fields
func (s *Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.String("runId", s.RunID),
		zap.Int("totalRows", s.TotalRows),
		zap.Int("startIndex", s.StartIndex),
		zap.Int("batches", s.Batches),
		zap.Int("migrated", s.Migrated),
		zap.Int("reprocessed", s.Reprocessed),
		zap.Int("failed", s.Failed),
		zap.Int("alreadyCompleted", s.AlreadyCompleted),
		zap.Int("invalidRows", s.InvalidRows),
		zap.Int("mediaTotal", s.MediaTotal),
		zap.Int("mediaStored", s.MediaStored),
		zap.Int("mediaFallback", s.MediaFallback),
		zap.Int("mediaFailed", s.MediaFailed),
		zap.Int("sleepingMedia", s.SleepingMedia),
		zap.Duration("duration", s.FinishedAt.Sub(s.StartedAt)),
	}
}

func siteFields(stats SiteStats) []zap.Field {
	return []zap.Field{
		zap.String("siteId", stats.SiteID),
		zap.Int("total", stats.Total),
		zap.Int("stored", stats.Stored),
		zap.Int("fallback", stats.Fallback),
		zap.Int("failed", stats.Failed),
		zap.Int("sleeping", stats.Sleeping),
		zap.Int("retries", stats.Retries),
		zap.Float64("successRate", stats.SuccessRate()),
	}
}

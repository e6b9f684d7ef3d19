package resizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/downloader"
	"github.com/loganpetree/homesellphotography/internal/logger"
	mediaprovider "github.com/loganpetree/homesellphotography/internal/media/provider"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// Tier is one derived resolution
type Tier struct {
	Name     string
	MaxWidth int
	Quality  int
}

// DefaultTiers are the derived resolutions written next to every image
var DefaultTiers = []Tier{
	{Name: "small", MaxWidth: 400, Quality: 75},
	{Name: "medium", MaxWidth: 800, Quality: 85},
	{Name: "large", MaxWidth: 1600, Quality: 90},
}

// Outcome is what happened to one media entry
type Outcome string

const (
	OutcomeResized        Outcome = "resized"
	OutcomeAlreadyResized Outcome = "alreadyResized"
	OutcomeNoSourceURL    Outcome = "noSourceUrl"
	OutcomeSourceNotFound Outcome = "sourceNotFound"
	OutcomeDownloadFailed Outcome = "downloadFailed"
	OutcomeAuthError      Outcome = "authError"
	OutcomeUploadFailed   Outcome = "uploadFailed"
	OutcomeNotImage       Outcome = "notImage"
)

// Stats is a snapshot of the pass counters
type Stats struct {
	SitesTotal     int64
	SitesUpdated   int64
	SitesFailed    int64
	MediaTotal     int64
	Resized        int64
	AlreadyResized int64
	NoSourceURL    int64
	SourceNotFound int64
	DownloadFailed int64
	AuthError      int64
	UploadFailed   int64
	NotImage       int64
}

// Skipped returns the number of media left unchanged for any reason
func (s Stats) Skipped() int64 {
	return s.AlreadyResized + s.NoSourceURL + s.SourceNotFound + s.DownloadFailed +
		s.AuthError + s.UploadFailed + s.NotImage
}

type counters struct {
	sitesTotal, sitesUpdated, sitesFailed atomic.Int64
	mediaTotal                            atomic.Int64
	outcomes                              map[Outcome]*atomic.Int64
}

func newCounters() *counters {
	c := &counters{outcomes: make(map[Outcome]*atomic.Int64)}
	for _, o := range []Outcome{
		OutcomeResized, OutcomeAlreadyResized, OutcomeNoSourceURL, OutcomeSourceNotFound,
		OutcomeDownloadFailed, OutcomeAuthError, OutcomeUploadFailed, OutcomeNotImage,
	} {
		c.outcomes[o] = &atomic.Int64{}
	}
	return c
}

func (c *counters) snapshot() Stats {
	return Stats{
		SitesTotal:     c.sitesTotal.Load(),
		SitesUpdated:   c.sitesUpdated.Load(),
		SitesFailed:    c.sitesFailed.Load(),
		MediaTotal:     c.mediaTotal.Load(),
		Resized:        c.outcomes[OutcomeResized].Load(),
		AlreadyResized: c.outcomes[OutcomeAlreadyResized].Load(),
		NoSourceURL:    c.outcomes[OutcomeNoSourceURL].Load(),
		SourceNotFound: c.outcomes[OutcomeSourceNotFound].Load(),
		DownloadFailed: c.outcomes[OutcomeDownloadFailed].Load(),
		AuthError:      c.outcomes[OutcomeAuthError].Load(),
		UploadFailed:   c.outcomes[OutcomeUploadFailed].Load(),
		NotImage:       c.outcomes[OutcomeNotImage].Load(),
	}
}

// Config holds the pass settings
type Config struct {
	SiteBatchSize    int
	MediaConcurrency int
	BatchDelay       time.Duration
	// Force regenerates tiers even when all three URLs exist
	Force bool
	// SiteIDs restricts the pass; empty means every site
	SiteIDs []string
	Tiers   []Tier
}

// Resizer writes derived resolutions for already migrated sites
//
//go:generate mockgen -source=resizer.go -destination=../../mocks/resizer.go -package=mocks -mock_names=Resizer=MockResizer
type Resizer interface {
	// Run processes every selected site and returns the final counters
	Run(ctx context.Context) (Stats, error)

	// ResizeSite processes one site and persists its media when anything changed
	ResizeSite(ctx context.Context, site *domain.Site) (bool, error)

	// ResizeMedia produces the derived resolutions of one media entry
	ResizeMedia(ctx context.Context, siteID string, m domain.Media) (domain.Media, Outcome)
}

type resizer struct {
	config     Config
	store      store.Store
	httpClient adapter.HTTPClient
	downloader downloader.Downloader
	codec      adapter.ImageCodec
	storage    mediaprovider.Storage
	clock      adapter.Clock

	sitePool  pond.Pool
	mediaPool pond.ResultPool[mediaResult]
	counters  *counters
}

type mediaResult struct {
	media   domain.Media
	outcome Outcome
}

// NewResizer creates a Resizer. Sites and media run on separate pools so a
// site task waiting on its media never starves the media workers.
func NewResizer(
	config Config,
	st store.Store,
	httpClient adapter.HTTPClient,
	dl downloader.Downloader,
	codec adapter.ImageCodec,
	storage mediaprovider.Storage,
	clock adapter.Clock,
) Resizer {
	if config.SiteBatchSize <= 0 {
		config.SiteBatchSize = 3
	}
	if config.MediaConcurrency <= 0 {
		config.MediaConcurrency = 8
	}
	if len(config.Tiers) == 0 {
		config.Tiers = DefaultTiers
	}

	return &resizer{
		config:     config,
		store:      st,
		httpClient: httpClient,
		downloader: dl,
		codec:      codec,
		storage:    storage,
		clock:      clock,
		sitePool:   pond.NewPool(config.SiteBatchSize),
		mediaPool:  pond.NewResultPool[mediaResult](config.MediaConcurrency),
		counters:   newCounters(),
	}
}

func (r *resizer) Run(ctx context.Context) (Stats, error) {
	defer r.sitePool.StopAndWait()
	defer r.mediaPool.StopAndWait()

	sites, err := r.loadSites(ctx)
	if err != nil {
		return r.counters.snapshot(), err
	}

	batches := (len(sites) + r.config.SiteBatchSize - 1) / r.config.SiteBatchSize
	logger.InfoCtx(ctx, "Starting resize pass",
		zap.Int("sites", len(sites)),
		zap.Int("batches", batches),
		zap.Bool("force", r.config.Force),
	)

	for i := 0; i < len(sites); i += r.config.SiteBatchSize {
		if err := ctx.Err(); err != nil {
			return r.counters.snapshot(), err
		}

		batch := sites[i:min(i+r.config.SiteBatchSize, len(sites))]
		group := r.sitePool.NewGroup()
		for _, site := range batch {
			group.Submit(func() {
				if _, err := r.ResizeSite(ctx, site); err != nil {
					r.counters.sitesFailed.Add(1)
					logger.ErrorCtx(ctx, err, zap.String("siteId", site.SiteID))
				}
			})
		}
		_ = group.Wait()

		stats := r.counters.snapshot()
		logger.InfoCtx(ctx, "Resize batch completed",
			zap.Int("batch", i/r.config.SiteBatchSize+1),
			zap.Int("of", batches),
			zap.Int64("sitesUpdated", stats.SitesUpdated),
			zap.Int64("sitesFailed", stats.SitesFailed),
			zap.Int64("resized", stats.Resized),
			zap.Int64("skipped", stats.Skipped()),
		)

		if i+r.config.SiteBatchSize < len(sites) {
			if err := adapter.SleepContext(ctx, r.clock, r.config.BatchDelay); err != nil {
				return r.counters.snapshot(), err
			}
		}
	}

	return r.counters.snapshot(), nil
}

func (r *resizer) loadSites(ctx context.Context) ([]*domain.Site, error) {
	if len(r.config.SiteIDs) > 0 {
		sites := make([]*domain.Site, 0, len(r.config.SiteIDs))
		for _, id := range r.config.SiteIDs {
			var site domain.Site
			if err := r.store.Get(ctx, domain.CollectionSites, id, &site); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					logger.WarnCtx(ctx, "Site not found", zap.String("siteId", id))
					continue
				}
				return nil, fmt.Errorf("failed to load site %s: %w", id, err)
			}
			sites = append(sites, &site)
		}
		return sites, nil
	}

	docs, err := r.store.List(ctx, domain.CollectionSites, store.Query{OrderBy: "siteId"})
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	sites := make([]*domain.Site, 0, len(docs))
	for _, doc := range docs {
		var site domain.Site
		if err := doc.DataTo(&site); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to decode site %s: %w", doc.ID(), err))
			continue
		}
		if site.SiteID == "" {
			site.SiteID = doc.ID()
		}
		sites = append(sites, &site)
	}
	return sites, nil
}

func (r *resizer) ResizeSite(ctx context.Context, site *domain.Site) (bool, error) {
	r.counters.sitesTotal.Add(1)

	group := r.mediaPool.NewGroup()
	for _, m := range site.Media {
		group.SubmitErr(func() (mediaResult, error) {
			updated, outcome := r.ResizeMedia(ctx, site.SiteID, m)
			return mediaResult{media: updated, outcome: outcome}, nil
		})
	}
	results, err := group.Wait()
	if err != nil {
		return false, fmt.Errorf("failed to resize media of site %s: %w", site.SiteID, err)
	}

	changed := false
	media := make([]domain.Media, len(results))
	for i, res := range results {
		media[i] = res.media
		if res.outcome == OutcomeResized {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	if err := r.store.Update(ctx, domain.CollectionSites, site.SiteID, map[string]interface{}{
		"media":     media,
		"updatedAt": r.clock.Now().UTC(),
	}); err != nil {
		return false, fmt.Errorf("failed to update site %s: %w", site.SiteID, err)
	}

	site.Media = media
	r.counters.sitesUpdated.Add(1)
	return true, nil
}

func (r *resizer) ResizeMedia(ctx context.Context, siteID string, m domain.Media) (domain.Media, Outcome) {
	outcome := r.resizeMedia(ctx, siteID, &m)
	r.counters.mediaTotal.Add(1)
	r.counters.outcomes[outcome].Add(1)

	if outcome != OutcomeResized && outcome != OutcomeAlreadyResized {
		logger.DebugCtx(ctx, "Media skipped",
			zap.String("siteId", siteID),
			zap.String("mediaId", m.MediaID),
			zap.String("reason", string(outcome)),
		)
	}
	return m, outcome
}

func (r *resizer) resizeMedia(ctx context.Context, siteID string, m *domain.Media) Outcome {
	if !r.config.Force && m.HasDerivedSizes() {
		return OutcomeAlreadyResized
	}

	source := m.StorageURL
	if source == "" {
		source = m.OriginalURL
	}
	if source == "" {
		return OutcomeNoSourceURL
	}
	if isVideo(m) {
		return OutcomeNotImage
	}

	exists, err := mediaprovider.Exists(ctx, r.httpClient, source)
	if err != nil {
		logger.WarnCtx(ctx, "Existence check failed, downloading anyway",
			zap.String("url", source), zap.Error(err))
	} else if !exists {
		return OutcomeSourceNotFound
	}

	result, err := r.downloader.Download(ctx, source)
	if err != nil {
		var dlErr *domain.DownloadError
		if errors.As(err, &dlErr) && dlErr.NotFound() {
			return OutcomeSourceNotFound
		}
		logger.WarnCtx(ctx, "Download failed", zap.String("url", source), zap.Error(err))
		return OutcomeDownloadFailed
	}

	img, _, err := r.codec.Decode(result.Data)
	if err != nil {
		logger.WarnCtx(ctx, "Decode failed", zap.String("url", source), zap.Error(err))
		return OutcomeDownloadFailed
	}

	urls := make(map[string]string, len(r.config.Tiers))
	for _, tier := range r.config.Tiers {
		var buf bytes.Buffer
		if err := r.codec.EncodeJPEG(&buf, r.codec.ScaleToWidth(img, tier.MaxWidth), tier.Quality); err != nil {
			logger.WarnCtx(ctx, "Encode failed", zap.String("url", source), zap.String("tier", tier.Name), zap.Error(err))
			return OutcomeDownloadFailed
		}

		path := mediaprovider.DerivedPath(siteID, m.Order, m.MediaID, tier.Name)
		url, err := r.storage.Write(ctx, path, buf.Bytes(), "image/jpeg")
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("siteId", siteID), zap.String("path", path))
			if errors.Is(err, domain.ErrStorageUnauthorized) {
				return OutcomeAuthError
			}
			return OutcomeUploadFailed
		}
		urls[tier.Name] = url
	}

	m.SmallURL = urls["small"]
	m.MediumURL = urls["medium"]
	m.LargeURL = urls["large"]
	return OutcomeResized
}

func isVideo(m *domain.Media) bool {
	if strings.HasPrefix(strings.ToLower(m.Type), "video") {
		return true
	}
	switch strings.ToLower(strings.TrimPrefix(m.Extension, ".")) {
	case "mp4", "mov", "m4v", "webm", "avi":
		return true
	}
	return false
}

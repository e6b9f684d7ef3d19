package migration

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// SleepingReport accumulates placeholder media across a run. It is safe for
// concurrent use by media workers. With a store, every entry is also written
// to the sleeping-media collection as it is recorded.
type SleepingReport struct {
	mu       sync.Mutex
	entries  []domain.SleepingMedia
	seen     map[string]bool
	store    store.Store
	clock    adapter.Clock
	adminURL string
}

// NewSleepingReport creates a report. st may be nil to keep entries in memory only.
func NewSleepingReport(st store.Store, clock adapter.Clock, adminURLTemplate string) *SleepingReport {
	if adminURLTemplate == "" {
		adminURLTemplate = domain.DEFAULT_SITE_ADMIN_URL
	}
	return &SleepingReport{
		seen:     make(map[string]bool),
		store:    st,
		clock:    clock,
		adminURL: adminURLTemplate,
	}
}

// RecordSleeping adds a placeholder media once per site and media id
func (r *SleepingReport) RecordSleeping(ctx context.Context, siteID string, media domain.Media) {
	entry := domain.SleepingMedia{
		SiteID:      siteID,
		MediaID:     media.MediaID,
		Name:        media.Name,
		OriginalURL: media.OriginalURL,
		Order:       media.Order,
		RecordedAt:  r.clock.Now().UTC(),
	}

	r.mu.Lock()
	if r.seen[entry.DocID()] {
		r.mu.Unlock()
		return
	}
	r.seen[entry.DocID()] = true
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	if r.store == nil {
		return
	}
	if err := r.store.Set(ctx, domain.CollectionSleepingMedia, entry.DocID(), entry); err != nil {
		logger.WarnCtx(ctx, "Failed to persist sleeping media",
			zap.String("siteId", siteID),
			zap.String("mediaId", media.MediaID),
			zap.Error(err),
		)
	}
}

// Len returns the number of recorded media
func (r *SleepingReport) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// SiteSleeping groups the sleeping media of one site
type SiteSleeping struct {
	SiteID   string
	AdminURL string
	Media    []domain.SleepingMedia
}

// BySite groups entries by site in first-seen order, media sorted by order
func (r *SleepingReport) BySite() []SiteSleeping {
	r.mu.Lock()
	defer r.mu.Unlock()

	var groups []SiteSleeping
	index := make(map[string]int)
	for _, e := range r.entries {
		i, ok := index[e.SiteID]
		if !ok {
			i = len(groups)
			index[e.SiteID] = i
			groups = append(groups, SiteSleeping{SiteID: e.SiteID, AdminURL: r.AdminURL(e.SiteID)})
		}
		groups[i].Media = append(groups[i].Media, e)
	}
	for _, g := range groups {
		slices.SortStableFunc(g.Media, func(a, b domain.SleepingMedia) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}
	return groups
}

// AdminURL is the manual wake-up page of a site
func (r *SleepingReport) AdminURL(siteID string) string {
	return strings.ReplaceAll(r.adminURL, "{siteId}", siteID)
}

// Write renders the grouped report with manual wake-up steps. Nothing is
// written when no media was sleeping.
func (r *SleepingReport) Write(w io.Writer) error {
	groups := r.BySite()
	if len(groups) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nSLEEPING MEDIA REPORT\n")
	fmt.Fprintf(&b, "Found %d sleeping media items that need manual wake-up:\n", r.Len())
	for _, g := range groups {
		fmt.Fprintf(&b, "\nSite %s: %d sleeping media\n", g.SiteID, len(g.Media))
		fmt.Fprintf(&b, "   Manual wake-up URL: %s\n", g.AdminURL)
		for i, m := range g.Media {
			fmt.Fprintf(&b, "   %d. Media %s: %s\n", i+1, m.MediaID, m.Name)
		}
	}
	b.WriteString("\nTo wake up sleeping media:\n")
	b.WriteString("   1. Log into the HDPhotoHub dashboard\n")
	b.WriteString("   2. Visit the admin URL for each site\n")
	b.WriteString("   3. Press the wake-up button to activate sleeping media\n")
	b.WriteString("   4. Re-run the migration for those sites\n")

	_, err := io.WriteString(w, b.String())
	return err
}

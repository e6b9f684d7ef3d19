package migration_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/logger"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/mocks"
	"github.com/loganpetree/homesellphotography/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testDriverMocks struct {
	ctrl       *gomock.Controller
	source     *mocks.MockSourceClient
	fetcher    *mocks.MockFetcher
	fs         *mocks.MockFileSystem
	clock      *mocks.MockClock
	store      store.Store
	checkpoint migration.CheckpointStore
	sleeping   *migration.SleepingReport
}

func testConfig() migration.Config {
	return migration.Config{
		CSVPath:          "sites.csv",
		BatchSize:        2,
		InterBatchDelay:  time.Second,
		MediaConcurrency: 4,
		StartIndex:       -1,
		ForceReprocess:   config.IndexRange{From: -1, To: -1},
		Retry: config.RetryConfig{
			SuccessThreshold: 0.5,
			MinMedia:         5,
			MaxRetries:       1,
		},
	}
}

func setupTestDriver(t *testing.T) *testDriverMocks {
	ctrl := gomock.NewController(t)

	tm := &testDriverMocks{
		ctrl:    ctrl,
		source:  mocks.NewMockSourceClient(ctrl),
		fetcher: mocks.NewMockFetcher(ctrl),
		fs:      mocks.NewMockFileSystem(ctrl),
		clock:   mocks.NewMockClock(ctrl),
		store:   store.NewMemoryStore(),
	}
	tm.clock.EXPECT().Now().Return(testNow).AnyTimes()
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- testNow
		return ch
	}).AnyTimes()

	tm.checkpoint = migration.NewCheckpointStore(tm.store, tm.clock)
	tm.sleeping = migration.NewSleepingReport(nil, tm.clock, "")
	return tm
}

func (tm *testDriverMocks) driver(cfg migration.Config) migration.Driver {
	return migration.NewDriver(cfg, tm.source, tm.fetcher, tm.store, tm.checkpoint, tm.sleeping, tm.fs, tm.clock)
}

// expectCSV serves a staging CSV with one row per site id
func (tm *testDriverMocks) expectCSV(siteIDs ...string) {
	var b strings.Builder
	b.WriteString("Site ID,Address,City,State,Zip Code,Order Total\n")
	for _, id := range siteIDs {
		fmt.Fprintf(&b, "%s,%s Main St,Austin,TX,78701,\"$1,250.00\"\n", id, id)
	}
	content := b.String()
	tm.fs.EXPECT().Open("sites.csv").DoAndReturn(func(string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}).AnyTimes()
}

func sourceRecord(siteID string, mediaCount int) *domain.SourceRecord {
	sid, _ := strconv.ParseInt(siteID, 10, 64)
	street := siteID + " Main St"
	city := "Austin"
	rec := &domain.SourceRecord{
		SID:     sid,
		BID:     9,
		Status:  "active",
		User:    domain.SourceUser{UID: 5, Name: "Jane Doe"},
		Address: &street,
		City:    &city,
	}
	for i := 0; i < mediaCount; i++ {
		rec.Media = append(rec.Media, domain.SourceMedia{
			MID:       sid*100 + int64(i),
			Name:      fmt.Sprintf("photo%d.jpg", i),
			Extension: "jpg",
			URL:       fmt.Sprintf("https://media.hd.pics/full/%d.jpg", sid*100+int64(i)),
			Order:     mediaCount - i,
		})
	}
	return rec
}

func storedMedia(siteID string, m domain.SourceMedia) domain.Media {
	url := fmt.Sprintf("https://cdn.example.com/%s/media/%d.jpg", siteID, m.MID)
	return domain.Media{
		MediaID:     strconv.FormatInt(m.MID, 10),
		Name:        m.Name,
		Extension:   m.Extension,
		OriginalURL: m.URL,
		StorageURL:  url,
		URL:         url,
		Order:       m.Order,
		Branded:     []string{},
	}
}

func failedMedia(m domain.SourceMedia) domain.Media {
	msg := "asset unavailable"
	return domain.Media{
		MediaID:         strconv.FormatInt(m.MID, 10),
		OriginalURL:     m.URL,
		URL:             m.URL,
		Order:           m.Order,
		Branded:         []string{},
		ProcessingError: &msg,
	}
}

// expectSites serves every listed site with mediaCount media that all store
func (tm *testDriverMocks) expectSites(mediaCount int, siteIDs ...string) {
	for _, id := range siteIDs {
		tm.source.EXPECT().GetSite(gomock.Any(), id, true).Return(sourceRecord(id, mediaCount), nil)
	}
	tm.fetcher.EXPECT().FetchAndStore(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
			return storedMedia(siteID, m), nil
		}).AnyTimes()
}

func (tm *testDriverMocks) loadProgress(t *testing.T) *domain.MigrationProgress {
	t.Helper()
	progress, err := tm.checkpoint.Load(context.Background())
	require.NoError(t, err)
	return progress
}

func (tm *testDriverMocks) saveProgress(t *testing.T, progress *domain.MigrationProgress) {
	t.Helper()
	require.NoError(t, tm.checkpoint.Save(context.Background(), progress))
}

func TestRun_FreshMigration(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	tm.expectCSV("101", "102", "103")
	tm.expectSites(3, "101", "102", "103")

	summary, err := tm.driver(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 0, summary.StartIndex)
	assert.Equal(t, 2, summary.Batches)
	assert.Equal(t, 3, summary.Migrated)
	assert.Equal(t, 9, summary.MediaTotal)
	assert.Equal(t, 9, summary.MediaStored)
	assert.Zero(t, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	progress := tm.loadProgress(t)
	assert.Equal(t, domain.ProgressStatusCompleted, progress.Status)
	assert.Equal(t, 2, progress.LastProcessedIndex)
	assert.Equal(t, []string{"101", "102", "103"}, progress.CompletedSites)
	assert.Equal(t, summary.RunID, progress.RunID)

	var site domain.Site
	require.NoError(t, tm.store.Get(context.Background(), domain.CollectionSites, "102", &site))
	assert.Equal(t, "102", site.SiteID)
	assert.Equal(t, "102 Main St", site.Address.Street)
	require.NotNil(t, site.CSVData)
	assert.Equal(t, 1250.0, site.CSVData.OrderTotal)
	require.Len(t, site.Media, 3)
	for i, m := range site.Media {
		assert.Equal(t, i+1, m.Order)
	}
	require.NotNil(t, site.MigratedAt)
	assert.True(t, site.MigratedAt.Equal(testNow))
}

func TestRun_ResumesAfterInterruption(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	// a previous run stopped after three of five sites
	progress := domain.NewMigrationProgress(testNow)
	for i, id := range []string{"1", "2", "3"} {
		progress.MarkCompleted(id, i)
	}
	tm.saveProgress(t, progress)

	tm.expectCSV("1", "2", "3", "4", "5")
	tm.expectSites(1, "4", "5")

	summary, err := tm.driver(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.StartIndex)
	assert.Equal(t, 2, summary.Migrated)
	assert.Zero(t, summary.AlreadyCompleted)

	progress = tm.loadProgress(t)
	assert.Equal(t, domain.ProgressStatusCompleted, progress.Status)
	assert.Equal(t, 4, progress.LastProcessedIndex)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, progress.CompletedSites)
}

func TestRun_CompletedCheckpointSkipsEverySite(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	progress := domain.NewMigrationProgress(testNow)
	progress.MarkCompleted("1", 0)
	progress.MarkCompleted("2", 1)
	progress.Status = domain.ProgressStatusCompleted
	tm.saveProgress(t, progress)

	tm.expectCSV("1", "2")
	tm.source.EXPECT().GetSite(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	summary, err := tm.driver(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.StartIndex)
	assert.Equal(t, 2, summary.AlreadyCompleted)
	assert.Zero(t, summary.Migrated)
	assert.Equal(t, domain.ProgressStatusCompleted, tm.loadProgress(t).Status)
}

func TestRun_ForceReprocessRange(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	progress := domain.NewMigrationProgress(testNow)
	for i, id := range []string{"1", "2", "3", "4"} {
		progress.MarkCompleted(id, i)
	}
	progress.Status = domain.ProgressStatusCompleted
	tm.saveProgress(t, progress)

	tm.expectCSV("1", "2", "3", "4")
	tm.expectSites(2, "2", "3")

	cfg := testConfig()
	cfg.ForceReprocess = config.IndexRange{From: 1, To: 2}

	summary, err := tm.driver(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Migrated)
	assert.Equal(t, 2, summary.Reprocessed)
	assert.Equal(t, 2, summary.AlreadyCompleted)

	progress = tm.loadProgress(t)
	assert.Equal(t, []string{"1", "2", "3", "4"}, progress.CompletedSites)
	assert.Equal(t, 3, progress.LastProcessedIndex)
}

func TestRun_SiteFailureIsRecordedAndSkipped(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	tm.expectCSV("1", "2", "3")
	tm.expectSites(1, "1", "3")
	tm.source.EXPECT().GetSite(gomock.Any(), "2", true).
		Return(nil, &domain.FetchError{SiteID: "2", StatusCode: 404})

	summary, err := tm.driver(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Migrated)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.FailedSites, 1)
	assert.Equal(t, migration.FailedSite{Index: 1, SiteID: "2", Error: "failed to fetch site 2: status 404"}, summary.FailedSites[0])

	progress := tm.loadProgress(t)
	assert.Equal(t, []string{"1", "3"}, progress.CompletedSites)
	assert.False(t, progress.IsCompleted("2"))

	var site domain.Site
	err = tm.store.Get(context.Background(), domain.CollectionSites, "2", &site)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRun_InvalidRows(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	tm.fs.EXPECT().Open("sites.csv").Return(io.NopCloser(strings.NewReader(
		"Site ID,City\n7,Austin\n,Dallas\n")), nil)
	tm.expectSites(1, "7")

	summary, err := tm.driver(testConfig()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Migrated)
	assert.Equal(t, 1, summary.InvalidRows)
}

func TestRun_UnreadableCSVMarksCheckpointFailed(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	tm.fs.EXPECT().Open("sites.csv").Return(nil, os.ErrNotExist)

	_, err := tm.driver(testConfig()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFatalInput))

	progress := tm.loadProgress(t)
	assert.Equal(t, domain.ProgressStatusFailed, progress.Status)
	assert.NotEmpty(t, progress.Error)
}

func TestRun_CheckpointLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checkpoint := mocks.NewMockCheckpointStore(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()
	checkpoint.EXPECT().Load(gomock.Any()).Return(nil, fmt.Errorf("%w: unreachable", domain.ErrFatalInput))

	d := migration.NewDriver(testConfig(), mocks.NewMockSourceClient(ctrl), mocks.NewMockFetcher(ctrl),
		store.NewMemoryStore(), checkpoint, nil, mocks.NewMockFileSystem(ctrl), clock)

	_, err := d.Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFatalInput))
}

func TestRun_CanceledKeepsProgress(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.expectCSV("1", "2", "3", "4")
	tm.source.EXPECT().GetSite(gomock.Any(), "1", true).Return(sourceRecord("1", 1), nil)
	tm.source.EXPECT().GetSite(gomock.Any(), "2", true).DoAndReturn(
		func(context.Context, string, bool) (*domain.SourceRecord, error) {
			cancel()
			return sourceRecord("2", 1), nil
		})
	tm.fetcher.EXPECT().FetchAndStore(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
			return storedMedia(siteID, m), nil
		}).AnyTimes()

	_, err := tm.driver(testConfig()).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	progress := tm.loadProgress(t)
	assert.Equal(t, domain.ProgressStatusInProgress, progress.Status)
	assert.True(t, progress.IsCompleted("1"))
	assert.False(t, progress.IsCompleted("3"))
}

func TestMigrateSite_MediaOrderUnderRandomLatency(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	tm.source.EXPECT().GetSite(gomock.Any(), "8", true).Return(sourceRecord("8", 12), nil)
	tm.fetcher.EXPECT().FetchAndStore(gomock.Any(), "8", gomock.Any()).
		DoAndReturn(func(_ context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
			// lower orders finish last
			time.Sleep(time.Duration(12-m.Order) * time.Millisecond)
			return storedMedia(siteID, m), nil
		}).Times(12)

	stats, err := tm.driver(testConfig()).MigrateSite(context.Background(), "8", nil)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Stored)

	var site domain.Site
	require.NoError(t, tm.store.Get(context.Background(), domain.CollectionSites, "8", &site))
	require.Len(t, site.Media, 12)
	for i, m := range site.Media {
		assert.Equal(t, i+1, m.Order)
	}
	assert.Nil(t, site.CSVData)
}

func TestMigrateSite_DropsMediaWithoutID(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	rec := sourceRecord("9", 2)
	rec.Media = append(rec.Media, domain.SourceMedia{MID: 0, Name: "broken.jpg", Order: 3})
	tm.source.EXPECT().GetSite(gomock.Any(), "9", true).Return(rec, nil)
	tm.fetcher.EXPECT().FetchAndStore(gomock.Any(), "9", gomock.Any()).
		DoAndReturn(func(_ context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
			return storedMedia(siteID, m), nil
		}).Times(2)

	stats, err := tm.driver(testConfig()).MigrateSite(context.Background(), "9", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Invalid)
}

func TestMigrateSite_RetriesLowSuccessRate(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	var attempt atomic.Int32
	tm.source.EXPECT().GetSite(gomock.Any(), "6", true).
		DoAndReturn(func(context.Context, string, bool) (*domain.SourceRecord, error) {
			attempt.Add(1)
			return sourceRecord("6", 6), nil
		}).Times(2)
	tm.fetcher.EXPECT().FetchAndStore(gomock.Any(), "6", gomock.Any()).
		DoAndReturn(func(_ context.Context, siteID string, m domain.SourceMedia) (domain.Media, error) {
			if attempt.Load() == 1 {
				return failedMedia(m), nil
			}
			return storedMedia(siteID, m), nil
		}).Times(12)

	stats, err := tm.driver(testConfig()).MigrateSite(context.Background(), "6", nil)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Stored)
	assert.Equal(t, 1, stats.Retries)
}

func TestMigrateSite_UpstreamWithoutSiteID(t *testing.T) {
	tm := setupTestDriver(t)
	defer tm.ctrl.Finish()

	rec := &domain.SourceRecord{}
	tm.source.EXPECT().GetSite(gomock.Any(), "55", true).Return(rec, nil)

	stats, err := tm.driver(testConfig()).MigrateSite(context.Background(), "55", &domain.CSVRow{SiteID: "55", City: "Reno"})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)

	var site domain.Site
	require.NoError(t, tm.store.Get(context.Background(), domain.CollectionSites, "55", &site))
	assert.Equal(t, "55", site.SiteID)
	assert.Equal(t, []domain.Media{}, site.Media)
	assert.Equal(t, domain.PLACEHOLDER_NO_ADDRESS, site.Address.Street)
	require.NotNil(t, site.CSVData)
	assert.Empty(t, site.CSVData.Agent.Name)
}

func TestResumeIndex(t *testing.T) {
	inProgress := func(last int) *domain.MigrationProgress {
		p := domain.NewMigrationProgress(testNow)
		p.LastProcessedIndex = last
		return p
	}
	completed := func(last int) *domain.MigrationProgress {
		p := inProgress(last)
		p.Status = domain.ProgressStatusCompleted
		return p
	}

	tests := []struct {
		name     string
		progress *domain.MigrationProgress
		start    int
		force    config.IndexRange
		rows     int
		expected int
	}{
		{"fresh", inProgress(-1), -1, config.IndexRange{From: -1, To: -1}, 10, 0},
		{"resume", inProgress(4), -1, config.IndexRange{From: -1, To: -1}, 10, 5},
		{"completed restarts", completed(9), -1, config.IndexRange{From: -1, To: -1}, 10, 0},
		{"force pulls back", inProgress(8), -1, config.IndexRange{From: 2, To: 3}, 10, 2},
		{"force after resume point", inProgress(1), -1, config.IndexRange{From: 5, To: 6}, 10, 2},
		{"explicit start wins", inProgress(8), 4, config.IndexRange{From: 2, To: 3}, 10, 4},
		{"clamped to rows", inProgress(20), -1, config.IndexRange{From: -1, To: -1}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.StartIndex = tt.start
			cfg.ForceReprocess = tt.force
			assert.Equal(t, tt.expected, migration.ResumeIndex(tt.progress, cfg, tt.rows))
		})
	}
}

package migration_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/mocks"
)

func result(total, stored int) *migration.SiteResult {
	return &migration.SiteResult{
		Record: &domain.SourceRecord{SID: 1},
		Stats:  migration.SiteStats{SiteID: "1", Total: total, Stored: stored, Failed: total - stored},
	}
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	p := migration.RetryPolicy{SuccessThreshold: 0.5, MinMedia: 5}

	tests := []struct {
		name     string
		stats    migration.SiteStats
		expected bool
	}{
		{"no media", migration.SiteStats{}, false},
		{"small site", migration.SiteStats{Total: 5, Stored: 0}, false},
		{"degraded", migration.SiteStats{Total: 6, Stored: 2}, true},
		{"at threshold", migration.SiteStats{Total: 10, Stored: 5}, false},
		{"healthy", migration.SiteStats{Total: 10, Stored: 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ShouldRetry(tt.stats))
		})
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	tests := []struct {
		name            string
		attempts        []*migration.SiteResult
		retryErr        error
		expectedStored  int
		expectedRetries int
		expectedCalls   int
	}{
		{
			name:           "healthy first attempt",
			attempts:       []*migration.SiteResult{result(10, 9)},
			expectedStored: 9,
			expectedCalls:  1,
		},
		{
			name:            "retry improves",
			attempts:        []*migration.SiteResult{result(10, 2), result(10, 8)},
			expectedStored:  8,
			expectedRetries: 1,
			expectedCalls:   2,
		},
		{
			name:            "worse retry keeps first result",
			attempts:        []*migration.SiteResult{result(10, 4), result(10, 1)},
			expectedStored:  4,
			expectedRetries: 1,
			expectedCalls:   2,
		},
		{
			name:           "failed retry keeps first result",
			attempts:       []*migration.SiteResult{result(10, 3)},
			retryErr:       errors.New("upstream down"),
			expectedStored: 3,
			expectedCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			clock := mocks.NewMockClock(ctrl)
			clock.EXPECT().After(time.Second).DoAndReturn(func(time.Duration) <-chan time.Time {
				ch := make(chan time.Time, 1)
				ch <- time.Now()
				return ch
			}).AnyTimes()

			p := migration.RetryPolicy{SuccessThreshold: 0.5, MinMedia: 5, Cooldown: time.Second, MaxRetries: 1, Clock: clock}

			calls := 0
			res, err := p.Do(context.Background(), func(context.Context) (*migration.SiteResult, error) {
				calls++
				if calls > len(tt.attempts) {
					return nil, tt.retryErr
				}
				return tt.attempts[calls-1], nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCalls, calls)
			assert.Equal(t, tt.expectedStored, res.Stats.Stored)
			assert.Equal(t, tt.expectedRetries, res.Stats.Retries)
		})
	}
}

func TestRetryPolicy_Do_FirstAttemptError(t *testing.T) {
	p := migration.RetryPolicy{SuccessThreshold: 0.5, MinMedia: 5, MaxRetries: 1}

	fetchErr := &domain.FetchError{SiteID: "1", StatusCode: 500}
	res, err := p.Do(context.Background(), func(context.Context) (*migration.SiteResult, error) {
		return nil, fetchErr
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, fetchErr)
}

func TestRetryPolicy_Do_CanceledDuringCooldown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().After(time.Minute).Return(make(chan time.Time))

	ctx, cancel := context.WithCancel(context.Background())
	p := migration.RetryPolicy{SuccessThreshold: 0.5, MinMedia: 5, Cooldown: time.Minute, MaxRetries: 1, Clock: clock}

	calls := 0
	_, err := p.Do(ctx, func(context.Context) (*migration.SiteResult, error) {
		calls++
		cancel()
		return result(10, 0), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestComputeSiteStats(t *testing.T) {
	msg := "asset unavailable"
	media := []domain.Media{
		{MediaID: "1", StorageURL: "https://cdn/1.jpg", OriginalURL: "https://media.hd.pics/full/1.jpg"},
		{MediaID: "2", StorageURL: "https://cdn/2.jpg", WorkingURL: "https://media.hd.pics/2.jpg", OriginalURL: "https://homesellphotography.hd.pics/media/full/.jpg"},
		{MediaID: "3", OriginalURL: "https://homesellphotography.hd.pics/media/full/.jpg", ProcessingError: &msg},
	}

	stats := migration.ComputeSiteStats("5", media)
	assert.Equal(t, migration.SiteStats{SiteID: "5", Total: 3, Stored: 2, Fallback: 1, Failed: 1, Sleeping: 2}, stats)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate(), 1e-9)
	assert.Equal(t, 1.0, migration.SiteStats{}.SuccessRate())
}

package wakeup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/migration"
	"github.com/loganpetree/homesellphotography/internal/wakeup"
)

func TestService_Migrate(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	tm.seed(t, "1", domain.WakeUpStatusWakeFailed)
	tm.seed(t, "2", domain.WakeUpStatusPending)
	svc := wakeup.NewService(tm.store, tm.migrator, tm.clock)

	tm.migrator.EXPECT().MigrateSite(gomock.Any(), "1", gomock.Any()).Return(&migration.SiteStats{SiteID: "1", Total: 2, Stored: 2}, nil)
	tm.migrator.EXPECT().MigrateSite(gomock.Any(), "2", gomock.Any()).Return(nil, errors.New("upstream 404"))

	stats, err := svc.Migrate(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Stored)
	assert.Equal(t, domain.WakeUpStatusCompleted, tm.site(t, "1").MigrationStatus)

	_, err = svc.Migrate(context.Background(), "2")
	assert.EqualError(t, err, "upstream 404")
	site := tm.site(t, "2")
	assert.Equal(t, domain.WakeUpStatusFailed, site.MigrationStatus)
	assert.Equal(t, "upstream 404", site.MigrationError)

	_, err = svc.Migrate(context.Background(), "404")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.Migrate(context.Background(), "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestService_ListAndSetAwake(t *testing.T) {
	tm := setupTestOrchestrator(t)
	defer tm.ctrl.Finish()

	tm.seed(t, "3", domain.WakeUpStatusPending)
	tm.seed(t, "1", domain.WakeUpStatusCompleted)
	tm.seed(t, "2", domain.WakeUpStatusPending)
	svc := wakeup.NewService(tm.store, tm.migrator, tm.clock)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].SiteID)
	assert.Equal(t, "3", all[2].SiteID)

	pending, err := svc.List(context.Background(), domain.WakeUpStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "2", pending[0].SiteID)

	require.NoError(t, svc.SetAwake(context.Background(), "2", true))
	assert.True(t, tm.site(t, "2").IsAwake)

	err = svc.SetAwake(context.Background(), "404", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

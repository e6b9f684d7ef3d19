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
	"github.com/loganpetree/homesellphotography/internal/store"
)

func TestCheckpointStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()

	cp := migration.NewCheckpointStore(store.NewMemoryStore(), clock)
	ctx := context.Background()

	progress, err := cp.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1, progress.LastProcessedIndex)
	assert.Equal(t, []string{}, progress.CompletedSites)
	assert.Equal(t, domain.ProgressStatusInProgress, progress.Status)

	progress.MarkCompleted("12", 0)
	progress.MarkCompleted("12", 0)
	progress.MarkCompleted("14", 2)
	progress.LastUpdateTime = time.Time{}
	require.NoError(t, cp.Save(ctx, progress))
	assert.True(t, progress.LastUpdateTime.Equal(testNow))

	loaded, err := cp.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "14"}, loaded.CompletedSites)
	assert.Equal(t, 2, loaded.LastProcessedIndex)
}

func TestCheckpointStore_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().Get(gomock.Any(), domain.CollectionSystem, domain.MigrationProgressDocID, gomock.Any()).
		Return(errors.New("connection refused"))
	st.EXPECT().Set(gomock.Any(), domain.CollectionSystem, domain.MigrationProgressDocID, gomock.Any()).
		Return(errors.New("connection refused"))

	cp := migration.NewCheckpointStore(st, clock)

	_, err := cp.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFatalInput))

	err = cp.Save(context.Background(), domain.NewMigrationProgress(testNow))
	assert.True(t, errors.Is(err, domain.ErrFatalInput))
}

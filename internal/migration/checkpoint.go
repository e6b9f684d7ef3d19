package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
	"github.com/loganpetree/homesellphotography/internal/store"
)

// CheckpointStore persists the singleton migration checkpoint
//
//go:generate mockgen -source=checkpoint.go -destination=../mocks/checkpoint.go -package=mocks -mock_names=CheckpointStore=MockCheckpointStore
type CheckpointStore interface {
	// Load returns the stored checkpoint or a fresh one when none exists
	Load(ctx context.Context) (*domain.MigrationProgress, error)
	// Save stamps LastUpdateTime and writes the checkpoint
	Save(ctx context.Context, progress *domain.MigrationProgress) error
}

type checkpointStore struct {
	store store.Store
	clock adapter.Clock
}

// NewCheckpointStore stores the checkpoint at system/migration_progress
func NewCheckpointStore(st store.Store, clock adapter.Clock) CheckpointStore {
	return &checkpointStore{store: st, clock: clock}
}

func (c *checkpointStore) Load(ctx context.Context) (*domain.MigrationProgress, error) {
	var progress domain.MigrationProgress
	err := c.store.Get(ctx, domain.CollectionSystem, domain.MigrationProgressDocID, &progress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewMigrationProgress(c.clock.Now().UTC()), nil
		}
		return nil, fmt.Errorf("%w: failed to load checkpoint: %v", domain.ErrFatalInput, err)
	}

	if progress.CompletedSites == nil {
		progress.CompletedSites = []string{}
	}
	return &progress, nil
}

func (c *checkpointStore) Save(ctx context.Context, progress *domain.MigrationProgress) error {
	progress.LastUpdateTime = c.clock.Now().UTC()
	if err := c.store.Set(ctx, domain.CollectionSystem, domain.MigrationProgressDocID, progress); err != nil {
		return fmt.Errorf("%w: failed to save checkpoint: %v", domain.ErrFatalInput, err)
	}
	return nil
}

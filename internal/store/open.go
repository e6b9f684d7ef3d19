package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/loganpetree/homesellphotography/internal/config"
	"github.com/loganpetree/homesellphotography/internal/logger"
)

// Open builds the configured document store
func Open(ctx context.Context, cfg config.DocstoreConfig) (Store, error) {
	switch cfg.Provider {
	case config.DocstoreProviderFirestore:
		if cfg.Firestore.ProjectID == "" {
			return nil, fmt.Errorf("docstore.firestore.project_id is required")
		}
		return NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsJSON, cfg.Firestore.CredentialsFile)

	case config.DocstoreProviderPostgres:
		db, err := gorm.Open(pgdriver.Open(cfg.Database.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := ConfigureConnectionPool(db,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
			cfg.Database.ConnMaxIdleTime); err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			return nil, err
		}
		return NewPGStore(db), nil

	case config.DocstoreProviderMemory:
		logger.Warn("Using in-memory document store, nothing will be persisted",
			zap.String("provider", cfg.Provider))
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown docstore provider %q", cfg.Provider)
}

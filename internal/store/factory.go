package store

import (
	"fmt"

	"phonestore/internal/config"
	"phonestore/internal/database"
	"phonestore/internal/inventory"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
// The seed is read from cfg.SeedPath, falling back to DefaultPhones; file and
// sqlite stores only use it when their backing storage does not exist yet.
func NewStoreFromConfig(cfg config.StoreConfig, clock inventory.Clock, logger inventory.Logger) (inventory.Store, error) {
	if logger == nil {
		logger = inventory.NewNopLogger()
	}

	switch cfg.Type {
	case "memory":
		seed := SeedOrDefault(cfg.SeedPath, logger)
		logger.Debug("opening memory store", "phones", len(seed))
		return NewMemoryStore(seed, clock), nil
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file store")
		}
		logger.Debug("opening file store", "path", cfg.FilePath, "serialize_writes", cfg.SerializeWrites)
		return NewFileStore(cfg.FilePath, SeedOrDefault(cfg.SeedPath, logger), clock, cfg.SerializeWrites)
	case "sqlite":
		logger.Debug("opening sqlite store", "data_dir", cfg.DataDir)
		return database.NewSQLiteStoreInDir(cfg.DataDir, SeedOrDefault(cfg.SeedPath, logger), clock)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

package database

import (
	"fmt"
	"os"
	"path/filepath"

	"phonestore/internal/inventory"
)

// DatabaseFileName is the SQLite file created inside the configured data dir.
const DatabaseFileName = "phones.db"

// NewSQLiteStoreInDir opens the phones database inside dataDir, creating the
// directory when needed.
func NewSQLiteStoreInDir(dataDir string, seed []inventory.Phone, clock inventory.Clock) (*SQLiteStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data_dir required for sqlite store")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return NewSQLiteStore(filepath.Join(dataDir, DatabaseFileName), seed, clock)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"phonestore/internal/inventory"
)

// FileStore is a JSON-file implementation of the inventory.Store interface.
// Every operation reads the whole file, applies the change in memory and
// writes the whole collection back. The file is the entire database.
//
// Without serializeWrites there is no locking between concurrent calls: two
// overlapping mutations can each load the same state and the later save wins,
// silently dropping the other change.
type FileStore struct {
	path            string
	clock           inventory.Clock
	serializeWrites bool
	mu              sync.Mutex

	// afterLoad runs between load and save of a mutation. Tests use it to
	// interleave a concurrent writer.
	afterLoad func()
}

// NewFileStore opens the JSON file at path. If the file does not exist it is
// created holding seed.
func NewFileStore(path string, seed []inventory.Phone, clock inventory.Clock, serializeWrites bool) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store requires a file path")
	}
	f := &FileStore{path: path, clock: clock, serializeWrites: serializeWrites}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
		if err := f.save(seed); err != nil {
			return nil, fmt.Errorf("initializing store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking store file: %w", err)
	}

	return f, nil
}

// List reads and returns the whole collection.
func (f *FileStore) List(ctx context.Context) ([]inventory.Phone, error) {
	return f.load()
}

// Create appends a phone with a freshly assigned id.
func (f *FileStore) Create(ctx context.Context, p inventory.Phone) (inventory.Phone, error) {
	err := f.mutate(func(phones []inventory.Phone) ([]inventory.Phone, error) {
		p.ID = inventory.NextID(f.clock, idTaken(phones))
		return append(phones, p), nil
	})
	if err != nil {
		return inventory.Phone{}, err
	}
	return p, nil
}

// Update merges patch over the phone with the given id.
func (f *FileStore) Update(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error) {
	var updated inventory.Phone
	err := f.mutate(func(phones []inventory.Phone) ([]inventory.Phone, error) {
		i := indexOf(phones, id)
		if i < 0 {
			return nil, inventory.ErrNotFound
		}
		phones[i] = patch.Apply(phones[i])
		updated = phones[i]
		return phones, nil
	})
	if err != nil {
		return inventory.Phone{}, err
	}
	return updated, nil
}

// Delete removes the first phone with the given id.
func (f *FileStore) Delete(ctx context.Context, id int64) error {
	return f.mutate(func(phones []inventory.Phone) ([]inventory.Phone, error) {
		i := indexOf(phones, id)
		if i < 0 {
			return nil, inventory.ErrNotFound
		}
		return append(phones[:i], phones[i+1:]...), nil
	})
}

// Close is a no-op; the file is not held open between operations.
func (f *FileStore) Close() error {
	return nil
}

// mutate runs one read-modify-write cycle. Nothing is written when fn fails.
func (f *FileStore) mutate(fn func([]inventory.Phone) ([]inventory.Phone, error)) error {
	if f.serializeWrites {
		f.mu.Lock()
		defer f.mu.Unlock()
	}

	phones, err := f.load()
	if err != nil {
		return err
	}
	if f.afterLoad != nil {
		f.afterLoad()
	}

	phones, err = fn(phones)
	if err != nil {
		return err
	}
	return f.save(phones)
}

// load reads and parses the backing file.
func (f *FileStore) load() ([]inventory.Phone, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	phones, err := inventory.DecodePhones(data)
	if err != nil {
		return nil, fmt.Errorf("parsing store file %s: %w", f.path, err)
	}
	return phones, nil
}

// save writes the collection using atomic write (temp file + rename).
func (f *FileStore) save(phones []inventory.Phone) error {
	data, err := inventory.EncodePhones(phones)
	if err != nil {
		return fmt.Errorf("encoding phones: %w", err)
	}
	return writeFileAtomic(f.path, data)
}

// writeFileAtomic writes data next to path and renames it into place,
// so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileStore implements inventory.Store interface
var _ inventory.Store = (*FileStore)(nil)

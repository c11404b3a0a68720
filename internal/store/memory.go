package store

import (
	"context"
	"sync"

	"phonestore/internal/inventory"
)

// MemoryStore is an in-memory implementation of the inventory.Store interface.
// The collection lives for the lifetime of the store object; nothing is persisted.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	phones []inventory.Phone
	clock  inventory.Clock
	mu     sync.RWMutex
}

// NewMemoryStore creates a store holding a copy of seed.
func NewMemoryStore(seed []inventory.Phone, clock inventory.Clock) *MemoryStore {
	phones := make([]inventory.Phone, len(seed))
	copy(phones, seed)
	return &MemoryStore{phones: phones, clock: clock}
}

// List returns a copy of the collection in insertion order.
func (m *MemoryStore) List(ctx context.Context) ([]inventory.Phone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]inventory.Phone, len(m.phones))
	copy(out, m.phones)
	return out, nil
}

// Create assigns a new id and appends the phone.
func (m *MemoryStore) Create(ctx context.Context, p inventory.Phone) (inventory.Phone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = inventory.NextID(m.clock, idTaken(m.phones))
	m.phones = append(m.phones, p)
	return p, nil
}

// Update merges patch over the phone with the given id.
func (m *MemoryStore) Update(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexOf(m.phones, id)
	if i < 0 {
		return inventory.Phone{}, inventory.ErrNotFound
	}
	m.phones[i] = patch.Apply(m.phones[i])
	return m.phones[i], nil
}

// Delete removes the first phone with the given id.
func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexOf(m.phones, id)
	if i < 0 {
		return inventory.ErrNotFound
	}
	m.phones = append(m.phones[:i], m.phones[i+1:]...)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Compile-time check that MemoryStore implements inventory.Store interface
var _ inventory.Store = (*MemoryStore)(nil)

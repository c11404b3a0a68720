package inventory

import "context"

// Store owns the authoritative phone collection and its persistence.
// Implementations keep insertion order and guarantee id uniqueness.
type Store interface {
	// List returns the full collection in stored order.
	List(ctx context.Context) ([]Phone, error)

	// Create assigns a fresh id to p, appends it and returns the stored record.
	// Any id already present on p is ignored.
	Create(ctx context.Context, p Phone) (Phone, error)

	// Update merges patch over the record with the given id and returns the result.
	// Returns ErrNotFound if no record has that id.
	Update(ctx context.Context, id int64, patch Patch) (Phone, error)

	// Delete removes the first record with the given id.
	// Returns ErrNotFound if no record has that id.
	Delete(ctx context.Context, id int64) error

	// Close releases resources held by the store.
	Close() error
}

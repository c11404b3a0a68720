package client

import (
	"context"
	"sync"

	"phonestore/internal/inventory"
)

// API is the subset of APIClient the Inventory depends on.
type API interface {
	List(ctx context.Context) ([]inventory.Phone, error)
	Create(ctx context.Context, p inventory.Phone) (inventory.Phone, error)
	Update(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error)
	Delete(ctx context.Context, id int64) error
}

// Inventory is the client-side copy of the collection. It is fetched once and
// afterwards kept current from mutation responses, never by refetching.
// A failed mutation leaves the local copy unchanged.
type Inventory struct {
	api API

	mu     sync.RWMutex
	phones []inventory.Phone
	loaded bool
}

// NewInventory creates an empty, unloaded Inventory over api.
func NewInventory(api API) *Inventory {
	return &Inventory{api: api}
}

// Load fetches the collection unless it was already fetched.
func (inv *Inventory) Load(ctx context.Context) error {
	inv.mu.RLock()
	loaded := inv.loaded
	inv.mu.RUnlock()
	if loaded {
		return nil
	}
	return inv.Refresh(ctx)
}

// Refresh replaces the local copy with a fresh fetch.
func (inv *Inventory) Refresh(ctx context.Context) error {
	phones, err := inv.api.List(ctx)
	if err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.phones = phones
	inv.loaded = true
	return nil
}

// Phones returns a copy of the local collection.
func (inv *Inventory) Phones() []inventory.Phone {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]inventory.Phone, len(inv.phones))
	copy(out, inv.phones)
	return out
}

// Find returns the local record with the given id.
func (inv *Inventory) Find(id int64) (inventory.Phone, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, p := range inv.phones {
		if p.ID == id {
			return p, true
		}
	}
	return inventory.Phone{}, false
}

// Add creates p on the server and appends the server's record locally.
func (inv *Inventory) Add(ctx context.Context, p inventory.Phone) (inventory.Phone, error) {
	created, err := inv.api.Create(ctx, p)
	if err != nil {
		return inventory.Phone{}, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.phones = append(inv.phones, created)
	return created, nil
}

// Edit updates the phone on the server and replaces the local element with
// the server's merged record.
func (inv *Inventory) Edit(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error) {
	updated, err := inv.api.Update(ctx, id, patch)
	if err != nil {
		return inventory.Phone{}, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i := range inv.phones {
		if inv.phones[i].ID == updated.ID {
			inv.phones[i] = updated
			break
		}
	}
	return updated, nil
}

// Remove deletes the phone on the server and drops it locally.
func (inv *Inventory) Remove(ctx context.Context, id int64) error {
	if err := inv.api.Delete(ctx, id); err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	for i := range inv.phones {
		if inv.phones[i].ID == id {
			inv.phones = append(inv.phones[:i], inv.phones[i+1:]...)
			break
		}
	}
	return nil
}

var _ API = (*APIClient)(nil)

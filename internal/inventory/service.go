package inventory

import (
	"context"
	"errors"
	"fmt"
)

// Service is the orchestration layer between the HTTP handlers and the Store.
// It owns no state of its own; the store is the sole owner of the collection.
type Service struct {
	store  Store
	logger Logger
}

// NewService creates a Service over the given store.
// A nil logger is replaced with a NopLogger.
func NewService(store Store, logger Logger) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Service{store: store, logger: logger}
}

// List returns every phone in stored order.
func (s *Service) List(ctx context.Context) ([]Phone, error) {
	phones, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("listing phones failed", "error", err)
		return nil, fmt.Errorf("listing phones: %w", err)
	}
	if phones == nil {
		phones = []Phone{}
	}
	return phones, nil
}

// Create stores a new phone and returns it with its assigned id.
func (s *Service) Create(ctx context.Context, p Phone) (Phone, error) {
	created, err := s.store.Create(ctx, p)
	if err != nil {
		s.logger.Error("creating phone failed", "error", err)
		return Phone{}, fmt.Errorf("creating phone: %w", err)
	}
	s.logger.Info("phone created", "id", created.ID, "brand", created.Brand, "model", created.Model)
	return created, nil
}

// Update applies a partial update to the phone with the given id.
// Returns an error wrapping ErrNotFound if the id is unknown.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Phone, error) {
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("update of unknown phone", "id", id)
		} else {
			s.logger.Error("updating phone failed", "id", id, "error", err)
		}
		return Phone{}, fmt.Errorf("updating phone %d: %w", id, err)
	}
	s.logger.Info("phone updated", "id", id)
	return updated, nil
}

// Delete removes the phone with the given id.
// Returns an error wrapping ErrNotFound if the id is unknown.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("delete of unknown phone", "id", id)
		} else {
			s.logger.Error("deleting phone failed", "id", id, "error", err)
		}
		return fmt.Errorf("deleting phone %d: %w", id, err)
	}
	s.logger.Info("phone deleted", "id", id)
	return nil
}

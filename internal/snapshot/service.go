// Package snapshot keeps point-in-time copies of the phone inventory in a
// vault, optionally encrypted.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"phonestore/internal/inventory"
)

// TimestampFormat names snapshots so lexical order is chronological.
// Milliseconds keep two snapshots taken in the same second apart.
const TimestampFormat = "20060102T150405.000Z"

// ErrSnapshotExists is returned by Create when the vault already holds a
// snapshot with the name it would write.
var ErrSnapshotExists = errors.New("snapshot already exists")

// Source supplies the collection to snapshot. *client.APIClient satisfies it.
type Source interface {
	List(ctx context.Context) ([]inventory.Phone, error)
}

// Info describes a stored snapshot.
type Info struct {
	Name   string
	Phones int
	Size   int64
}

// Service creates, lists and restores snapshots for one instance.
type Service struct {
	source     Source
	vault      Vault
	encryptor  Encryptor
	instanceID string
	clock      inventory.Clock
	logger     inventory.Logger
}

// NewService creates a snapshot Service. A nil logger is replaced with a NopLogger.
func NewService(source Source, vault Vault, encryptor Encryptor, instanceID string, clock inventory.Clock, logger inventory.Logger) *Service {
	if logger == nil {
		logger = inventory.NewNopLogger()
	}
	return &Service{
		source:     source,
		vault:      vault,
		encryptor:  encryptor,
		instanceID: instanceID,
		clock:      clock,
		logger:     logger,
	}
}

// Create fetches the collection, seals it and stores it in the vault under
// "<instance_id>/<timestamp>.json" plus the encryptor's extension.
// An existing snapshot is never overwritten.
func (s *Service) Create(ctx context.Context) (Info, error) {
	if !s.encryptor.IsConfigured() {
		return Info{}, fmt.Errorf("encryption keys missing; run `phonestore snapshot keys` first")
	}
	if err := s.vault.ValidateSetup(ctx); err != nil {
		return Info{}, fmt.Errorf("vault not ready: %w", err)
	}

	phones, err := s.source.List(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("fetching phones: %w", err)
	}

	payload, err := s.encryptor.Seal(phones)
	if err != nil {
		return Info{}, fmt.Errorf("sealing snapshot: %w", err)
	}

	name := s.instanceID + "/" + s.clock.Now().UTC().Format(TimestampFormat) + ".json" + s.encryptor.Extension()
	existing, err := s.vault.List(ctx, name)
	if err != nil {
		return Info{}, fmt.Errorf("checking for %s: %w", name, err)
	}
	if slices.Contains(existing, name) {
		return Info{}, fmt.Errorf("%w: %s", ErrSnapshotExists, name)
	}

	size := int64(len(payload))
	if err := s.vault.Put(ctx, name, bytes.NewReader(payload), size); err != nil {
		return Info{}, fmt.Errorf("storing snapshot %s: %w", name, err)
	}

	s.logger.Info("snapshot created", "name", name, "phones", len(phones), "bytes", size)
	return Info{Name: name, Phones: len(phones), Size: size}, nil
}

// List returns this instance's snapshot names, oldest first.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.vault.List(ctx, s.instanceID+"/")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return names, nil
}

// Latest returns the newest snapshot name, or ErrSnapshotNotFound.
func (s *Service) Latest(ctx context.Context) (string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no snapshots for instance %s", ErrSnapshotNotFound, s.instanceID)
	}
	return names[len(names)-1], nil
}

// ResolveName qualifies a bare snapshot file name with this instance's prefix.
func (s *Service) ResolveName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return s.instanceID + "/" + name
}

// Restore reads the named snapshot and opens it with opener.
func (s *Service) Restore(ctx context.Context, name string, opener Opener) ([]inventory.Phone, error) {
	name = s.ResolveName(name)

	var payload bytes.Buffer
	if err := s.vault.Get(ctx, name, &payload); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	phones, err := opener.Open(payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", name, err)
	}

	s.logger.Info("snapshot restored", "name", name, "phones", len(phones))
	return phones, nil
}

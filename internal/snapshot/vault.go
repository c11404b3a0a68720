package snapshot

import (
	"context"
	"errors"
	"io"

	"phonestore/internal/inventory"
)

// ErrSnapshotNotFound is returned by a Vault when no object has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Vault provides an interface for snapshot storage backends.
// Objects are addressed by slash-separated names such as
// "<instance_id>/20240115T103000.000Z.json".
type Vault interface {
	// Put stores the object under name, replacing any previous one.
	// size is the number of bytes that will be read from r.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Get writes the object stored under name to w.
	// Returns an error wrapping ErrSnapshotNotFound if there is none.
	Get(ctx context.Context, name string, w io.Writer) error

	// List returns the names starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}

// Encryptor turns a phone list into a stored snapshot payload and back.
// Sealing uses the public key only, so creating snapshots never prompts.
// Opening requires Unlock with the passphrase protecting the private key.
type Encryptor interface {
	// Setup performs one-time key generation. Called by `phonestore snapshot keys`.
	Setup(passphrase string) error

	// Seal encodes phones and encrypts them into a snapshot payload.
	Seal(phones []inventory.Phone) ([]byte, error)

	// Unlock decrypts the private key using the passphrase and returns an
	// Opener. Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (Opener, error)

	// IsConfigured returns true if the encryptor can be used without Setup.
	IsConfigured() bool

	// Extension is appended to snapshot names ("" when payloads are plain JSON).
	Extension() string

	// NeedsPassphrase reports whether Unlock uses its passphrase argument.
	NeedsPassphrase() bool
}

// Opener holds an unlocked private key for the duration of a restore.
type Opener interface {
	// Open decrypts a payload made by Seal and decodes its phones.
	Open(payload []byte) ([]inventory.Phone, error)
}

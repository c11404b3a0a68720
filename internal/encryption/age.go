package encryption

import (
	"bytes"
	"fmt"

	"filippo.io/age"

	"phonestore/internal/config"
	"phonestore/internal/inventory"
	"phonestore/internal/snapshot"
)

// AgeExtension marks snapshot names whose payload is age-encrypted.
const AgeExtension = ".age"

// AgeEncryptor seals snapshots as armored age files addressed to the
// instance's X25519 public key.
type AgeEncryptor struct {
	keys keyFiles
}

var _ snapshot.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor for the key paths in cfg.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{keys: keyFiles{public: cfg.PublicKeyPath, private: cfg.PrivateKeyPath}}
}

// Setup generates the key pair. An empty passphrase is rejected.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	return e.keys.write(id, passphrase)
}

// Seal encodes phones and encrypts them to the public key.
func (e *AgeEncryptor) Seal(phones []inventory.Phone) ([]byte, error) {
	to, err := e.keys.recipient()
	if err != nil {
		return nil, err
	}
	plain, err := inventory.EncodePhones(phones)
	if err != nil {
		return nil, fmt.Errorf("encoding phones: %w", err)
	}

	var payload bytes.Buffer
	if err := encryptArmored(&payload, plain, to); err != nil {
		return nil, fmt.Errorf("encrypting snapshot: %w", err)
	}
	return payload.Bytes(), nil
}

// Unlock opens the private key with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (snapshot.Opener, error) {
	id, err := e.keys.identity(passphrase)
	if err != nil {
		return nil, err
	}
	return ageOpener{id: id}, nil
}

func (e *AgeEncryptor) IsConfigured() bool    { return e.keys.exist() }
func (e *AgeEncryptor) Extension() string     { return AgeExtension }
func (e *AgeEncryptor) NeedsPassphrase() bool { return true }

type ageOpener struct {
	id *age.X25519Identity
}

func (o ageOpener) Open(payload []byte) ([]inventory.Phone, error) {
	plain, err := decryptArmored(bytes.NewReader(payload), o.id)
	if err != nil {
		return nil, fmt.Errorf("decrypting snapshot: %w", err)
	}
	return inventory.DecodePhones(plain)
}

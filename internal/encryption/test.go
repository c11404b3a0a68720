package encryption

import (
	"bytes"
	"fmt"

	"phonestore/internal/inventory"
	"phonestore/internal/snapshot"
)

// testHeader prefixes payloads sealed by TestEncryptor so they differ from
// plain JSON while staying deterministic.
var testHeader = []byte("PSENC\x00\x00\x00")

// TestEncryptor is a deterministic encryptor for tests. Unlock accepts only
// the passphrase given to Setup, or any passphrase if Setup was never called.
type TestEncryptor struct {
	passphrase string
}

var _ snapshot.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Seal(phones []inventory.Phone) ([]byte, error) {
	plain, err := inventory.EncodePhones(phones)
	if err != nil {
		return nil, err
	}
	return append(bytes.Clone(testHeader), plain...), nil
}

func (e *TestEncryptor) Unlock(passphrase string) (snapshot.Opener, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, fmt.Errorf("wrong passphrase")
	}
	return testOpener{}, nil
}

func (e *TestEncryptor) IsConfigured() bool    { return true }
func (e *TestEncryptor) Extension() string     { return ".test" }
func (e *TestEncryptor) NeedsPassphrase() bool { return true }

type testOpener struct{}

func (testOpener) Open(payload []byte) ([]inventory.Phone, error) {
	plain, ok := bytes.CutPrefix(payload, testHeader)
	if !ok {
		return nil, fmt.Errorf("invalid test encryption header")
	}
	return inventory.DecodePhones(plain)
}

package encryption

import (
	"fmt"

	"phonestore/internal/inventory"
	"phonestore/internal/snapshot"
)

// NoneEncryptor stores snapshot payloads as plain JSON.
type NoneEncryptor struct{}

var _ snapshot.Encryptor = NoneEncryptor{}

func (NoneEncryptor) Setup(string) error {
	return fmt.Errorf("encryption type \"none\" has no keys to set up")
}

func (NoneEncryptor) Seal(phones []inventory.Phone) ([]byte, error) {
	return inventory.EncodePhones(phones)
}

func (NoneEncryptor) Unlock(string) (snapshot.Opener, error) { return plainOpener{}, nil }

func (NoneEncryptor) IsConfigured() bool    { return true }
func (NoneEncryptor) Extension() string     { return "" }
func (NoneEncryptor) NeedsPassphrase() bool { return false }

type plainOpener struct{}

func (plainOpener) Open(payload []byte) ([]inventory.Phone, error) {
	return inventory.DecodePhones(payload)
}

package encryption

import (
	"fmt"
	"strings"

	"phonestore/internal/config"
	"phonestore/internal/snapshot"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (snapshot.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return NoneEncryptor{}, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}

// DecryptorFor returns the encryptor able to open a snapshot with the given
// name, judged by its extension. cfg supplies the key paths for age.
func DecryptorFor(name string, cfg config.EncryptionConfig) (snapshot.Encryptor, error) {
	switch {
	case strings.HasSuffix(name, AgeExtension):
		return NewAgeEncryptor(cfg), nil
	case strings.HasSuffix(name, ".json"):
		return NoneEncryptor{}, nil
	default:
		return nil, fmt.Errorf("cannot tell how snapshot %q is encrypted", name)
	}
}

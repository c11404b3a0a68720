package testutil

import (
	"path/filepath"

	"phonestore/internal/config"
)

// AgeConfig returns an age EncryptionConfig with key paths under dir.
func AgeConfig(dir string) config.EncryptionConfig {
	return config.EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(dir, "keys", "phonestore.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "phonestore.key"),
	}
}

package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - PHONESTORE_CONFIG_PATH: config file location (default: ~/.config/phonestore.toml)
//   - PHONESTORE_HOME: base directory for phonestore data (default: ~/.local/share/phonestore)
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome("PHONESTORE_CONFIG_PATH", ".config", "phonestore.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome("PHONESTORE_HOME", ".local", "share", "phonestore")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the value of env when set, otherwise the path built from
// the user's home directory and elem.
func envOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values applied by ApplyDefaults when a config leaves them unset.
const (
	DefaultListenAddr     = ":3000"
	DefaultAPIURL         = "http://localhost:3000"
	DefaultPageSize       = 10
	DefaultTimeoutSeconds = 10
)

// Config represents the main configuration for phonestore.
type Config struct {
	InstanceID string         `toml:"instance_id"`
	BaseDir    string         `toml:"base_dir"`
	LogDir     string         `toml:"log_dir"`
	Server     ServerConfig   `toml:"server"`
	Store      StoreConfig    `toml:"store"`
	Client     ClientConfig   `toml:"client"`
	Snapshot   SnapshotConfig `toml:"snapshot"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// StoreConfig represents configuration for the phone store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type     string `toml:"type"`                // "memory", "file" or "sqlite"
	SeedPath string `toml:"seed_path,omitempty"` // initial collection; built-in defaults when empty or unreadable

	// File-specific fields (only used when Type == "file")
	FilePath        string `toml:"file_path,omitempty"`
	SerializeWrites bool   `toml:"serialize_writes"` // lock each read-modify-write cycle

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`
}

// ClientConfig holds settings for the operator client commands.
type ClientConfig struct {
	APIURL         string `toml:"api_url"`
	PageSize       int    `toml:"page_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SnapshotConfig groups the vault and encryption used for inventory snapshots.
type SnapshotConfig struct {
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// VaultConfig represents configuration for a snapshot vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "filesystem" or "s3"

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"` // for S3-compatible stores such as MinIO
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for encrypted snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default) or "age"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config with the provided values and default paths.
// The store defaults to the JSON file backend under baseDir.
func NewConfig(instanceID, baseDir string) *Config {
	cfg := &Config{
		InstanceID: instanceID,
		BaseDir:    baseDir,
		Store: StoreConfig{
			Type: "file",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default.
// Paths are derived from BaseDir, so BaseDir should be set first.
func (c *Config) ApplyDefaults() {
	if c.LogDir == "" && c.BaseDir != "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	if c.Store.FilePath == "" && c.BaseDir != "" {
		c.Store.FilePath = filepath.Join(c.BaseDir, "phones.json")
	}
	if c.Store.DataDir == "" && c.BaseDir != "" {
		c.Store.DataDir = filepath.Join(c.BaseDir, "db")
	}
	if c.Client.APIURL == "" {
		c.Client.APIURL = DefaultAPIURL
	}
	if c.Client.PageSize <= 0 {
		c.Client.PageSize = DefaultPageSize
	}
	if c.Client.TimeoutSeconds <= 0 {
		c.Client.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Snapshot.Vault.Type == "" {
		c.Snapshot.Vault.Type = "filesystem"
	}
	if c.Snapshot.Vault.FSRoot == "" && c.BaseDir != "" {
		c.Snapshot.Vault.FSRoot = filepath.Join(c.BaseDir, "snapshots")
	}
	if c.Snapshot.Encryption.Type == "" {
		c.Snapshot.Encryption.Type = "none"
	}
	if c.Snapshot.Encryption.PublicKeyPath == "" && c.BaseDir != "" {
		c.Snapshot.Encryption.PublicKeyPath = filepath.Join(c.BaseDir, "keys", "phonestore.pub")
	}
	if c.Snapshot.Encryption.PrivateKeyPath == "" && c.BaseDir != "" {
		c.Snapshot.Encryption.PrivateKeyPath = filepath.Join(c.BaseDir, "keys", "phonestore.key")
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and applies defaults.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

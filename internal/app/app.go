package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"phonestore/internal/client"
	"phonestore/internal/config"
	"phonestore/internal/encryption"
	"phonestore/internal/httpapi"
	"phonestore/internal/inventory"
	"phonestore/internal/snapshot"
	"phonestore/internal/store"
	"phonestore/internal/vault"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// App is the application layer between the CLI and the domain packages.
// It constructs dependencies from config, tags logs with the running
// operation, and releases resources on Close.
type App struct {
	cfg     *config.Config
	clock   inventory.Clock
	op      *Operation
	logger  inventory.Logger
	logFile *os.File
}

// NewApp creates an App from the given config.
// operation identifies the CLI command being run (e.g. "serve", "phones.add").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	clock := inventory.RealClock{}
	op := NewOperation(operation, clock)

	l, logFile, err := newLogger(cfg.LogDir, op.Label())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &App{
		cfg:     cfg,
		clock:   clock,
		op:      op,
		logger:  &slogAdapter{l: l},
		logFile: logFile,
	}, nil
}

// newAppWithLogger builds an App that logs to l and owns no log file.
func newAppWithLogger(cfg *config.Config, operation string, clock inventory.Clock, l *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		clock:  clock,
		op:     NewOperation(operation, clock),
		logger: &slogAdapter{l: l},
	}
}

// Config returns the config the App was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the App's logger.
func (a *App) Logger() inventory.Logger {
	return a.logger
}

// Serve runs the HTTP API on ln until ctx is cancelled, then shuts down
// gracefully. storeType overrides the configured store backend when non-empty.
func (a *App) Serve(ctx context.Context, ln net.Listener, storeType string) error {
	storeCfg := a.cfg.Store
	if storeType != "" {
		storeCfg.Type = storeType
	}

	st, err := store.NewStoreFromConfig(storeCfg, a.clock, a.logger)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer st.Close()

	svc := inventory.NewService(st, a.logger)
	srv := &http.Server{
		Handler:           httpapi.NewServer(svc, a.logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	a.logger.Info("listening", "addr", ln.Addr().String(), "store", storeCfg.Type)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// APIClient returns a client for the configured API URL.
func (a *App) APIClient() *client.APIClient {
	timeout := time.Duration(a.cfg.Client.TimeoutSeconds) * time.Second
	return client.NewAPIClient(a.cfg.Client.APIURL, timeout)
}

// Inventory returns an unloaded client-side inventory over the API.
func (a *App) Inventory() *client.Inventory {
	return client.NewInventory(a.APIClient())
}

// Snapshots builds the snapshot service from the configured vault and encryptor.
func (a *App) Snapshots(ctx context.Context) (*snapshot.Service, error) {
	v, err := vault.NewVaultFromConfig(ctx, a.cfg.Snapshot.Vault)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Snapshot.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	return snapshot.NewService(a.APIClient(), v, enc, a.cfg.InstanceID, a.clock, a.logger), nil
}

// SetupKeys generates the snapshot key pair protected by passphrase.
func (a *App) SetupKeys(passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Snapshot.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up keys: %w", err)
	}
	a.logger.Info("snapshot keys created", "public_key", a.cfg.Snapshot.Encryption.PublicKeyPath)
	return nil
}

// ResolveSnapshot qualifies name with the instance prefix, or picks the
// newest snapshot when name is empty.
func (a *App) ResolveSnapshot(ctx context.Context, svc *snapshot.Service, name string) (string, error) {
	if name == "" {
		return svc.Latest(ctx)
	}
	return svc.ResolveName(name), nil
}

// NeedsPassphrase reports whether restoring name requires a passphrase.
func (a *App) NeedsPassphrase(name string) (bool, error) {
	dec, err := encryption.DecryptorFor(name, a.cfg.Snapshot.Encryption)
	if err != nil {
		return false, err
	}
	return dec.NeedsPassphrase(), nil
}

// RestoreSnapshot decrypts the named snapshot and writes it to outPath as a
// phones file. An empty outPath means the configured file store path.
// It returns the number of phones written.
func (a *App) RestoreSnapshot(ctx context.Context, svc *snapshot.Service, name, passphrase, outPath string) (int, error) {
	if outPath == "" {
		outPath = a.cfg.Store.FilePath
	}
	if outPath == "" {
		return 0, fmt.Errorf("no output path: pass --out or set store.file_path")
	}

	dec, err := encryption.DecryptorFor(name, a.cfg.Snapshot.Encryption)
	if err != nil {
		return 0, err
	}
	opener, err := dec.Unlock(passphrase)
	if err != nil {
		return 0, fmt.Errorf("unlocking snapshot key: %w", err)
	}

	phones, err := svc.Restore(ctx, name, opener)
	if err != nil {
		return 0, err
	}
	if err := store.WritePhonesFile(outPath, phones); err != nil {
		return 0, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return len(phones), nil
}

// Fail marks the running operation as failed; Close logs the status.
func (a *App) Fail() {
	a.op.Fail()
}

// Close logs the end of the operation and closes the log file.
func (a *App) Close() error {
	a.logger.Debug("operation finished", "status", a.op.Status, "duration", a.op.Elapsed(a.clock).Truncate(time.Millisecond))
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

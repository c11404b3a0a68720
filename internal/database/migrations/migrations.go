// Package migrations owns the phones schema and its embedded migration files.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var files embed.FS

// Result describes the schema change made by Apply.
type Result struct {
	From uint // 0 for a database that was never migrated
	To   uint
}

// Created reports whether Apply built the schema from nothing. Only then does
// the phones table receive its seed rows, so emptying the inventory sticks
// across restarts.
func (r Result) Created() bool { return r.From == 0 }

// Latest returns the newest schema version shipped in the binary.
func Latest() (uint, error) {
	src, err := iofs.New(files, "files")
	if err != nil {
		return 0, fmt.Errorf("reading migration files: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("no migration files: %w", err)
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil
		}
		v = next
	}
}

// Apply brings db to the Latest schema. A dirty database, or one migrated by
// a newer binary, is refused rather than touched.
func Apply(db *sql.DB) (Result, error) {
	latest, err := Latest()
	if err != nil {
		return Result{}, err
	}

	m, err := open(db)
	if err != nil {
		return Result{}, err
	}

	current, err := appliedVersion(m)
	if err != nil {
		return Result{}, err
	}
	if current > latest {
		return Result{From: current, To: current},
			fmt.Errorf("phones schema is at version %d but this binary only knows %d", current, latest)
	}
	if current < latest {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return Result{From: current}, fmt.Errorf("migrating phones schema from version %d: %w", current, err)
		}
	}
	return Result{From: current, To: latest}, nil
}

// appliedVersion returns the recorded schema version, 0 when there is none.
func appliedVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("phones schema is dirty at version %d: a previous migration failed", v)
	}
	return v, nil
}

// open wraps db for golang-migrate. The returned Migrate is never closed:
// closing it would close db, which the caller owns.
func open(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "files")
	if err != nil {
		return nil, fmt.Errorf("reading migration files: %w", err)
	}
	drv, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("wrapping database for migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("preparing migrations: %w", err)
	}
	return m, nil
}

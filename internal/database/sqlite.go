package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"phonestore/internal/database/migrations"
	"phonestore/internal/inventory"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the inventory.Store interface using SQLite.
// Insertion order is kept by the autoincrement seq column.
type SQLiteStore struct {
	db    *sql.DB
	clock inventory.Clock
}

// NewSQLiteStore opens (or creates) the database at path and migrates it to
// the latest schema. seed is inserted only when the migration created the
// schema. path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string, seed []inventory.Phone, clock inventory.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	res, err := migrations.Apply(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing %s: %w", path, err)
	}

	s := &SQLiteStore{db: db, clock: clock}
	if res.Created() {
		if err := s.insertAll(context.Background(), seed); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding database: %w", err)
		}
	}
	return s, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// The pool is limited to one connection so ":memory:" databases stay a single database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

const phoneColumns = "id, brand, model, storage_capacity, ram, sale_price, quantity, color"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhone(r rowScanner) (inventory.Phone, error) {
	var p inventory.Phone
	var price, qty string
	err := r.Scan(&p.ID, &p.Brand, &p.Model, &p.StorageCapacity, &p.RAM, &price, &qty, &p.Color)
	p.SalePrice = inventory.NumericText(price)
	p.Quantity = inventory.NumericText(qty)
	return p, err
}

// List returns every phone ordered by insertion.
func (s *SQLiteStore) List(ctx context.Context) ([]inventory.Phone, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+phoneColumns+" FROM phones ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing phones: %w", err)
	}
	defer rows.Close()

	phones := []inventory.Phone{}
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing phones: %w", err)
	}
	return phones, nil
}

// Create assigns a fresh id and inserts the phone in a single transaction.
func (s *SQLiteStore) Create(ctx context.Context, p inventory.Phone) (inventory.Phone, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Phone{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var lookupErr error
	exists := func(id int64) bool {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM phones WHERE id = ?", id).Scan(&n); err != nil {
			lookupErr = err
			return false
		}
		return n > 0
	}
	p.ID = inventory.NextID(s.clock, exists)
	if lookupErr != nil {
		return inventory.Phone{}, fmt.Errorf("checking id availability: %w", lookupErr)
	}

	if err := insertPhone(ctx, tx, p); err != nil {
		return inventory.Phone{}, err
	}
	if err := tx.Commit(); err != nil {
		return inventory.Phone{}, fmt.Errorf("committing transaction: %w", err)
	}
	return p, nil
}

// Update merges patch over the stored row with the given id.
func (s *SQLiteStore) Update(ctx context.Context, id int64, patch inventory.Patch) (inventory.Phone, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Phone{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanPhone(tx.QueryRowContext(ctx, "SELECT "+phoneColumns+" FROM phones WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.Phone{}, inventory.ErrNotFound
		}
		return inventory.Phone{}, fmt.Errorf("finding phone: %w", err)
	}

	updated := patch.Apply(current)
	_, err = tx.ExecContext(ctx,
		`UPDATE phones SET brand = ?, model = ?, storage_capacity = ?, ram = ?, sale_price = ?, quantity = ?, color = ?
		 WHERE id = ?`,
		updated.Brand, updated.Model, updated.StorageCapacity, updated.RAM,
		updated.SalePrice.String(), updated.Quantity.String(), updated.Color, id)
	if err != nil {
		return inventory.Phone{}, fmt.Errorf("updating phone: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return inventory.Phone{}, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

// Delete removes the row with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM phones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting phone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting phone: %w", err)
	}
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// insertAll writes phones in order within one transaction, keeping their ids.
// Seed records sharing an id with an earlier one are skipped.
func (s *SQLiteStore) insertAll(ctx context.Context, phones []inventory.Phone) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range phones {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO phones ("+phoneColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			p.ID, p.Brand, p.Model, p.StorageCapacity, p.RAM, p.SalePrice.String(), p.Quantity.String(), p.Color)
		if err != nil {
			return fmt.Errorf("inserting phone %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func insertPhone(ctx context.Context, tx *sql.Tx, p inventory.Phone) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO phones ("+phoneColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Brand, p.Model, p.StorageCapacity, p.RAM, p.SalePrice.String(), p.Quantity.String(), p.Color)
	if err != nil {
		return fmt.Errorf("inserting phone: %w", err)
	}
	return nil
}

// Compile-time check that SQLiteStore implements inventory.Store interface
var _ inventory.Store = (*SQLiteStore)(nil)

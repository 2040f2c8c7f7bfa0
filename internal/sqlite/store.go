// Package sqlite implements types.Store on a SQLite database file using the
// pure-Go modernc.org/sqlite driver. Each Save builds a complete database in
// a temp file and renames it over the target, so a reader sees either the
// old document or the new one.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

const driverName = "sqlite"

// Store reads and writes the inventory document as rows of a SQLite table.
type Store struct {
	path string
}

// New returns a Store for the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Location returns the database path.
func (s *Store) Location() string {
	return s.path
}

// Load reads every row in position order. A missing file yields
// ErrNotFound. A file that is not a SQLite database, lacks the items table,
// or holds rows that violate the item invariants yields ErrCorruptFormat.
func (s *Store) Load(ctx context.Context) (types.Document, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Document{}, fmt.Errorf("%w: %s", types.ErrNotFound, s.path)
		}
		return types.Document{}, fmt.Errorf("stat %s: %w", s.path, err)
	}

	db, err := sql.Open(driverName, s.path)
	if err != nil {
		return types.Document{}, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectItems)
	if err != nil {
		if ctx.Err() != nil {
			return types.Document{}, ctx.Err()
		}
		return types.Document{}, fmt.Errorf("%w: %s: %v", types.ErrCorruptFormat, s.path, err)
	}
	defer rows.Close()

	var items []types.Item
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			item     types.Item
			quantity int64
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &quantity); err != nil {
			return types.Document{}, fmt.Errorf("%w: %s: %v", types.ErrCorruptFormat, s.path, err)
		}
		item.Quantity = int(quantity)
		if item.ID == "" || seen[item.ID] || item.Price < 0 || item.Quantity < 0 {
			return types.Document{}, fmt.Errorf("%w: %s: invalid row for item %q", types.ErrCorruptFormat, s.path, item.ID)
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return types.Document{}, fmt.Errorf("%w: %s: %v", types.ErrCorruptFormat, s.path, err)
	}
	return types.Document{Items: items}, nil
}

// Save writes doc into a fresh database beside the target and renames it
// into place, replacing whatever was there, corrupt or not.
func (s *Store) Save(ctx context.Context, doc types.Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.db")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := writeDatabase(ctx, tmpName, doc); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeDatabase creates the schema in the (empty) database at path and
// inserts doc in one transaction. The connection is closed before return so
// the file is complete on disk.
func writeDatabase(ctx context.Context, path string, doc types.Document) (err error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, createItems); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertItem)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range doc.Items {
		if _, err := stmt.ExecContext(ctx, i, item.ID, item.Name, item.Price, item.Quantity); err != nil {
			return fmt.Errorf("inserting item %q: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

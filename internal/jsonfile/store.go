// Package jsonfile implements types.Store as a single JSON document on disk.
// Writes are atomic: the document is written to a temp file in the same
// directory, fsynced, and renamed over the target.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

const indent = "    "

// Store reads and writes the inventory document at a fixed path.
type Store struct {
	path string
}

// New returns a Store for the document at path. Nothing is touched on disk
// until Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Location returns the document path.
func (s *Store) Location() string {
	return s.path
}

// Load reads and decodes the document. A missing file yields ErrNotFound
// and an undecodable one ErrCorruptFormat.
func (s *Store) Load(ctx context.Context) (types.Document, error) {
	if err := ctx.Err(); err != nil {
		return types.Document{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Document{}, fmt.Errorf("%w: %s", types.ErrNotFound, s.path)
		}
		return types.Document{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if errors.Is(err, types.ErrCorruptFormat) {
			return types.Document{}, err
		}
		return types.Document{}, fmt.Errorf("%w: %v", types.ErrCorruptFormat, err)
	}
	return doc, nil
}

// Save encodes doc and atomically replaces the file at the store's path,
// creating the parent directory if needed.
func (s *Store) Save(ctx context.Context, doc types.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return writeAtomic(s.path, data)
}

// writeAtomic writes data using the temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

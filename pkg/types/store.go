package types

import "context"

// Store reads and writes the persisted Document at a fixed location.
type Store interface {
	// Load returns the stored document. It returns an error wrapping
	// ErrNotFound when nothing has been stored yet and one wrapping
	// ErrCorruptFormat when the stored data cannot be parsed.
	Load(ctx context.Context) (Document, error)

	// Save replaces the stored document. A subsequent Load observes either
	// the previous document or doc, never a partial write.
	Save(ctx context.Context, doc Document) error

	// Location names the backing file for messages and logs.
	Location() string
}

package catalog

import (
	"context"
	"errors"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// memStore is an in-memory types.Store for catalog tests.
type memStore struct {
	doc     *types.Document
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (types.Document, error) {
	if m.loadErr != nil {
		return types.Document{}, m.loadErr
	}
	if m.doc == nil {
		return types.Document{}, types.ErrNotFound
	}
	return *m.doc, nil
}

func (m *memStore) Save(ctx context.Context, doc types.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.doc = &doc
	return nil
}

func (m *memStore) Location() string { return "memory" }

var errDiskFull = errors.New("disk full")

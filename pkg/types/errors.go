package types

import "errors"

// Catalog operation errors. Callers match them with errors.Is; every
// operation wraps them with the offending id or input.
var (
	ErrInvalidID    = errors.New("invalid item ID")
	ErrInvalidValue = errors.New("invalid value")
	ErrDuplicateID  = errors.New("item already exists")
	ErrNotFound     = errors.New("not found")
)

// Persistence errors. ErrNotFound is also returned by Store.Load when no
// document exists at the store's location.
var (
	ErrCorruptFormat = errors.New("corrupt document format")
)

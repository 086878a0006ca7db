package store

import "errors"

var (
	// ErrNotFound keeps store-level 404s consistent across stores.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownItem reports an association referencing an item id that is not
	// in the catalog. The caller's input is at fault, not the store.
	ErrUnknownItem = errors.New("unknown item id")

	// ErrNoItems reports a point submitted without any accepted items.
	ErrNoItems = errors.New("at least one item id is required")
)

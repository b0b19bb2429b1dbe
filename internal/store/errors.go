package store

import "errors"

var (
	// ErrNilSnapshot is returned when saving a nil snapshot.
	ErrNilSnapshot = errors.New("store: nil snapshot")

	// ErrNotFound is returned when no snapshot has the requested id.
	ErrNotFound = errors.New("store: snapshot not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store: closed")
)

package models

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write matched no row because the row changed underneath it.
	ErrConflict  = errors.New("record was modified concurrently")
	ErrDuplicate = errors.New("record already exists")
)

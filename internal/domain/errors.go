package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict with current state")
	// ErrInUse a category or brand still referenced by products.
	ErrInUse = errors.New("resource is referenced by products")
)

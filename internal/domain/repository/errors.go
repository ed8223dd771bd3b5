package repository

import "errors"

var (
	// ErrNotFound is returned by lookups when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDefaultRole is returned by DefaultRole when the single-default
	// invariant does not hold (zero or multiple default roles).
	ErrDefaultRole = errors.New("default role invariant violated")
)

package domain

import "errors"

var (
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateSecret is returned by token storage when a generated secret collides.
	ErrDuplicateSecret = errors.New("access token secret already exists")
	// ErrInvalidData marks a write rejected by storage constraints (bad date, unknown tier, ...).
	ErrInvalidData = errors.New("invalid data")
)

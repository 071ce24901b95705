package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)

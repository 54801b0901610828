package store

import "errors"

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned on unique-constraint conflicts the caller can
// surface as 409.
var ErrAlreadyExists = errors.New("already exists")

package repository

import "errors"

// ErrNotFound is returned when no record matches the requested identity.
var ErrNotFound = errors.New("record not found")

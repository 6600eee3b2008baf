package store

import "errors"

// ErrDuplicateID is returned by Insert when a record with the same ID already exists.
var ErrDuplicateID = errors.New("duplicate record id")

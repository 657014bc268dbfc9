package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is wrapped when a unique key already exists.
var ErrDuplicate = errors.New("duplicate key")

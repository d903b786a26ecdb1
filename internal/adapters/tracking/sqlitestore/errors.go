package sqlitestore

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotFound  = errors.New("dataset not found")
	ErrMalformed = errors.New("malformed stored dataset")
)

package metrica

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMalformed = errors.New("malformed metrica file")
	ErrNotFound  = errors.New("metrica file not found")
)

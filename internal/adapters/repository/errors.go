package repository

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound     = errors.New("trial not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrInvalidTrial = errors.New("invalid trial")
)

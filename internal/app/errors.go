package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidAnalysis = errors.New("invalid analysis")
	ErrInvalidSearch   = errors.New("invalid search options")
)

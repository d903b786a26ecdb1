package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidTeam    = errors.New("team must be Home or Away")
)

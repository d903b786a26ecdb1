package pitchcontrol

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidParams = errors.New("invalid pitch control parameters")
	ErrNonFinite     = errors.New("non-finite player state")
	ErrNoPlayers     = errors.New("snapshot has no players")
)

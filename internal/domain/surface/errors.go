package surface

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidGrid   = errors.New("invalid grid")
	ErrGridMismatch  = errors.New("surfaces are on different grids")
	ErrModelContract = errors.New("control probabilities do not sum to one")
)

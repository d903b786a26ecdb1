package space

import (
	"errors"

	"github.com/okian/pitchspace/internal/domain/surface"
)

// Sentinel error kinds for this package.
var (
	ErrGridMismatch   = surface.ErrGridMismatch
	ErrInvalidWeights = errors.New("invalid weight surface")
)

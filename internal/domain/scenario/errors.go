package scenario

import (
	"errors"

	"github.com/okian/pitchspace/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrPlayerNotFound = model.ErrPlayerNotFound
	ErrUnknownChange  = errors.New("unknown scenario change")
)

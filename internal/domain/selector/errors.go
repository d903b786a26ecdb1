package selector

import (
	"errors"

	"github.com/okian/pitchspace/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrFrameNotFound  = errors.New("tracking frame not found")
	ErrPlayerNotFound = model.ErrPlayerNotFound
)

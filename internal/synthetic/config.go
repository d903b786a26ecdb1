package synthetic

import (
	"fmt"

	"github.com/okian/pitchspace/internal/domain/surface"
)

// Config holds configuration for a generated match.
type Config struct {
	Frames    int     // Number of tracking frames
	FrameRate float64 // Frames per second
	PassEvery int     // Frames between the end of one pass and the next
	Seed      uint64  // Seed for every random choice
	Field     surface.Field
	// InterceptChance is the probability that a pass is lost.
	InterceptChance float64
}

// DefaultConfig returns a one-minute match at 25 fps.
func DefaultConfig() Config {
	return Config{
		Frames:          1500,
		FrameRate:       defaultFrameRate,
		PassEvery:       50,
		Seed:            1,
		Field:           surface.DefaultField,
		InterceptChance: 0.15,
	}
}

func (c Config) validate() error {
	switch {
	case c.Frames < 2:
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	case !(c.FrameRate > 0):
		return fmt.Errorf("%w: frame rate %g", ErrInvalidConfig, c.FrameRate)
	case c.PassEvery < 1:
		return fmt.Errorf("%w: pass interval %d", ErrInvalidConfig, c.PassEvery)
	case !(c.Field.Length > 0) || !(c.Field.Width > 0):
		return fmt.Errorf("%w: field %gx%g", ErrInvalidConfig, c.Field.Length, c.Field.Width)
	case c.InterceptChance < 0 || c.InterceptChance > 1:
		return fmt.Errorf("%w: intercept chance %g", ErrInvalidConfig, c.InterceptChance)
	}
	return nil
}

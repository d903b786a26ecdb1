package metrica

import (
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
)

// Default ingest settings.
const (
	defaultMaxSpeed     = 12.0
	defaultSmoothWindow = 7
)

type settings struct {
	field        surface.Field
	maxSpeed     float64
	smoothWindow int
	logger       logger.Logger
}

// Option applies a configuration option to Load.
type Option func(*settings)

// WithField sets the pitch size used to convert normalised coordinates.
func WithField(f surface.Field) Option {
	return func(s *settings) {
		if f.Length > 0 && f.Width > 0 {
			s.field = f
		}
	}
}

// WithMaxSpeed discards velocities above v m/s as tracking noise.
func WithMaxSpeed(v float64) Option {
	return func(s *settings) {
		if v > 0 {
			s.maxSpeed = v
		}
	}
}

// WithSmoothing sets the moving-average window in frames. 1 disables
// smoothing.
func WithSmoothing(window int) Option {
	return func(s *settings) {
		if window > 0 {
			s.smoothWindow = window
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		field:        surface.DefaultField,
		maxSpeed:     defaultMaxSpeed,
		smoothWindow: defaultSmoothWindow,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("metrica")
	}
	return s
}

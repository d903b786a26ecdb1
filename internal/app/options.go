package service

import (
	"github.com/okian/pitchspace/internal/adapters/render"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
)

// Option applies a configuration option to the Analysis.
type Option func(*Analysis)

// WithEvent selects the event by its index in the dataset.
func WithEvent(index int) Option {
	return func(a *Analysis) {
		a.event = index
	}
}

// WithPlayer selects the player whose movement is analysed.
func WithPlayer(key model.PlayerKey) Option {
	return func(a *Analysis) {
		a.player = key
	}
}

// WithGrid sets the evaluation grid.
func WithGrid(g surface.Grid) Option {
	return func(a *Analysis) {
		a.grid = g
	}
}

// WithTolerance sets the allowed model checksum gap; see
// surface.WithTolerance.
func WithTolerance(tol float64) Option {
	return func(a *Analysis) {
		a.tolerance = &tol
	}
}

// WithCellTolerance sets the allowed per-cell imbalance; see
// surface.WithCellTolerance.
func WithCellTolerance(tol float64) Option {
	return func(a *Analysis) {
		a.cellTolerance = &tol
	}
}

// WithModelName labels the model in logs and metrics.
func WithModelName(name string) Option {
	return func(a *Analysis) {
		a.modelName = name
	}
}

// WithWeights measures space as a share of w instead of square metres.
func WithWeights(w *space.Weights) Option {
	return func(a *Analysis) {
		a.weights = w
	}
}

// WithRenderer sets the renderer used by the Plot methods.
func WithRenderer(r *render.Renderer) Option {
	return func(a *Analysis) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithSearch sets the optimal location search parameters.
func WithSearch(s SearchOptions) Option {
	return func(a *Analysis) {
		a.search = s
	}
}

// WithLogger sets a custom logger for the analysis.
func WithLogger(l logger.Logger) Option {
	return func(a *Analysis) {
		if l != nil {
			a.logger = l
		}
	}
}

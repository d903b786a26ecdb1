package surface

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

// Default evaluator configuration constants.
const (
	defaultTolerance     = 0.01
	defaultCellTolerance = 0.1
	defaultModelName     = "model"
)

// Model is the pitch-control model. It owns the numeric semantics of a
// surface; the evaluator only delegates to it.
type Model interface {
	// Evaluate returns the control surface of snap over grid.
	Evaluate(ctx context.Context, snap model.Snapshot, grid Grid) (*Surface, error)
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, snap model.Snapshot, grid Grid) (*Surface, error)

// Evaluate implements Model.
func (f ModelFunc) Evaluate(ctx context.Context, snap model.Snapshot, grid Grid) (*Surface, error) {
	return f(ctx, snap, grid)
}

// Evaluator calls a Model at a fixed grid and checks its output.
type Evaluator struct {
	model     Model
	grid      Grid
	name      string
	tolerance float64
	// cellTolerance bounds |1 - att - def| in any single cell.
	cellTolerance float64
	logger        logger.Logger
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithModelName labels metrics and logs with name.
func WithModelName(name string) Option {
	return func(e *Evaluator) {
		if name != "" {
			e.name = name
		}
	}
}

// WithTolerance sets the allowed checksum gap. Zero or negative disables
// both contract checks.
func WithTolerance(tol float64) Option {
	return func(e *Evaluator) {
		e.tolerance = tol
	}
}

// WithCellTolerance sets the allowed imbalance in any one cell. Zero or
// negative disables the per-cell check only.
func WithCellTolerance(tol float64) Option {
	return func(e *Evaluator) {
		e.cellTolerance = tol
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator creates an evaluator for m on grid.
func NewEvaluator(m Model, grid Grid, opts ...Option) *Evaluator {
	e := &Evaluator{
		model:         m,
		grid:          grid,
		name:          defaultModelName,
		tolerance:     defaultTolerance,
		cellTolerance: defaultCellTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("surface")
	}
	return e
}

// Grid returns the evaluation grid.
func (e *Evaluator) Grid() Grid { return e.grid }

// Evaluate returns the control surface of snap. Model errors are returned
// as they are.
func (e *Evaluator) Evaluate(ctx context.Context, snap model.Snapshot) (*Surface, error) {
	start := time.Now()
	s, err := e.model.Evaluate(ctx, snap, e.grid)
	took := time.Since(start)
	if err != nil {
		metrics.RecordErrorByComponent("surface", "model_error")
		e.logger.Error(ctx, "pitch control model failed",
			logger.String("model", e.name),
			logger.Int("event", snap.EventIndex()),
			logger.Error(err),
		)
		return nil, err
	}
	if s == nil {
		metrics.RecordErrorByComponent("surface", "model_error")
		return nil, fmt.Errorf("%w: model %s returned no surface", ErrModelContract, e.name)
	}
	if s.Grid() != e.grid {
		metrics.RecordErrorByComponent("surface", "grid_mismatch")
		return nil, fmt.Errorf("%w: model returned %dx%d, want %dx%d", ErrGridMismatch, s.grid.NY, s.grid.NX, e.grid.NY, e.grid.NX)
	}

	gap := s.Checksum()
	metrics.RecordSurfaceEvaluation(e.name, float64(took.Microseconds())/1000)
	metrics.UpdateGridCells(e.grid.Cells())
	metrics.UpdateModelChecksum(gap)

	if e.tolerance > 0 && math.Abs(gap) >= e.tolerance {
		metrics.RecordErrorByComponent("surface", "checksum")
		return nil, fmt.Errorf("%w: checksum gap %.3f", ErrModelContract, gap)
	}
	if e.tolerance > 0 && e.cellTolerance > 0 {
		if worst := s.MaxImbalance(); worst > e.cellTolerance {
			metrics.RecordErrorByComponent("surface", "cell_imbalance")
			return nil, fmt.Errorf("%w: cell imbalance %.3f", ErrModelContract, worst)
		}
	}

	e.logger.Debug(ctx, "control surface evaluated",
		logger.String("model", e.name),
		logger.Int("event", snap.EventIndex()),
		logger.Int("players", snap.Len()),
		logger.Int("cells", e.grid.Cells()),
		logger.Duration("took_ms", took),
	)
	return s, nil
}

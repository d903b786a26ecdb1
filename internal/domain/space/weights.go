package space

import (
	"fmt"
	"math"

	"github.com/okian/pitchspace/internal/domain/surface"
	"gonum.org/v1/gonum/mat"
)

// Weights is a per-cell value surface (for example Expected Possession
// Value) over a source grid, defined for a team attacking towards +x.
type Weights struct {
	grid   surface.Grid
	values *mat.Dense
}

// NewWeights wraps values, which must be finite, non-negative and not all zero.
func NewWeights(grid surface.Grid, values *mat.Dense) (*Weights, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidWeights)
	}
	r, c := values.Dims()
	if r != grid.NY || c != grid.NX {
		return nil, fmt.Errorf("%w: %dx%d on grid %dx%d", ErrInvalidWeights, r, c, grid.NY, grid.NX)
	}
	var total float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := values.At(i, j)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: cell (%d,%d) = %g", ErrInvalidWeights, i, j, v)
			}
			total += v
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: all zero", ErrInvalidWeights)
	}
	return &Weights{grid: grid, values: mat.DenseCopyOf(values)}, nil
}

// Resample returns the weights at every cell centre of target, by the
// value of the source cell containing it. direction -1 mirrors the weights
// for a team attacking towards -x.
func (w *Weights) Resample(target surface.Grid, direction float64) *mat.Dense {
	out := mat.NewDense(target.NY, target.NX, nil)
	for r := 0; r < target.NY; r++ {
		y := target.Y(r)
		for c := 0; c < target.NX; c++ {
			x := target.X(c)
			if direction < 0 {
				x = -x
			}
			// Source grids may cover a different field size.
			x = x * w.grid.Field.Length / target.Field.Length
			sy := y * w.grid.Field.Width / target.Field.Width
			sr, sc := w.grid.Locate(x, sy)
			out.Set(r, c, w.values.At(sr, sc))
		}
	}
	return out
}

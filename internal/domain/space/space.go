// Package space turns control surfaces into scalar space metrics.
//
// Without weights a metric is an area in square metres: the sum over cells
// of cell area times the team's control probability. With weights it is the
// team's share of the total weight, a number in [0, 1].
package space

import (
	"fmt"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/surface"
	"gonum.org/v1/gonum/mat"
)

// Unit names what a metric measures.
type Unit string

// Units.
const (
	SquareMetres Unit = "m^2"
	WeightShare  Unit = "share"
)

// Aggregator integrates control surfaces.
type Aggregator struct {
	weights *Weights
	// direction maps teams to their attacking direction for weight lookup.
	direction func(model.Team) float64
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights weights each cell; direction gives each team's attacking
// direction (+1 towards +x). A nil direction means +1 for both.
func WithWeights(w *Weights, direction func(model.Team) float64) Option {
	return func(a *Aggregator) {
		a.weights = w
		if direction != nil {
			a.direction = direction
		}
	}
}

// NewAggregator creates an aggregator; with no options it measures area.
func NewAggregator(opts ...Option) Aggregator {
	a := Aggregator{direction: func(model.Team) float64 { return 1 }}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Unit reports what Total and Compare return.
func (a Aggregator) Unit() Unit {
	if a.weights != nil {
		return WeightShare
	}
	return SquareMetres
}

// factors returns the per-cell multiplier: cell area, or normalised weight.
func (a Aggregator) factors(grid surface.Grid, team model.Team) *mat.Dense {
	if a.weights == nil {
		f := mat.NewDense(grid.NY, grid.NX, nil)
		area := grid.CellArea()
		f.Apply(func(_, _ int, _ float64) float64 { return area }, f)
		return f
	}
	f := a.weights.Resample(grid, a.direction(team))
	if sum := mat.Sum(f); sum > 0 {
		f.Scale(1/sum, f)
	}
	return f
}

// Total is the space controlled by team on s. A nil surface controls nothing.
func (a Aggregator) Total(s *surface.Surface, team model.Team) float64 {
	if s == nil {
		return 0
	}
	var weighted mat.Dense
	weighted.MulElem(s.ForTeam(team), a.factors(s.Grid(), team))
	return mat.Sum(&weighted)
}

// Compare measures what hypothetical gains for team over actual. Swapping
// the arguments negates every cell and the net value exactly.
func (a Aggregator) Compare(actual, hypothetical *surface.Surface, team model.Team) (Delta, error) {
	if err := surface.SameGrid(actual, hypothetical); err != nil {
		return Delta{}, err
	}
	grid := actual.Grid()

	var diff mat.Dense
	diff.Sub(hypothetical.ForTeam(team), actual.ForTeam(team))

	var cells mat.Dense
	cells.MulElem(&diff, a.factors(grid, team))

	return Delta{
		grid:        grid,
		team:        team,
		unit:        a.Unit(),
		probability: &diff,
		cells:       &cells,
		net:         mat.Sum(&cells),
	}, nil
}

// Delta is the cell-by-cell result of a comparison.
type Delta struct {
	grid        surface.Grid
	team        model.Team
	unit        Unit
	probability *mat.Dense
	cells       *mat.Dense
	net         float64
}

// Net is the total gain (negative for a loss).
func (d Delta) Net() float64 { return d.net }

// Unit of Net and Cells.
func (d Delta) Unit() Unit { return d.unit }

// Team the comparison was made for.
func (d Delta) Team() model.Team { return d.team }

// Grid of the compared surfaces.
func (d Delta) Grid() surface.Grid { return d.grid }

// Cells returns each cell's contribution to Net, or nil for a zero Delta.
func (d Delta) Cells() *mat.Dense {
	if d.cells == nil {
		return nil
	}
	return mat.DenseCopyOf(d.cells)
}

// Probability returns the per-cell change in control probability, or nil
// for a zero Delta.
func (d Delta) Probability() *mat.Dense {
	if d.probability == nil {
		return nil
	}
	return mat.DenseCopyOf(d.probability)
}

// Gained and Lost split Net into its positive and negative parts.
func (d Delta) Gained() float64 { return d.sum(func(v float64) bool { return v > 0 }) }

// Lost is the magnitude of the negative part of Net.
func (d Delta) Lost() float64 { return -d.sum(func(v float64) bool { return v < 0 }) }

func (d Delta) sum(keep func(float64) bool) float64 {
	if d.cells == nil {
		return 0
	}
	var total float64
	r, c := d.cells.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := d.cells.At(i, j); keep(v) {
				total += v
			}
		}
	}
	return total
}

func (d Delta) String() string {
	return fmt.Sprintf("%s net %+.2f %s (gained %.2f, lost %.2f)", d.team, d.net, d.unit, d.Gained(), d.Lost())
}

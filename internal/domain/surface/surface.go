package surface

import (
	"fmt"

	"github.com/okian/pitchspace/internal/domain/model"
	"gonum.org/v1/gonum/mat"
)

// Surface is a control surface: for each cell, the probability that the
// attacking team controls it and the probability that the defending team
// does. Both matrices are NY rows by NX columns.
type Surface struct {
	grid      Grid
	attacking model.Team
	att       *mat.Dense
	def       *mat.Dense
}

// New builds a surface from the attacking probabilities; the defending
// surface is their complement.
func New(grid Grid, attacking model.Team, att *mat.Dense) (*Surface, error) {
	if err := checkDims(grid, att); err != nil {
		return nil, err
	}
	def := mat.NewDense(grid.NY, grid.NX, nil)
	def.Apply(func(_, _ int, v float64) float64 { return 1 - v }, att)
	return &Surface{grid: grid, attacking: attacking, att: mat.DenseCopyOf(att), def: def}, nil
}

// NewPair builds a surface from separately integrated attacking and
// defending probabilities.
func NewPair(grid Grid, attacking model.Team, att, def *mat.Dense) (*Surface, error) {
	if err := checkDims(grid, att); err != nil {
		return nil, err
	}
	if err := checkDims(grid, def); err != nil {
		return nil, err
	}
	return &Surface{grid: grid, attacking: attacking, att: mat.DenseCopyOf(att), def: mat.DenseCopyOf(def)}, nil
}

func checkDims(grid Grid, m *mat.Dense) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrInvalidGrid)
	}
	r, c := m.Dims()
	if r != grid.NY || c != grid.NX {
		return fmt.Errorf("%w: matrix %dx%d on grid %dx%d", ErrInvalidGrid, r, c, grid.NY, grid.NX)
	}
	return nil
}

// Grid returns the grid the surface is defined on.
func (s *Surface) Grid() Grid { return s.grid }

// Attacking returns the team in possession.
func (s *Surface) Attacking() model.Team { return s.attacking }

// ForTeam returns a copy of team's control probabilities.
func (s *Surface) ForTeam(team model.Team) *mat.Dense {
	if team == s.attacking {
		return mat.DenseCopyOf(s.att)
	}
	return mat.DenseCopyOf(s.def)
}

// At returns team's control probability in cell (r, c).
func (s *Surface) At(team model.Team, r, c int) float64 {
	if team == s.attacking {
		return s.att.At(r, c)
	}
	return s.def.At(r, c)
}

// Checksum returns 1 minus the mean over cells of both teams' probability.
func (s *Surface) Checksum() float64 {
	return 1 - (mat.Sum(s.att)+mat.Sum(s.def))/float64(s.grid.Cells())
}

// MaxImbalance returns the largest per-cell |1 - (att + def)|.
func (s *Surface) MaxImbalance() float64 {
	var worst float64
	for r := 0; r < s.grid.NY; r++ {
		for c := 0; c < s.grid.NX; c++ {
			d := 1 - s.att.At(r, c) - s.def.At(r, c)
			if d < 0 {
				d = -d
			}
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}

// SameGrid reports whether a and b can be combined cell by cell.
func SameGrid(a, b *Surface) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil surface", ErrGridMismatch)
	}
	if a.grid != b.grid {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrGridMismatch, a.grid.NY, a.grid.NX, b.grid.NY, b.grid.NX)
	}
	return nil
}

package render

import (
	"fmt"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"gonum.org/v1/gonum/mat"
)

// Figure describes one heatmap over the pitch.
type Figure struct {
	Title string
	Grid  surface.Grid
	// Values is NY by NX. Control figures range over [0, 1]; difference
	// figures are drawn on a symmetric range around zero.
	Values     *mat.Dense
	Difference bool
	Snapshot   model.Snapshot
	// Highlight marks one player, if set.
	Highlight *model.PlayerKey
	Path      string
}

// ControlFigure draws team's control probability on s.
func ControlFigure(s *surface.Surface, team model.Team, snap model.Snapshot, path string) Figure {
	return Figure{
		Title:    fmt.Sprintf("%s pitch control at event %d", team, snap.EventIndex()),
		Grid:     s.Grid(),
		Values:   s.ForTeam(team),
		Snapshot: snap,
		Path:     path,
	}
}

// DifferenceFigure draws the per-cell probability change of d.
func DifferenceFigure(title string, d space.Delta, snap model.Snapshot, path string) Figure {
	return Figure{
		Title:      title,
		Grid:       d.Grid(),
		Values:     d.Probability(),
		Difference: true,
		Snapshot:   snap,
		Path:       path,
	}
}

func (f Figure) validate() error {
	if f.Path == "" {
		return fmt.Errorf("%w: no output path", ErrInvalidFigure)
	}
	if f.Values == nil {
		return fmt.Errorf("%w: no values", ErrInvalidFigure)
	}
	if f.Grid.NX < 2 || f.Grid.NY < 2 {
		return fmt.Errorf("%w: grid %dx%d is too small to draw", ErrInvalidFigure, f.Grid.NY, f.Grid.NX)
	}
	if r, c := f.Values.Dims(); r != f.Grid.NY || c != f.Grid.NX {
		return fmt.Errorf("%w: values %dx%d on grid %dx%d", ErrInvalidFigure, r, c, f.Grid.NY, f.Grid.NX)
	}
	return nil
}

// cells adapts a figure's values to plotter.GridXYZ.
type cells struct {
	grid   surface.Grid
	values *mat.Dense
}

func (g cells) Dims() (c, r int)   { return g.grid.NX, g.grid.NY }
func (g cells) Z(c, r int) float64 { return g.values.At(r, c) }
func (g cells) X(c int) float64    { return g.grid.X(c) }
func (g cells) Y(r int) float64    { return g.grid.Y(r) }

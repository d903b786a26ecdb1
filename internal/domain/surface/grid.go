// Package surface holds control surfaces: per-cell control probabilities on
// a regular grid over the pitch, and the evaluator that obtains them from a
// pitch-control model.
package surface

import (
	"fmt"
	"math"
)

// Field is the pitch size in metres. The origin is the centre spot.
type Field struct {
	Length float64
	Width  float64
}

// DefaultField is the pitch size used by the Metrica sample data.
var DefaultField = Field{Length: 106, Width: 68}

// Grid is a regular grid of cell centres covering the field.
type Grid struct {
	Field Field
	NX    int
	NY    int
}

// NewGrid covers field with nx cells along its length; the number of rows
// keeps cells roughly square.
func NewGrid(field Field, nx int) (Grid, error) {
	if !(field.Length > 0) || !(field.Width > 0) || math.IsInf(field.Length, 0) || math.IsInf(field.Width, 0) {
		return Grid{}, fmt.Errorf("%w: field %gx%g", ErrInvalidGrid, field.Length, field.Width)
	}
	if nx <= 0 {
		return Grid{}, fmt.Errorf("%w: n_grid_cells_x %d", ErrInvalidGrid, nx)
	}
	ny := int(float64(nx) * field.Width / field.Length)
	if ny <= 0 {
		return Grid{}, fmt.Errorf("%w: %d cells across %gm leave no rows", ErrInvalidGrid, nx, field.Width)
	}
	return Grid{Field: field, NX: nx, NY: ny}, nil
}

// DX is the cell length in metres.
func (g Grid) DX() float64 { return g.Field.Length / float64(g.NX) }

// DY is the cell width in metres.
func (g Grid) DY() float64 { return g.Field.Width / float64(g.NY) }

// CellArea is the area of one cell in square metres.
func (g Grid) CellArea() float64 { return g.DX() * g.DY() }

// Cells is the number of cells.
func (g Grid) Cells() int { return g.NX * g.NY }

// X returns the x coordinate of column c's centre.
func (g Grid) X(c int) float64 { return float64(c)*g.DX() - g.Field.Length/2 + g.DX()/2 }

// Y returns the y coordinate of row r's centre.
func (g Grid) Y(r int) float64 { return float64(r)*g.DY() - g.Field.Width/2 + g.DY()/2 }

// XCenters returns every column centre.
func (g Grid) XCenters() []float64 {
	xs := make([]float64, g.NX)
	for c := range xs {
		xs[c] = g.X(c)
	}
	return xs
}

// YCenters returns every row centre.
func (g Grid) YCenters() []float64 {
	ys := make([]float64, g.NY)
	for r := range ys {
		ys[r] = g.Y(r)
	}
	return ys
}

// Locate returns the cell containing (x, y), clamped to the grid.
func (g Grid) Locate(x, y float64) (r, c int) {
	c = int(math.Floor((x + g.Field.Length/2) / g.DX()))
	r = int(math.Floor((y + g.Field.Width/2) / g.DY()))
	return clamp(r, 0, g.NY-1), clamp(c, 0, g.NX-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

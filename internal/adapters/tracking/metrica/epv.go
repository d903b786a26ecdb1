package metrica

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"gonum.org/v1/gonum/mat"
)

// EPV grid shape as published: 32 rows across the pitch, 50 columns along it.
const (
	EPVRows = 32
	EPVCols = 50
)

// ReadEPVGrid parses an Expected Possession Value grid for a team attacking
// towards +x. Row 0 is the -y touchline.
func ReadEPVGrid(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: epv: %v", ErrMalformed, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: epv grid is empty", ErrMalformed)
	}
	cols := len(recs[0])
	grid := mat.NewDense(len(recs), cols, nil)
	for i, rec := range recs {
		if len(rec) != cols {
			return nil, fmt.Errorf("%w: epv row %d has %d of %d values", ErrMalformed, i+1, len(rec), cols)
		}
		p := parser{}
		for j, cell := range rec {
			grid.Set(i, j, p.float(cell))
		}
		if p.err != nil {
			return nil, fmt.Errorf("%w: epv row %d: %v", ErrMalformed, i+1, p.err)
		}
	}
	return grid, nil
}

// LoadEPV reads the grid at path as weights over field.
func LoadEPV(path string, field surface.Field) (*space.Weights, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values, err := ReadEPVGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rows, cols := values.Dims()
	return space.NewWeights(surface.Grid{Field: field, NX: cols, NY: rows}, values)
}

package metrica

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/surface"
)

// Table is one team's tracking data, one row per frame.
type Table struct {
	Team model.Team
	// IDs are jersey ids in column order.
	IDs  []string
	Rows []Row
}

// Row is one tracking frame for one team. Positions and Velocities are
// indexed like Table.IDs.
type Row struct {
	Period     int
	Frame      int
	Time       float64
	Ball       model.Vec2
	Positions  []model.Vec2
	Velocities []model.Vec2
}

// ReadTracking parses a raw tracking table for team. The file starts with
// three header rows: team names, jersey numbers and column names. Velocities
// are left unset.
func ReadTracking(r io.Reader, team model.Team, field surface.Field) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var header [3][]string
	for i := range header {
		rec, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("%w: tracking header row %d: %v", ErrMalformed, i+1, err)
		}
		header[i] = rec
	}

	names := header[2]
	if len(names) < 3 || strings.TrimSpace(names[0]) != "Period" || strings.TrimSpace(names[1]) != "Frame" {
		return nil, fmt.Errorf("%w: tracking columns start with %q", ErrMalformed, names)
	}
	t := &Table{Team: team}
	var cols []int
	ballCol := -1
	for j := 3; j < len(names); j++ {
		name := strings.TrimSpace(names[j])
		switch {
		case strings.HasPrefix(name, "Player"):
			t.IDs = append(t.IDs, strings.TrimPrefix(name, "Player"))
			cols = append(cols, j)
		case name == "Ball":
			ballCol = j
		}
	}
	if len(t.IDs) == 0 {
		return nil, fmt.Errorf("%w: no player columns", ErrMalformed)
	}

	for line := 4; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: tracking line %d: %v", ErrMalformed, line, err)
		}
		if len(rec) < len(names) {
			return nil, fmt.Errorf("%w: tracking line %d has %d of %d columns", ErrMalformed, line, len(rec), len(names))
		}
		p := parser{}
		row := Row{
			Period:    p.int(rec[0]),
			Frame:     p.int(rec[1]),
			Time:      p.float(rec[2]),
			Ball:      model.NaNVec(),
			Positions: make([]model.Vec2, len(cols)),
		}
		for i, j := range cols {
			row.Positions[i] = toMetric(p.float(rec[j]), p.float(rec[j+1]), field)
		}
		if ballCol >= 0 && ballCol+1 < len(rec) {
			row.Ball = toMetric(p.float(rec[ballCol]), p.float(rec[ballCol+1]), field)
		}
		if p.err != nil {
			return nil, fmt.Errorf("%w: tracking line %d: %v", ErrMalformed, line, p.err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// SinglePlayingDirection mirrors every position from the second period on,
// so each team attacks the same way for the whole match.
func (t *Table) SinglePlayingDirection() {
	for i := range t.Rows {
		if t.Rows[i].Period < 2 {
			continue
		}
		t.Rows[i].Ball = flip(t.Rows[i].Ball)
		for j := range t.Rows[i].Positions {
			t.Rows[i].Positions[j] = flip(t.Rows[i].Positions[j])
		}
	}
}

func flip(v model.Vec2) model.Vec2 { return model.Vec2{X: -v.X, Y: -v.Y} }

// Goalkeeper returns the id of the player deepest towards either goal in the
// first frame.
func (t *Table) Goalkeeper() (string, error) {
	if len(t.Rows) == 0 {
		return "", fmt.Errorf("%w: %s tracking has no frames", ErrMalformed, t.Team)
	}
	best, deepest := -1, -1.0
	for i, pos := range t.Rows[0].Positions {
		if math.IsNaN(pos.X) {
			continue
		}
		if d := math.Abs(pos.X); d > deepest {
			best, deepest = i, d
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: %s has no player on the pitch at kick-off", ErrMalformed, t.Team)
	}
	return t.IDs[best], nil
}

// PlayingDirection is +1 when the team attacks towards +x: the opposite
// side to its goalkeeper at kick-off.
func (t *Table) PlayingDirection(goalkeeper string) float64 {
	for i, id := range t.IDs {
		if id == goalkeeper && len(t.Rows) > 0 {
			if t.Rows[0].Positions[i].X > 0 {
				return -1
			}
			return 1
		}
	}
	return 1
}

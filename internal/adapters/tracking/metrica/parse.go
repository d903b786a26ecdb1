package metrica

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/surface"
)

// parser keeps the first conversion error so a row can be read in one go.
type parser struct {
	err error
}

func (p *parser) int(s string) int {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("integer %q: %w", s, err)
	}
	return v
}

// float reads a number; empty cells and "NaN" are NaN.
func (p *parser) float(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("number %q: %w", s, err)
		}
		return math.NaN()
	}
	return v
}

// toMetric converts provider coordinates (0..1, y down) to metres from the
// centre spot (y up).
func toMetric(x, y float64, field surface.Field) model.Vec2 {
	return model.Vec2{
		X: (x - 0.5) * field.Length,
		Y: -(y - 0.5) * field.Width,
	}
}

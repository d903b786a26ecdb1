package render

import (
	"math"

	"github.com/okian/pitchspace/internal/domain/surface"
	"gonum.org/v1/plot/plotter"
)

// Standard pitch markings in metres.
const (
	centreCircleRadius = 9.15
	penaltyAreaDepth   = 16.5
	penaltyAreaWidth   = 40.3
	goalAreaDepth      = 5.5
	goalAreaWidth      = 18.3
	goalWidth          = 7.32
	penaltySpotOffset  = 11.0
)

// markings returns each pitch line as a polyline.
func markings(f surface.Field) []plotter.XYs {
	hl, hw := f.Length/2, f.Width/2
	lines := []plotter.XYs{
		{{X: -hl, Y: -hw}, {X: hl, Y: -hw}, {X: hl, Y: hw}, {X: -hl, Y: hw}, {X: -hl, Y: -hw}},
		{{X: 0, Y: -hw}, {X: 0, Y: hw}},
		circle(0, 0, centreCircleRadius),
	}
	for _, side := range []float64{-1, 1} {
		goal := side * hl
		lines = append(lines,
			box(goal, side, penaltyAreaDepth, penaltyAreaWidth),
			box(goal, side, goalAreaDepth, goalAreaWidth),
			plotter.XYs{{X: goal, Y: -goalWidth / 2}, {X: goal, Y: goalWidth / 2}},
			circle(goal-side*penaltySpotOffset, 0, 0.25),
		)
	}
	return lines
}

// box is a rectangle of the given depth and width in front of a goal line.
func box(goal, side, depth, width float64) plotter.XYs {
	front := goal - side*depth
	return plotter.XYs{
		{X: goal, Y: -width / 2},
		{X: front, Y: -width / 2},
		{X: front, Y: width / 2},
		{X: goal, Y: width / 2},
	}
}

func circle(cx, cy, r float64) plotter.XYs {
	const n = 48
	xys := make(plotter.XYs, n+1)
	for i := range xys {
		a := 2 * math.Pi * float64(i) / n
		xys[i].X = cx + r*math.Cos(a)
		xys[i].Y = cy + r*math.Sin(a)
	}
	return xys
}

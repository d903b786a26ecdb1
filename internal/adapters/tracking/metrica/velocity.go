package metrica

import (
	"math"

	"github.com/okian/pitchspace/internal/domain/model"
)

// CalcVelocities fills in each player's velocity by finite differences
// within each period. Speeds above maxSpeed become NaN, then each component
// is smoothed with a centred moving average of window frames that skips
// NaN samples.
func (t *Table) CalcVelocities(maxSpeed float64, window int) {
	n := len(t.Rows)
	for i := range t.Rows {
		t.Rows[i].Velocities = make([]model.Vec2, len(t.IDs))
	}
	raw := make([]model.Vec2, n)
	for j := range t.IDs {
		for i := 0; i < n; i++ {
			raw[i] = model.NaNVec()
			if i == 0 || t.Rows[i].Period != t.Rows[i-1].Period {
				continue
			}
			dt := t.Rows[i].Time - t.Rows[i-1].Time
			if !(dt > 0) {
				continue
			}
			v := model.Vec2{
				X: (t.Rows[i].Positions[j].X - t.Rows[i-1].Positions[j].X) / dt,
				Y: (t.Rows[i].Positions[j].Y - t.Rows[i-1].Positions[j].Y) / dt,
			}
			if math.Hypot(v.X, v.Y) > maxSpeed {
				continue
			}
			raw[i] = v
		}
		for i := 0; i < n; i++ {
			t.Rows[i].Velocities[j] = t.smooth(raw, i, window)
		}
	}
}

// smooth averages the finite samples of raw within window/2 frames of i in
// the same period. A NaN centre stays NaN.
func (t *Table) smooth(raw []model.Vec2, i, window int) model.Vec2 {
	if window <= 1 || !model.IsFinite(raw[i]) {
		return raw[i]
	}
	half := window / 2
	var sum model.Vec2
	var count int
	for k := i - half; k <= i+half; k++ {
		if k < 0 || k >= len(raw) || t.Rows[k].Period != t.Rows[i].Period {
			continue
		}
		if model.IsFinite(raw[k]) {
			sum.X += raw[k].X
			sum.Y += raw[k].Y
			count++
		}
	}
	return model.Vec2{X: sum.X / float64(count), Y: sum.Y / float64(count)}
}

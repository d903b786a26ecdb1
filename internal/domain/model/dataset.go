package model

import "math"

// Event is one row of the provider's event table.
type Event struct {
	Team       Team
	Type       string
	Subtype    string
	Period     int
	StartFrame int
	StartTime  float64
	EndFrame   int
	EndTime    float64
	From       string
	To         string
	Start      Vec2
	End        Vec2
}

// Frame holds every tracked object at one tracking frame.
type Frame struct {
	Period  int
	Number  int
	Time    float64
	Ball    Vec2
	Players []PlayerState // non-finite Position means off the pitch
}

// Dataset is a loaded match: events indexed by row and frames by number.
// It is passed explicitly to every component; nothing holds it globally.
type Dataset struct {
	ID     string
	Events []Event
	Frames map[int]Frame
	// Goalkeepers maps each team to its goalkeeper's jersey id.
	Goalkeepers map[Team]string
	// Directions maps each team to +1 when it attacks towards +x and -1
	// otherwise, after the single playing direction transform.
	Directions map[Team]float64
}

// PlayingDirection returns +1 or -1 for t, defaulting to +1.
func (d *Dataset) PlayingDirection(t Team) float64 {
	if d == nil || d.Directions == nil {
		return 1
	}
	if dir, ok := d.Directions[t]; ok && dir != 0 {
		return math.Copysign(1, dir)
	}
	return 1
}

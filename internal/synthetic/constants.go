package synthetic

import "errors"

// ErrInvalidConfig reports an unusable generator configuration.
var ErrInvalidConfig = errors.New("invalid synthetic match config")

// Generator constants.
const (
	defaultFrameRate = 25.0
	maxRunSpeed      = 8.0  // m/s
	passSpeed        = 15.0 // m/s
	ballShift        = 0.35 // how far the block follows the ball along x
	keeperShift      = 0.05
	touchlineMargin  = 0.5  // metres
	ballPull         = 0.15 // how far players lean towards the ball along y
	swayAmplitude    = 2.5  // metres
	swayPeriod       = 6.0  // seconds
	catchUp          = 0.08 // share of the gap to the target closed per frame
)

// formation is a 4-4-2 for a team defending the -x goal, as fractions of
// the half-length (x) and half-width (y). Index 0 is the goalkeeper.
var formation = [11][2]float64{
	{-0.94, 0},
	{-0.60, -0.65}, {-0.66, -0.22}, {-0.66, 0.22}, {-0.60, 0.65},
	{-0.25, -0.70}, {-0.30, -0.22}, {-0.30, 0.22}, {-0.25, 0.70},
	{0.08, -0.20}, {0.05, 0.22},
}

// Jersey ids: home 1-11, away 15-25, goalkeepers first.
const (
	homeFirstID = 1
	awayFirstID = 15
)

package pitchcontrol

import (
	"fmt"
	"math"
)

// Params are the physical and numerical constants of the model.
type Params struct {
	// MaxPlayerSpeed is the top running speed in m/s.
	MaxPlayerSpeed float64
	// ReactionTime is how long a player keeps their current velocity
	// before turning towards the target, in seconds.
	ReactionTime float64
	// TTISigma is the spread of the arrival-time uncertainty.
	TTISigma float64
	// KappaDef scales the defenders' control rate relative to attackers.
	KappaDef float64
	// LambdaAtt is the attackers' ball control rate per second.
	LambdaAtt float64
	// LambdaGKFactor scales the defending goalkeeper's control rate.
	LambdaGKFactor float64
	// AverageBallSpeed is the speed of a pass in m/s.
	AverageBallSpeed float64
	// IntDT is the integration step in seconds.
	IntDT float64
	// MaxIntTime bounds the integration window in seconds.
	MaxIntTime float64
	// ConvergeTol stops integration once both teams together hold
	// at least 1-ConvergeTol of the cell.
	ConvergeTol float64
	// Veto sets how far behind a team may arrive before it is ignored,
	// in multiples of the control time constant.
	Veto float64
}

// DefaultParams returns the published model constants with the given veto.
func DefaultParams(veto float64) Params {
	return Params{
		MaxPlayerSpeed:   5,
		ReactionTime:     0.7,
		TTISigma:         0.45,
		KappaDef:         1,
		LambdaAtt:        4.3,
		LambdaGKFactor:   3,
		AverageBallSpeed: 15,
		IntDT:            0.04,
		MaxIntTime:       10,
		ConvergeTol:      0.01,
		Veto:             veto,
	}
}

// Validate reports non-physical values.
func (p Params) Validate() error {
	positive := map[string]float64{
		"max_player_speed":   p.MaxPlayerSpeed,
		"tti_sigma":          p.TTISigma,
		"kappa_def":          p.KappaDef,
		"lambda_att":         p.LambdaAtt,
		"lambda_gk_factor":   p.LambdaGKFactor,
		"average_ball_speed": p.AverageBallSpeed,
		"int_dt":             p.IntDT,
		"max_int_time":       p.MaxIntTime,
		"model_converge_tol": p.ConvergeTol,
		"veto":               p.Veto,
	}
	for name, v := range positive {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, name, v)
		}
	}
	if p.ReactionTime < 0 || math.IsNaN(p.ReactionTime) || math.IsInf(p.ReactionTime, 0) {
		return fmt.Errorf("%w: reaction_time %g", ErrInvalidParams, p.ReactionTime)
	}
	if p.ConvergeTol >= 1 {
		return fmt.Errorf("%w: model_converge_tol %g", ErrInvalidParams, p.ConvergeTol)
	}
	if p.IntDT >= p.MaxIntTime {
		return fmt.Errorf("%w: int_dt %g exceeds max_int_time %g", ErrInvalidParams, p.IntDT, p.MaxIntTime)
	}
	return nil
}

// LambdaDef is the defenders' control rate.
func (p Params) LambdaDef() float64 { return p.LambdaAtt * p.KappaDef }

// LambdaGK is the defending goalkeeper's control rate.
func (p Params) LambdaGK() float64 { return p.LambdaDef() * p.LambdaGKFactor }

// TimeToControlAtt is how far behind the first attacker an attacker may
// arrive and still count.
func (p Params) TimeToControlAtt() float64 { return p.timeToControl(p.LambdaAtt) }

// TimeToControlDef is the defending equivalent of TimeToControlAtt.
func (p Params) TimeToControlDef() float64 { return p.timeToControl(p.LambdaDef()) }

func (p Params) timeToControl(lambda float64) float64 {
	return p.Veto * math.Log(10) * (math.Sqrt(3)*p.TTISigma/math.Pi + 1/lambda)
}

// steps is the number of integration samples, including the one before
// the ball arrives.
func (p Params) steps() int {
	return int(math.Ceil((p.MaxIntTime + p.IntDT) / p.IntDT))
}

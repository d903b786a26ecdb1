// Package pitchcontrol implements a time-to-intercept pitch control model.
//
// Each player runs on at their current velocity for the reaction time and
// then straight to the target at top speed. Their chance of having arrived
// by time T is logistic in T minus that intercept time, and once there they
// take control of the ball at a constant rate. Integrating both teams'
// control rates from the moment the ball arrives gives each team's control
// probability in every grid cell.
package pitchcontrol

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Name labels this model in logs and metrics.
const Name = "spearman"

// Model evaluates control surfaces.
type Model struct {
	params Params
	logger logger.Logger
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithParams replaces the default parameters.
func WithParams(p Params) Option {
	return func(m *Model) {
		m.params = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a model; parameters default to DefaultParams(3).
func New(opts ...Option) (*Model, error) {
	m := &Model{params: DefaultParams(3)}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.params.Validate(); err != nil {
		return nil, err
	}
	if m.logger == nil {
		m.logger = logger.Get().Named("pitchcontrol")
	}
	return m, nil
}

// Params returns the model parameters.
func (m *Model) Params() Params { return m.params }

// workspace holds one evaluation's runners and the per-cell contenders.
type workspace struct {
	attackers, defenders []runner
	liveAtt, liveDef     []runner
}

type runner struct {
	// start is where the player is after the reaction time.
	start  r2.Vec
	lambda float64
	tti    float64
	ppcf   float64
}

// Evaluate implements surface.Model.
func (m *Model) Evaluate(ctx context.Context, snap model.Snapshot, grid surface.Grid) (*surface.Surface, error) {
	if snap.Len() == 0 {
		return nil, ErrNoPlayers
	}
	attackers, err := m.runners(snap, snap.Attacking(), false)
	if err != nil {
		return nil, err
	}
	defenders, err := m.runners(snap, snap.Attacking().Opponent(), true)
	if err != nil {
		return nil, err
	}

	ball := snap.Ball()
	hasBall := model.IsFinite(ball)
	ws := &workspace{
		attackers: attackers,
		defenders: defenders,
		liveAtt:   make([]runner, 0, len(attackers)),
		liveDef:   make([]runner, 0, len(defenders)),
	}

	att := mat.NewDense(grid.NY, grid.NX, nil)
	def := mat.NewDense(grid.NY, grid.NX, nil)
	var unconverged int
	for r := 0; r < grid.NY; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for c := 0; c < grid.NX; c++ {
			target := r2.Vec{X: grid.X(c), Y: grid.Y(r)}
			var flight float64
			if hasBall {
				flight = r2.Norm(r2.Sub(target, ball)) / m.params.AverageBallSpeed
			}
			a, d, ok := m.atTarget(ws, target, flight)
			if !ok {
				unconverged++
			}
			att.Set(r, c, a)
			def.Set(r, c, d)
		}
	}
	if unconverged > 0 {
		m.logger.Debug(ctx, "integration did not converge",
			logger.Int("cells", unconverged),
			logger.Int("event", snap.EventIndex()),
		)
	}
	return surface.NewPair(grid, snap.Attacking(), att, def)
}

func (m *Model) runners(snap model.Snapshot, team model.Team, defending bool) ([]runner, error) {
	players := snap.Team(team)
	out := make([]runner, 0, len(players))
	for _, p := range players {
		if !p.Finite() {
			return nil, fmt.Errorf("%w: %s", ErrNonFinite, p.Key)
		}
		lambda := m.params.LambdaAtt
		if defending {
			lambda = m.params.LambdaDef()
			if p.Goalkeeper {
				lambda = m.params.LambdaGK()
			}
		}
		out = append(out, runner{
			start:  r2.Add(p.Position, r2.Scale(m.params.ReactionTime, p.Velocity)),
			lambda: lambda,
		})
	}
	return out, nil
}

// atTarget returns both teams' control probability at target. ok is false
// when the integration window ran out before convergence.
func (m *Model) atTarget(ws *workspace, target r2.Vec, flight float64) (att, def float64, ok bool) {
	p := m.params
	tauAtt := m.intercept(target, ws.attackers)
	tauDef := m.intercept(target, ws.defenders)

	switch {
	case tauAtt-math.Max(flight, tauDef) >= p.TimeToControlDef():
		return 0, 1, true
	case tauDef-math.Max(flight, tauAtt) >= p.TimeToControlAtt():
		return 1, 0, true
	}

	ws.liveAtt = contenders(ws.liveAtt, ws.attackers, tauAtt, p.TimeToControlAtt())
	ws.liveDef = contenders(ws.liveDef, ws.defenders, tauDef, p.TimeToControlDef())
	attackers, defenders := ws.liveAtt, ws.liveDef

	steps := p.steps()
	k := math.Pi / math.Sqrt(3) / p.TTISigma
	for i := 1; i < steps; i++ {
		remaining := 1 - att - def
		if remaining <= p.ConvergeTol {
			return att, def, true
		}
		t := flight - p.IntDT + float64(i)*p.IntDT
		var sumAtt, sumDef float64
		for j := range attackers {
			arrived := 1 / (1 + math.Exp(-k*(t-attackers[j].tti)))
			attackers[j].ppcf += remaining * arrived * attackers[j].lambda * p.IntDT
			sumAtt += attackers[j].ppcf
		}
		for j := range defenders {
			arrived := 1 / (1 + math.Exp(-k*(t-defenders[j].tti)))
			defenders[j].ppcf += remaining * arrived * defenders[j].lambda * p.IntDT
			sumDef += defenders[j].ppcf
		}
		att, def = sumAtt, sumDef
	}
	return att, def, 1-att-def <= p.ConvergeTol
}

// intercept fills in each runner's intercept time at target and returns
// the earliest, or +Inf for an empty team.
func (m *Model) intercept(target r2.Vec, rs []runner) float64 {
	first := math.Inf(1)
	for i := range rs {
		rs[i].tti = m.params.ReactionTime + r2.Norm(r2.Sub(target, rs[i].start))/m.params.MaxPlayerSpeed
		rs[i].ppcf = 0
		first = math.Min(first, rs[i].tti)
	}
	return first
}

// contenders copies into dst the runners arriving within window of the
// first one.
func contenders(dst, rs []runner, first, window float64) []runner {
	out := dst[:0]
	for _, r := range rs {
		if r.tti-first < window {
			out = append(out, r)
		}
	}
	return out
}

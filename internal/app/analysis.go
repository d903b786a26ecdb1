// Package service is the player analysis entry point: it binds a dataset,
// an event and a player, and answers how much space the player's actual
// movement created compared with a hypothetical alternative.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/pitchspace/internal/adapters/render"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/scenario"
	"github.com/okian/pitchspace/internal/domain/selector"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

// Analysis answers what-if questions about one player at one event. Every
// call selects and evaluates afresh; nothing is cached between calls.
type Analysis struct {
	ds     *model.Dataset
	event  int
	player model.PlayerKey

	grid      surface.Grid
	tolerance *float64
	// cellTolerance is left to the evaluator default when nil.
	cellTolerance *float64
	modelName     string
	weights       *space.Weights
	search        SearchOptions

	evaluator *surface.Evaluator
	agg       space.Aggregator
	renderer  *render.Renderer
	logger    logger.Logger
	runID     string
}

// New binds an analysis to ds and the model m. The event and player must
// exist: the team must be Home or Away and the player on the pitch at the
// event's start frame.
func New(ds *model.Dataset, m surface.Model, opts ...Option) (*Analysis, error) {
	a := &Analysis{
		ds:     ds,
		search: DefaultSearchOptions(),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset", ErrInvalidAnalysis)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: no pitch control model", ErrInvalidAnalysis)
	}
	if a.grid.Cells() == 0 {
		return nil, fmt.Errorf("%w: no grid configured", ErrInvalidAnalysis)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("analysis")
	}
	if a.renderer == nil {
		a.renderer = render.New(render.WithLogger(a.logger))
	}

	if _, err := selector.SelectForPlayer(ds, a.event, a.player); err != nil {
		metrics.RecordErrorByComponent("analysis", "lookup")
		return nil, err
	}

	evalOpts := []surface.Option{surface.WithModelName(a.modelName), surface.WithLogger(a.logger)}
	if a.tolerance != nil {
		evalOpts = append(evalOpts, surface.WithTolerance(*a.tolerance))
	}
	if a.cellTolerance != nil {
		evalOpts = append(evalOpts, surface.WithCellTolerance(*a.cellTolerance))
	}
	a.evaluator = surface.NewEvaluator(m, a.grid, evalOpts...)

	var aggOpts []space.Option
	if a.weights != nil {
		aggOpts = append(aggOpts, space.WithWeights(a.weights, ds.PlayingDirection))
	}
	a.agg = space.NewAggregator(aggOpts...)
	return a, nil
}

// RunID identifies this analysis in logs.
func (a *Analysis) RunID() string { return a.runID }

// Player is the analysed player.
func (a *Analysis) Player() model.PlayerKey { return a.player }

// Event is the analysed event index.
func (a *Analysis) Event() int { return a.event }

// Unit is what the space metrics measure.
func (a *Analysis) Unit() space.Unit { return a.agg.Unit() }

// Snapshot selects the actual snapshot at the event.
func (a *Analysis) Snapshot() (model.Snapshot, error) {
	return selector.SelectForPlayer(a.ds, a.event, a.player)
}

// PlayersOnPitch lists the ids of the analysed player's team on the pitch.
func (a *Analysis) PlayersOnPitch() ([]string, error) {
	return selector.PlayersOnPitch(a.ds, a.event, a.player.Team)
}

// ActualSurface evaluates the snapshot as it happened.
func (a *Analysis) ActualSurface(ctx context.Context) (*surface.Surface, error) {
	snap, err := a.Snapshot()
	if err != nil {
		return nil, err
	}
	return a.evaluator.Evaluate(ctx, snap)
}

// TotalSpace is the space team controls at the event.
func (a *Analysis) TotalSpace(ctx context.Context, team model.Team) (float64, error) {
	if !team.Valid() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidTeam, team)
	}
	s, err := a.ActualSurface(ctx)
	if err != nil {
		return 0, err
	}
	total := a.agg.Total(s, team)
	metrics.UpdateSpaceMetric("total_"+string(team), total)
	return total, nil
}

// ReplacedSurface evaluates the snapshot with change applied to the player.
func (a *Analysis) ReplacedSurface(ctx context.Context, change scenario.Change) (*surface.Surface, error) {
	_, hyp, err := a.scenario(change)
	if err != nil {
		return nil, err
	}
	return a.evaluator.Evaluate(ctx, hyp)
}

// ScenarioGain compares the hypothetical against the actual from the
// player's team's viewpoint: positive when the change would have gained
// space.
func (a *Analysis) ScenarioGain(ctx context.Context, change scenario.Change) (space.Delta, error) {
	actual, hyp, err := a.surfaces(ctx, change)
	if err != nil {
		return space.Delta{}, err
	}
	return a.agg.Compare(actual, hyp, a.player.Team)
}

// Difference compares the actual against the hypothetical from the player's
// team's viewpoint: positive where the actual movement created space.
func (a *Analysis) Difference(ctx context.Context, change scenario.Change) (space.Delta, error) {
	actual, hyp, err := a.surfaces(ctx, change)
	if err != nil {
		return space.Delta{}, err
	}
	return a.agg.Compare(hyp, actual, a.player.Team)
}

// SpaceCreated is the net space the player's actual movement created
// relative to change.
func (a *Analysis) SpaceCreated(ctx context.Context, change scenario.Change) (float64, error) {
	d, err := a.Difference(ctx, change)
	if err != nil {
		return 0, err
	}
	metrics.UpdateSpaceMetric("space_created", d.Net())
	a.logger.Info(ctx, "space created",
		logger.String("run", a.runID),
		logger.String("player", a.player.String()),
		logger.Int("event", a.event),
		logger.String("change", change.Kind()),
		logger.Float64("net", d.Net()),
		logger.String("unit", string(d.Unit())),
	)
	return d.Net(), nil
}

// PlotDifference renders the space created by the actual movement
// relative to change.
func (a *Analysis) PlotDifference(ctx context.Context, change scenario.Change, path string) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	d, err := a.Difference(ctx, change)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Space created by %s Player %s during event %d", a.player.Team, a.player.ID, a.event)
	fig := render.DifferenceFigure(title, d, snap, path)
	key := a.player
	fig.Highlight = &key
	return a.renderer.Render(ctx, fig)
}

// PlotControl renders team's control surface at the event.
func (a *Analysis) PlotControl(ctx context.Context, team model.Team, path string) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	s, err := a.evaluator.Evaluate(ctx, snap)
	if err != nil {
		return err
	}
	return a.renderer.Render(ctx, render.ControlFigure(s, team, snap, path))
}

func (a *Analysis) scenario(change scenario.Change) (model.Snapshot, model.Snapshot, error) {
	base, err := a.Snapshot()
	if err != nil {
		return model.Snapshot{}, model.Snapshot{}, err
	}
	hyp, err := scenario.Apply(base, a.player, change)
	if err != nil {
		return model.Snapshot{}, model.Snapshot{}, err
	}
	return base, hyp, nil
}

func (a *Analysis) surfaces(ctx context.Context, change scenario.Change) (actual, hyp *surface.Surface, err error) {
	base, alt, err := a.scenario(change)
	if err != nil {
		return nil, nil, err
	}
	if actual, err = a.evaluator.Evaluate(ctx, base); err != nil {
		return nil, nil, err
	}
	if hyp, err = a.evaluator.Evaluate(ctx, alt); err != nil {
		return nil, nil, err
	}
	return actual, hyp, nil
}

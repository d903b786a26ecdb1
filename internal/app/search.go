package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/okian/pitchspace/internal/adapters/repository"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/scenario"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/pkg/logger"
)

// SearchOptions configure OptimalLocation.
type SearchOptions struct {
	// SizeOfGrid is the side of the square, centred on the player, in
	// which locations are sampled, in metres.
	SizeOfGrid     float64
	LocationTrials int
	VelocityTrials int
	// MaxVelocity bounds sampled speeds in m/s.
	MaxVelocity float64
	Seed        uint64
	TopN        int
}

// DefaultSearchOptions returns the search settings used when none are given.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		SizeOfGrid:     20,
		LocationTrials: 125,
		VelocityTrials: 30,
		MaxVelocity:    5,
		Seed:           1,
		TopN:           5,
	}
}

// Validate reports unusable settings.
func (o SearchOptions) Validate() error {
	switch {
	case !(o.SizeOfGrid > 0) || math.IsInf(o.SizeOfGrid, 0):
		return fmt.Errorf("%w: size_of_grid %g", ErrInvalidSearch, o.SizeOfGrid)
	case o.LocationTrials < 0 || o.VelocityTrials < 0:
		return fmt.Errorf("%w: negative trial count", ErrInvalidSearch)
	case o.MaxVelocity < 0 || math.IsNaN(o.MaxVelocity) || math.IsInf(o.MaxVelocity, 0):
		return fmt.Errorf("%w: max_velocity %g", ErrInvalidSearch, o.MaxVelocity)
	case o.TopN < 1:
		return fmt.Errorf("%w: top_n %d", ErrInvalidSearch, o.TopN)
	}
	return nil
}

// SearchResult is the outcome of OptimalLocation.
type SearchResult struct {
	Best   repository.Entry
	Actual repository.Entry
	Top    []repository.Entry
	Trials int
	Unit   space.Unit
}

// Gain is how much the best placement beats the actual one.
func (r SearchResult) Gain() float64 { return r.Best.Score - r.Actual.Score }

const actualTrialID = "actual"

// OptimalLocation searches for the placement of the player that maximises
// their team's space. Locations are sampled first, keeping the actual
// velocity; velocities are then sampled at the best location found.
// Sampling is seeded, so a search is reproducible.
func (a *Analysis) OptimalLocation(ctx context.Context) (SearchResult, error) {
	opts := a.search
	if err := opts.Validate(); err != nil {
		return SearchResult{}, err
	}
	start := time.Now()
	base, err := a.Snapshot()
	if err != nil {
		return SearchResult{}, err
	}
	actual, err := base.Player(a.player)
	if err != nil {
		return SearchResult{}, err
	}

	store := repository.NewTreapStore(repository.WithSeed(opts.Seed))
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed+1))
	trials := 0

	try := func(id, phase string, pos, vel model.Vec2) error {
		hyp, err := scenario.Override(base, a.player, &pos, &vel)
		if err != nil {
			return err
		}
		s, err := a.evaluator.Evaluate(ctx, hyp)
		if err != nil {
			return err
		}
		trials++
		_, err = store.Record(ctx, repository.Trial{
			ID:       id,
			Phase:    phase,
			Position: pos,
			Velocity: vel,
			Score:    a.agg.Total(s, a.player.Team),
		})
		return err
	}

	if err := try(actualTrialID, repository.PhaseActual, actual.Position, actual.Velocity); err != nil {
		return SearchResult{}, err
	}

	field := a.grid.Field
	for i := 0; i < opts.LocationTrials; i++ {
		pos := model.Vec2{
			X: clamp(actual.Position.X+(rng.Float64()-0.5)*opts.SizeOfGrid, field.Length/2),
			Y: clamp(actual.Position.Y+(rng.Float64()-0.5)*opts.SizeOfGrid, field.Width/2),
		}
		if err := try(fmt.Sprintf("location-%03d", i), repository.PhaseLocation, pos, actual.Velocity); err != nil {
			return SearchResult{}, err
		}
	}

	top, err := store.TopN(ctx, 1)
	if err != nil {
		return SearchResult{}, err
	}
	at := top[0].Position
	for i := 0; i < opts.VelocityTrials; i++ {
		speed := rng.Float64() * opts.MaxVelocity
		heading := rng.Float64() * 2 * math.Pi
		vel := model.Vec2{X: speed * math.Cos(heading), Y: speed * math.Sin(heading)}
		if err := try(fmt.Sprintf("velocity-%03d", i), repository.PhaseVelocity, at, vel); err != nil {
			return SearchResult{}, err
		}
	}

	res := SearchResult{Trials: trials, Unit: a.agg.Unit()}
	if res.Top, err = store.TopN(ctx, opts.TopN); err != nil {
		return SearchResult{}, err
	}
	res.Best = res.Top[0]
	if res.Actual, err = store.Rank(ctx, actualTrialID); err != nil {
		return SearchResult{}, err
	}

	a.logger.Info(ctx, "optimal location found",
		logger.String("run", a.runID),
		logger.String("player", a.player.String()),
		logger.Int("trials", trials),
		logger.Float64("best_x", res.Best.Position.X),
		logger.Float64("best_y", res.Best.Position.Y),
		logger.Float64("gain", res.Gain()),
		logger.Int("actual_rank", res.Actual.Rank),
		logger.Duration("took_ms", time.Since(start)),
	)
	return res, nil
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

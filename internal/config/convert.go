package config

import (
	"strings"

	"github.com/okian/pitchspace/internal/adapters/pitchcontrol"
	service "github.com/okian/pitchspace/internal/app"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/scenario"
	"github.com/okian/pitchspace/internal/domain/surface"
)

// Field returns the configured pitch size.
func (c *Config) Field() surface.Field {
	return surface.Field{Length: c.FieldLength, Width: c.FieldWidth}
}

// Grid returns the evaluation grid.
func (c *Config) Grid() (surface.Grid, error) {
	return surface.NewGrid(c.Field(), c.NGridCellsX)
}

// PlayerKey returns the analysed player.
func (c *Config) PlayerKey() (model.PlayerKey, error) {
	team, err := model.ParseTeam(c.Team)
	if err != nil {
		return model.PlayerKey{}, err
	}
	return model.PlayerKey{Team: team, ID: strings.TrimSpace(c.Player)}, nil
}

// Params returns the pitch control model constants.
func (c *Config) Params() pitchcontrol.Params {
	m := c.Model
	return pitchcontrol.Params{
		MaxPlayerSpeed:   m.MaxPlayerSpeed,
		ReactionTime:     m.ReactionTime,
		TTISigma:         m.TTISigma,
		KappaDef:         m.KappaDef,
		LambdaAtt:        m.LambdaAtt,
		LambdaGKFactor:   m.LambdaGKFactor,
		AverageBallSpeed: m.AverageBallSpeed,
		IntDT:            m.IntDT,
		MaxIntTime:       m.MaxIntTime,
		ConvergeTol:      m.ConvergeTol,
		Veto:             m.TimeToControlVeto,
	}
}

// ScenarioChange returns the configured hypothetical change.
func (c *Config) ScenarioChange() (scenario.Change, error) {
	ch := c.Change
	return scenario.NewChange(ch.Kind, ch.DX, ch.DY, ch.VX, ch.VY)
}

// SearchOptions returns the optimal location search settings.
func (c *Config) SearchOptions() service.SearchOptions {
	s := c.Search
	return service.SearchOptions{
		SizeOfGrid:     s.SizeOfGrid,
		LocationTrials: s.LocationTrials,
		VelocityTrials: s.VelocityTrials,
		MaxVelocity:    s.MaxVelocity,
		Seed:           s.Seed,
		TopN:           s.TopN,
	}
}

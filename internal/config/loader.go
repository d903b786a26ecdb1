package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/pitchspace/internal/domain/model"
)

// Environment variable names.
const (
	EnvPrefix = "PITCH_"
	EnvFile   = "PITCH_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PITCH_CONFIG is set
//  3. env (prefix PITCH_, "__" separates nested keys)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PITCH_MODEL__REACTION_TIME -> model.reaction_time
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvFile {
			return ""
		}
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports values the analysis cannot run with.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceMetrica:
		if c.DataDir == "" {
			return invalid("data_dir must not be empty")
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return invalid("sqlite_path must not be empty")
		}
	default:
		return invalid("source %q", c.Source)
	}
	if c.EventID < 0 {
		return invalid("event_id %d", c.EventID)
	}
	if _, err := model.ParseTeam(c.Team); err != nil {
		return invalid("team %q", c.Team)
	}
	if strings.TrimSpace(c.Player) == "" {
		return invalid("player must not be empty")
	}
	if !positive(c.FieldLength) || !positive(c.FieldWidth) {
		return invalid("field %gx%g", c.FieldLength, c.FieldWidth)
	}
	if c.NGridCellsX <= 0 {
		return invalid("n_grid_cells_x %d", c.NGridCellsX)
	}
	if c.Model.ChecksumTolerance < 0 || math.IsNaN(c.Model.ChecksumTolerance) {
		return invalid("model.checksum_tolerance %g", c.Model.ChecksumTolerance)
	}
	if c.Model.CellTolerance < 0 || math.IsNaN(c.Model.CellTolerance) {
		return invalid("model.cell_tolerance %g", c.Model.CellTolerance)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.ScenarioChange(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Search.Enabled {
		if err := c.SearchOptions().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

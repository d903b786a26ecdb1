// Package config defines the analysis configuration and its loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional YAML file and the environment over the defaults.
// - Values are validated once, in Load; callers may rely on them afterwards.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Source selects the tracking data source: metrica or sqlite.
	Source string `koanf:"source"`

	// DataDir holds the Metrica sample-data game folders.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the prepared tracking store used when Source is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// GameID identifies the match. For the sqlite source DatasetID takes
	// precedence when set.
	GameID    int    `koanf:"game_id"`
	DatasetID string `koanf:"dataset_id"`

	// EventID is the index of the analysed event.
	EventID int `koanf:"event_id"`

	// Team and Player identify the analysed player.
	Team   string `koanf:"team"`
	Player string `koanf:"player"`

	// FieldLength and FieldWidth are the pitch size in metres.
	FieldLength float64 `koanf:"field_length"`
	FieldWidth  float64 `koanf:"field_width"`

	// NGridCellsX is the grid resolution along the pitch length.
	NGridCellsX int `koanf:"n_grid_cells_x"`

	// EPVPath, when set, weights space by the EPV grid in that file.
	EPVPath string `koanf:"epv_path"`

	// OutputFigure, when set, receives the space-created plot.
	OutputFigure string `koanf:"output_figure"`

	// MetricsTextfile, when set, receives the metrics registry on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`

	Change Change `koanf:"change"`
	Model  Model  `koanf:"model"`
	Search Search `koanf:"search"`
}

// Change describes the hypothetical movement compared against the actual one.
type Change struct {
	// Kind is movement, location or presence.
	Kind string  `koanf:"kind"`
	DX   float64 `koanf:"dx"`
	DY   float64 `koanf:"dy"`
	VX   float64 `koanf:"vx"`
	VY   float64 `koanf:"vy"`
}

// Model holds the pitch control model constants.
type Model struct {
	MaxPlayerSpeed    float64 `koanf:"max_player_speed"`
	ReactionTime      float64 `koanf:"reaction_time"`
	TTISigma          float64 `koanf:"tti_sigma"`
	KappaDef          float64 `koanf:"kappa_def"`
	LambdaAtt         float64 `koanf:"lambda_att"`
	LambdaGKFactor    float64 `koanf:"lambda_gk_factor"`
	AverageBallSpeed  float64 `koanf:"average_ball_speed"`
	IntDT             float64 `koanf:"int_dt"`
	MaxIntTime        float64 `koanf:"max_int_time"`
	ConvergeTol       float64 `koanf:"model_converge_tol"`
	TimeToControlVeto float64 `koanf:"time_to_control_veto"`

	// ChecksumTolerance bounds the allowed gap between the two teams'
	// probabilities and 1. Zero disables the check.
	ChecksumTolerance float64 `koanf:"checksum_tolerance"`
	// CellTolerance bounds the gap in any single cell. Zero disables it.
	CellTolerance float64 `koanf:"cell_tolerance"`
}

// Search configures the optimal location search.
type Search struct {
	Enabled        bool    `koanf:"enabled"`
	SizeOfGrid     float64 `koanf:"size_of_grid"`
	LocationTrials int     `koanf:"location_trials"`
	VelocityTrials int     `koanf:"velocity_trials"`
	MaxVelocity    float64 `koanf:"max_velocity"`
	Seed           uint64  `koanf:"seed"`
	TopN           int     `koanf:"top_n"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Source:      SourceMetrica,
		DataDir:     "data",
		SQLitePath:  "pitchspace.db",
		GameID:      2,
		EventID:     820,
		Team:        "Away",
		Player:      "23",
		FieldLength: 106,
		FieldWidth:  68,
		NGridCellsX: 50,
		Change: Change{
			Kind: "movement",
		},
		Model: Model{
			MaxPlayerSpeed:    5,
			ReactionTime:      0.7,
			TTISigma:          0.45,
			KappaDef:          1,
			LambdaAtt:         4.3,
			LambdaGKFactor:    3,
			AverageBallSpeed:  15,
			IntDT:             0.04,
			MaxIntTime:        10,
			ConvergeTol:       0.01,
			TimeToControlVeto: 3,
			ChecksumTolerance: 0.01,
			CellTolerance:     0.1,
		},
		Search: Search{
			SizeOfGrid:     20,
			LocationTrials: 125,
			VelocityTrials: 30,
			MaxVelocity:    5,
			Seed:           1,
			TopN:           5,
		},
	}
}

// Data sources.
const (
	SourceMetrica = "metrica"
	SourceSQLite  = "sqlite"
)

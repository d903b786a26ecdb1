package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/okian/pitchspace/internal/adapters/pitchcontrol"
	"github.com/okian/pitchspace/internal/adapters/tracking/metrica"
	"github.com/okian/pitchspace/internal/adapters/tracking/sqlitestore"
	service "github.com/okian/pitchspace/internal/app"
	"github.com/okian/pitchspace/internal/config"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/scenario"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance, os.Stdout); err != nil {
		loggerInstance.Error(ctx, "analysis failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run performs the configured analysis and prints its results to w.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, w io.Writer) (err error) {
	metrics.SetEnabled(cfg.MetricsTextfile != "")
	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	ds, err := loadDataset(ctx, cfg, log)
	if err != nil {
		return err
	}

	grid, err := cfg.Grid()
	if err != nil {
		return err
	}
	key, err := cfg.PlayerKey()
	if err != nil {
		return err
	}
	change, err := cfg.ScenarioChange()
	if err != nil {
		return err
	}

	pc, err := pitchcontrol.New(
		pitchcontrol.WithParams(cfg.Params()),
		pitchcontrol.WithLogger(log.Named("pitchcontrol")),
	)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithEvent(cfg.EventID),
		service.WithPlayer(key),
		service.WithGrid(grid),
		service.WithTolerance(cfg.Model.ChecksumTolerance),
		service.WithCellTolerance(cfg.Model.CellTolerance),
		service.WithModelName(pitchcontrol.Name),
		service.WithSearch(cfg.SearchOptions()),
		service.WithLogger(log.Named("analysis")),
	}
	if cfg.EPVPath != "" {
		weights, err := metrica.LoadEPV(cfg.EPVPath, cfg.Field())
		if err != nil {
			return err
		}
		opts = append(opts, service.WithWeights(weights))
	}

	a, err := service.New(ds, pc, opts...)
	if err != nil {
		return err
	}

	created, err := a.SpaceCreated(ctx, change)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Player %s created %s with their %s during event %d\n",
		key.Team, key.ID, amount(created, a.Unit()), describe(change), cfg.EventID)

	if cfg.OutputFigure != "" {
		if err := a.PlotDifference(ctx, change, cfg.OutputFigure); err != nil {
			return err
		}
		fmt.Fprintf(w, "Figure written to %s\n", cfg.OutputFigure)
	}

	if cfg.Search.Enabled {
		res, err := a.OptimalLocation(ctx)
		if err != nil {
			return err
		}
		b := res.Best
		fmt.Fprintf(w, "Best placement for %s Player %s: (%.1f, %.1f) moving (%.1f, %.1f), %s more than actual\n",
			key.Team, key.ID, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y, amount(res.Gain(), res.Unit))
		fmt.Fprintf(w, "Actual placement ranks %d of %d trials\n", res.Actual.Rank, res.Trials)
	}
	return nil
}

// loadDataset reads the configured match from its source.
func loadDataset(ctx context.Context, cfg *config.Config, log logger.Logger) (*model.Dataset, error) {
	switch cfg.Source {
	case config.SourceSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath, sqlitestore.WithLogger(log.Named("sqlite")))
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		id := cfg.DatasetID
		if id == "" {
			id = strconv.Itoa(cfg.GameID)
		}
		return store.Load(ctx, id)
	default:
		return metrica.Load(ctx, cfg.DataDir, cfg.GameID,
			metrica.WithField(cfg.Field()),
			metrica.WithLogger(log.Named("metrica")),
		)
	}
}

func amount(v float64, unit space.Unit) string {
	if unit == space.WeightShare {
		return fmt.Sprintf("%.2f%% of the weighted pitch value", 100*v)
	}
	return fmt.Sprintf("%.2f m^2 of space", v)
}

func describe(c scenario.Change) string {
	switch c.Kind() {
	case scenario.KindRelocation:
		return "positioning"
	case scenario.KindRemoval:
		return "presence"
	default:
		return "movement"
	}
}

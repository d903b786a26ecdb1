package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/pitchspace/internal/adapters/tracking/sqlitestore"
	"github.com/okian/pitchspace/internal/synthetic"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

func main() {
	defaults := synthetic.DefaultConfig()
	var (
		dbPath    = flag.String("db", "pitchspace.db", "SQLite tracking store to import the match into")
		frames    = flag.Int("frames", defaults.Frames, "Number of frames to generate")
		frameRate = flag.Float64("fps", defaults.FrameRate, "Frames per second")
		passEvery = flag.Int("pass-every", defaults.PassEvery, "Frames between passes")
		intercept = flag.Float64("intercept", defaults.InterceptChance, "Probability that a pass is intercepted")
		seed      = flag.Uint64("seed", defaults.Seed, "Random seed")
		promFile  = flag.String("metrics", "", "Write metrics to this textfile on exit")
		logLevel  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(logger.WithLevel(*logLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := defaults
	cfg.Frames = *frames
	cfg.FrameRate = *frameRate
	cfg.PassEvery = *passEvery
	cfg.InterceptChance = *intercept
	cfg.Seed = *seed

	id, err := generate(ctx, cfg, *dbPath, log)
	if *promFile != "" {
		if werr := metrics.WriteTextfile(*promFile); werr != nil {
			log.Warn(ctx, "failed to write metrics", logger.Error(werr))
		}
	}
	if err != nil {
		log.Error(ctx, "synthetic match failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
	fmt.Printf("Imported synthetic match %s into %s (set PITCH_SOURCE=sqlite PITCH_DATASET_ID=%s)\n", id, *dbPath, id)
}

// generate builds the match and imports it into the store at dbPath,
// returning the dataset id.
func generate(ctx context.Context, cfg synthetic.Config, dbPath string, log logger.Logger) (string, error) {
	ds, err := synthetic.Generate(ctx, cfg)
	if err != nil {
		return "", err
	}
	store, err := sqlitestore.Open(ctx, dbPath, sqlitestore.WithLogger(log.Named("sqlite")))
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()
	if err := store.Import(ctx, ds); err != nil {
		return "", err
	}
	return ds.ID, nil
}

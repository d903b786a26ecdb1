// Package metrica reads the Metrica Sports sample data: raw event and
// tracking CSV files and the Expected Possession Value grid.
package metrica

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

// Source labels datasets from this package in metrics.
const Source = "metrica"

// Paths returns the event file and the home and away tracking files of a
// sample game under dataDir.
func Paths(dataDir string, gameID int) (events, home, away string) {
	dir := filepath.Join(dataDir, fmt.Sprintf("Sample_Game_%d", gameID))
	prefix := fmt.Sprintf("Sample_Game_%d_", gameID)
	return filepath.Join(dir, prefix+"RawEventsData.csv"),
		filepath.Join(dir, prefix+"RawTrackingData_Home_Team.csv"),
		filepath.Join(dir, prefix+"RawTrackingData_Away_Team.csv")
}

// Load reads a sample game, converts it to metres with a single playing
// direction, and derives velocities, goalkeepers and playing directions.
func Load(ctx context.Context, dataDir string, gameID int, opts ...Option) (*model.Dataset, error) {
	s := newSettings(opts)
	start := time.Now()
	eventsPath, homePath, awayPath := Paths(dataDir, gameID)

	f, err := open(eventsPath)
	if err != nil {
		return nil, err
	}
	events, err := ReadEvents(f, s.field)
	_ = f.Close()
	if err != nil {
		metrics.RecordErrorByComponent(Source, "events")
		return nil, fmt.Errorf("%s: %w", eventsPath, err)
	}

	tables := make([]*Table, 0, 2)
	for _, tp := range []struct {
		team model.Team
		path string
	}{{model.Home, homePath}, {model.Away, awayPath}} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := open(tp.path)
		if err != nil {
			return nil, err
		}
		t, err := ReadTracking(f, tp.team, s.field)
		_ = f.Close()
		if err != nil {
			metrics.RecordErrorByComponent(Source, "tracking")
			return nil, fmt.Errorf("%s: %w", tp.path, err)
		}
		tables = append(tables, t)
	}

	ds, err := Build(strconv.Itoa(gameID), events, tables, s.maxSpeed, s.smoothWindow)
	if err != nil {
		return nil, err
	}
	took := time.Since(start)
	metrics.RecordDatasetLoad(Source, len(ds.Frames), len(ds.Events), float64(took.Milliseconds()))
	s.logger.Info(ctx, "match loaded",
		logger.String("game", ds.ID),
		logger.Int("events", len(ds.Events)),
		logger.Int("frames", len(ds.Frames)),
		logger.String("home_gk", ds.Goalkeepers[model.Home]),
		logger.String("away_gk", ds.Goalkeepers[model.Away]),
		logger.Duration("took_ms", took),
	)
	return ds, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return f, err
}

// Build assembles a dataset from parsed events and tracking tables. Event
// and tracking coordinates are mirrored from the second period on; tables
// get velocities from maxSpeed and window.
func Build(id string, events []model.Event, tables []*Table, maxSpeed float64, window int) (*model.Dataset, error) {
	ds := &model.Dataset{
		ID:          id,
		Events:      make([]model.Event, len(events)),
		Frames:      make(map[int]model.Frame),
		Goalkeepers: make(map[model.Team]string),
		Directions:  make(map[model.Team]float64),
	}
	for i, ev := range events {
		if ev.Period >= 2 {
			ev.Start = flip(ev.Start)
			ev.End = flip(ev.End)
		}
		ds.Events[i] = ev
	}

	for _, t := range tables {
		t.SinglePlayingDirection()
		gk, err := t.Goalkeeper()
		if err != nil {
			return nil, err
		}
		ds.Goalkeepers[t.Team] = gk
		ds.Directions[t.Team] = t.PlayingDirection(gk)
		t.CalcVelocities(maxSpeed, window)

		for _, row := range t.Rows {
			fr, ok := ds.Frames[row.Frame]
			if !ok {
				fr = model.Frame{Period: row.Period, Number: row.Frame, Time: row.Time, Ball: row.Ball}
			} else if !model.IsFinite(fr.Ball) {
				fr.Ball = row.Ball
			}
			for j, id := range t.IDs {
				fr.Players = append(fr.Players, model.PlayerState{
					Key:        model.PlayerKey{Team: t.Team, ID: id},
					Position:   row.Positions[j],
					Velocity:   row.Velocities[j],
					Goalkeeper: id == gk,
				})
			}
			ds.Frames[row.Frame] = fr
		}
	}
	return ds, nil
}

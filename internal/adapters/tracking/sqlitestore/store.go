// Package sqlitestore keeps prepared tracking datasets in a SQLite file so
// an analysis can start without re-parsing and re-smoothing raw CSV.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	// registers the "sqlite" driver
	_ "github.com/glebarez/go-sqlite"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/logger"
	"github.com/okian/pitchspace/pkg/metrics"
)

// Source labels datasets from this package in metrics.
const Source = "sqlite"

// Store is a SQLite-backed dataset store.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("sqlitestore")
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Import writes ds, replacing any dataset stored under the same id.
func (s *Store) Import(ctx context.Context, ds *model.Dataset) (err error) {
	if ds == nil || ds.ID == "" {
		return fmt.Errorf("%w: dataset without id", ErrMalformed)
	}
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"positions", "frames", "events", "datasets"} {
		col := "dataset_id"
		if table == "datasets" {
			col = "id"
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+col+" = ?", ds.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, home_gk, away_gk, home_direction, away_direction) VALUES (?, ?, ?, ?, ?)`,
		ds.ID, ds.Goalkeepers[model.Home], ds.Goalkeepers[model.Away],
		ds.PlayingDirection(model.Home), ds.PlayingDirection(model.Away),
	); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	if err = insertEvents(ctx, tx, ds); err != nil {
		return err
	}
	if err = insertFrames(ctx, tx, ds); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.logger.Info(ctx, "dataset imported",
		logger.String("dataset", ds.ID),
		logger.Int("events", len(ds.Events)),
		logger.Int("frames", len(ds.Frames)),
		logger.Duration("took_ms", time.Since(start)),
	)
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events
        (dataset_id, idx, team, type, subtype, period, start_frame, start_time, end_frame, end_time,
         from_player, to_player, start_x, start_y, end_x, end_y)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, ev := range ds.Events {
		if _, err := stmt.ExecContext(ctx, ds.ID, i, string(ev.Team), ev.Type, ev.Subtype, ev.Period,
			ev.StartFrame, nullable(ev.StartTime), ev.EndFrame, nullable(ev.EndTime), ev.From, ev.To,
			nullable(ev.Start.X), nullable(ev.Start.Y), nullable(ev.End.X), nullable(ev.End.Y),
		); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}
	return nil
}

func insertFrames(ctx context.Context, tx *sql.Tx, ds *model.Dataset) error {
	frameStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO frames (dataset_id, number, period, time, ball_x, ball_y) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer frameStmt.Close()
	posStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO positions (dataset_id, frame, seq, team, player, x, y, vx, vy) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer posStmt.Close()

	for number, fr := range ds.Frames {
		if _, err := frameStmt.ExecContext(ctx, ds.ID, number, fr.Period, nullable(fr.Time),
			nullable(fr.Ball.X), nullable(fr.Ball.Y)); err != nil {
			return fmt.Errorf("insert frame %d: %w", number, err)
		}
		for seq, p := range fr.Players {
			if _, err := posStmt.ExecContext(ctx, ds.ID, number, seq, string(p.Key.Team), p.Key.ID,
				nullable(p.Position.X), nullable(p.Position.Y), nullable(p.Velocity.X), nullable(p.Velocity.Y),
			); err != nil {
				return fmt.Errorf("insert position %s at frame %d: %w", p.Key, number, err)
			}
		}
	}
	return nil
}

// Datasets lists stored dataset ids.
func (s *Store) Datasets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM datasets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Load reads the dataset stored under id.
func (s *Store) Load(ctx context.Context, id string) (*model.Dataset, error) {
	start := time.Now()
	ds := &model.Dataset{
		ID:          id,
		Frames:      make(map[int]model.Frame),
		Goalkeepers: make(map[model.Team]string),
		Directions:  make(map[model.Team]float64),
	}
	var homeGK, awayGK sql.NullString
	var homeDir, awayDir sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT home_gk, away_gk, home_direction, away_direction FROM datasets WHERE id = ?`, id,
	).Scan(&homeGK, &awayGK, &homeDir, &awayDir)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if homeGK.Valid && homeGK.String != "" {
		ds.Goalkeepers[model.Home] = homeGK.String
	}
	if awayGK.Valid && awayGK.String != "" {
		ds.Goalkeepers[model.Away] = awayGK.String
	}
	ds.Directions[model.Home] = orDefault(homeDir, 1)
	ds.Directions[model.Away] = orDefault(awayDir, 1)

	if err := s.loadEvents(ctx, ds); err != nil {
		return nil, err
	}
	if err := s.loadFrames(ctx, ds); err != nil {
		return nil, err
	}
	metrics.RecordDatasetLoad(Source, len(ds.Frames), len(ds.Events), float64(time.Since(start).Milliseconds()))
	return ds, nil
}

func (s *Store) loadEvents(ctx context.Context, ds *model.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `SELECT team, type, subtype, period, start_frame, start_time,
        end_frame, end_time, from_player, to_player, start_x, start_y, end_x, end_y
        FROM events WHERE dataset_id = ? ORDER BY idx`, ds.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			team                   string
			ev                     model.Event
			startTime, endTime     sql.NullFloat64
			sx, sy, ex, ey         sql.NullFloat64
			typ, subtype, from, to sql.NullString
		)
		if err := rows.Scan(&team, &typ, &subtype, &ev.Period, &ev.StartFrame, &startTime,
			&ev.EndFrame, &endTime, &from, &to, &sx, &sy, &ex, &ey); err != nil {
			return err
		}
		if ev.Team, err = model.ParseTeam(team); err != nil {
			return fmt.Errorf("%w: event %d: %v", ErrMalformed, len(ds.Events), err)
		}
		ev.Type, ev.Subtype, ev.From, ev.To = typ.String, subtype.String, from.String, to.String
		ev.StartTime, ev.EndTime = value(startTime), value(endTime)
		ev.Start = model.Vec2{X: value(sx), Y: value(sy)}
		ev.End = model.Vec2{X: value(ex), Y: value(ey)}
		ds.Events = append(ds.Events, ev)
	}
	return rows.Err()
}

func (s *Store) loadFrames(ctx context.Context, ds *model.Dataset) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, period, time, ball_x, ball_y FROM frames WHERE dataset_id = ?`, ds.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			fr     model.Frame
			t      sql.NullFloat64
			bx, by sql.NullFloat64
		)
		if err := rows.Scan(&fr.Number, &fr.Period, &t, &bx, &by); err != nil {
			rows.Close()
			return err
		}
		fr.Time = value(t)
		fr.Ball = model.Vec2{X: value(bx), Y: value(by)}
		ds.Frames[fr.Number] = fr
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT frame, team, player, x, y, vx, vy
        FROM positions WHERE dataset_id = ? ORDER BY frame, seq`, ds.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			number       int
			team, player string
			x, y, vx, vy sql.NullFloat64
		)
		if err := rows.Scan(&number, &team, &player, &x, &y, &vx, &vy); err != nil {
			return err
		}
		t, err := model.ParseTeam(team)
		if err != nil {
			return fmt.Errorf("%w: frame %d: %v", ErrMalformed, number, err)
		}
		fr, ok := ds.Frames[number]
		if !ok {
			return fmt.Errorf("%w: position for unknown frame %d", ErrMalformed, number)
		}
		fr.Players = append(fr.Players, model.PlayerState{
			Key:        model.PlayerKey{Team: t, ID: player},
			Position:   model.Vec2{X: value(x), Y: value(y)},
			Velocity:   model.Vec2{X: value(vx), Y: value(vy)},
			Goalkeeper: ds.Goalkeepers[t] == player,
		})
		ds.Frames[number] = fr
	}
	return rows.Err()
}

// nullable stores NaN as NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func value(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}

func orDefault(n sql.NullFloat64, def float64) float64 {
	if !n.Valid || n.Float64 == 0 {
		return def
	}
	return n.Float64
}

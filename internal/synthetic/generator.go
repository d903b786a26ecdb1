// Package synthetic generates deterministic eleven-a-side matches in the
// same shape as loaded tracking data, for tests and demos.
package synthetic

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/logger"
)

type player struct {
	key    model.PlayerKey
	anchor model.Vec2
	phase  float64
	pos    model.Vec2
}

type pass struct {
	from, to    *player
	start       model.Vec2
	startFrame  int
	endFrame    int
	intercepted bool
}

type generator struct {
	cfg     Config
	rng     *rand.Rand
	players []*player // home 0-10, away 11-21
	holder  *player
	flight  *pass
	ball    model.Vec2
	ds      *model.Dataset
}

// Generate builds a match from cfg. Home defends the -x goal and Away the
// +x goal for the whole match, as after a single playing direction
// transform. The same config always yields the same dataset.
func Generate(ctx context.Context, cfg Config) (*model.Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d)),
		ds: &model.Dataset{
			ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte("synthetic-match-"+strconv.FormatUint(cfg.Seed, 10))).String(),
			Frames: make(map[int]model.Frame, cfg.Frames),
			Goalkeepers: map[model.Team]string{
				model.Home: strconv.Itoa(homeFirstID),
				model.Away: strconv.Itoa(awayFirstID),
			},
			Directions: map[model.Team]float64{model.Home: 1, model.Away: -1},
		},
	}
	g.lineUp()

	check := max(1, int(math.Round(cfg.FrameRate)))
	for f := 1; f <= cfg.Frames; f++ {
		if f%check == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		g.step(f)
	}

	logger.Get().Named("synthetic").Info(ctx, "synthetic match generated",
		logger.String("dataset", g.ds.ID),
		logger.Int("frames", len(g.ds.Frames)),
		logger.Int("events", len(g.ds.Events)),
	)
	return g.ds, nil
}

func (g *generator) lineUp() {
	hl, hw := g.cfg.Field.Length/2, g.cfg.Field.Width/2
	for _, side := range []struct {
		team    model.Team
		firstID int
		mirror  float64
	}{{model.Home, homeFirstID, 1}, {model.Away, awayFirstID, -1}} {
		for i, f := range formation {
			anchor := model.Vec2{X: side.mirror * f[0] * hl, Y: side.mirror * f[1] * hw}
			g.players = append(g.players, &player{
				key:    model.PlayerKey{Team: side.team, ID: strconv.Itoa(side.firstID + i)},
				anchor: anchor,
				phase:  g.rng.Float64() * 2 * math.Pi,
				pos:    anchor,
			})
		}
	}
	// Kick-off: a home forward starts on the ball.
	g.holder = g.players[9]
	g.holder.pos = model.Vec2{}
	g.ball = g.holder.pos
}

func (g *generator) team(t model.Team) []*player {
	if t == model.Home {
		return g.players[:11]
	}
	return g.players[11:]
}

func (g *generator) step(f int) {
	dt := 1 / g.cfg.FrameRate
	t := float64(f-1) * dt
	period := 1
	if f > g.cfg.Frames/2 {
		period = 2
	}

	if g.flight == nil && f > 1 && (f-1)%g.cfg.PassEvery == 0 {
		g.startPass(f)
	}

	frame := model.Frame{Period: period, Number: f, Time: t, Players: make([]model.PlayerState, 0, len(g.players))}
	for _, p := range g.players {
		target := g.target(p, t)
		move := model.Vec2{X: (target.X - p.pos.X) * catchUp, Y: (target.Y - p.pos.Y) * catchUp}
		if d := math.Hypot(move.X, move.Y); d > maxRunSpeed*dt {
			move.X, move.Y = move.X*maxRunSpeed*dt/d, move.Y*maxRunSpeed*dt/d
		}
		p.pos = model.Vec2{X: p.pos.X + move.X, Y: p.pos.Y + move.Y}
		vel := model.Vec2{X: move.X / dt, Y: move.Y / dt}
		if f == 1 {
			vel = model.Vec2{}
		}
		frame.Players = append(frame.Players, model.PlayerState{
			Key:        p.key,
			Position:   p.pos,
			Velocity:   vel,
			Goalkeeper: p.key.ID == g.ds.Goalkeepers[p.key.Team],
		})
	}

	done := g.moveBall(f)
	frame.Ball = g.ball
	g.ds.Frames[f] = frame
	if done != nil {
		g.record(done)
	}
}

// target is where p wants to be: their formation spot shifted with the
// ball, with a slow sway so nobody stands perfectly still.
func (g *generator) target(p *player, t float64) model.Vec2 {
	if p == g.holder && g.flight == nil {
		dir := 1.0
		if p.key.Team == model.Away {
			dir = -1
		}
		return g.inside(model.Vec2{X: p.pos.X + dir*3, Y: p.pos.Y})
	}
	if g.flight != nil && p == g.flight.to {
		return g.ball
	}
	shift := ballShift
	if p.key.ID == g.ds.Goalkeepers[p.key.Team] {
		shift = keeperShift
	}
	w := 2 * math.Pi / swayPeriod
	return g.inside(model.Vec2{
		X: p.anchor.X + shift*g.ball.X + swayAmplitude*math.Sin(w*t+p.phase),
		Y: p.anchor.Y + ballPull*(g.ball.Y-p.anchor.Y) + swayAmplitude*math.Cos(w*t+p.phase),
	})
}

// inside clamps v to the pitch.
func (g *generator) inside(v model.Vec2) model.Vec2 {
	hl, hw := g.cfg.Field.Length/2-touchlineMargin, g.cfg.Field.Width/2-touchlineMargin
	return model.Vec2{X: math.Max(-hl, math.Min(hl, v.X)), Y: math.Max(-hw, math.Min(hw, v.Y))}
}

func (g *generator) startPass(f int) {
	mates := g.team(g.holder.key.Team)
	to := g.holder
	for to == g.holder {
		to = mates[1+g.rng.IntN(len(mates)-1)]
	}
	intercepted := g.rng.Float64() < g.cfg.InterceptChance
	if intercepted {
		to = g.nearest(g.holder.key.Team.Opponent(), to.pos)
	}
	dist := math.Hypot(to.pos.X-g.ball.X, to.pos.Y-g.ball.Y)
	frames := max(1, int(math.Ceil(dist/passSpeed*g.cfg.FrameRate)))
	g.flight = &pass{
		from:        g.holder,
		to:          to,
		start:       g.ball,
		startFrame:  f,
		endFrame:    min(f+frames, g.cfg.Frames),
		intercepted: intercepted,
	}
	g.holder = nil
}

func (g *generator) nearest(team model.Team, at model.Vec2) *player {
	var best *player
	bestD := math.Inf(1)
	for _, p := range g.team(team) {
		if d := math.Hypot(p.pos.X-at.X, p.pos.Y-at.Y); d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// moveBall places the ball for frame f and returns the pass that
// completed on it, if any.
func (g *generator) moveBall(f int) *pass {
	if g.flight == nil {
		g.ball = g.holder.pos
		return nil
	}
	fl := g.flight
	span := float64(fl.endFrame - fl.startFrame)
	s := 1.0
	if span > 0 {
		s = float64(f-fl.startFrame) / span
	}
	g.ball = model.Vec2{
		X: fl.start.X + s*(fl.to.pos.X-fl.start.X),
		Y: fl.start.Y + s*(fl.to.pos.Y-fl.start.Y),
	}
	if f < fl.endFrame {
		return nil
	}
	g.holder = fl.to
	g.flight = nil
	return fl
}

// record writes the events for a completed pass, as the provider would.
func (g *generator) record(fl *pass) {
	start := g.ds.Frames[fl.startFrame]
	endTime := float64(fl.endFrame-1) / g.cfg.FrameRate
	ev := model.Event{
		Team:       fl.from.key.Team,
		Type:       "PASS",
		Period:     start.Period,
		StartFrame: fl.startFrame,
		StartTime:  start.Time,
		EndFrame:   fl.endFrame,
		EndTime:    endTime,
		From:       fl.from.key.ID,
		To:         fl.to.key.ID,
		Start:      fl.start,
		End:        g.ball,
	}
	if !fl.intercepted {
		g.ds.Events = append(g.ds.Events, ev)
		return
	}
	ev.Type, ev.Subtype, ev.To = "BALL LOST", "INTERCEPTION", ""
	g.ds.Events = append(g.ds.Events, ev, model.Event{
		Team:       fl.to.key.Team,
		Type:       "RECOVERY",
		Subtype:    "INTERCEPTION",
		Period:     start.Period,
		StartFrame: fl.endFrame,
		StartTime:  endTime,
		EndFrame:   fl.endFrame,
		EndTime:    endTime,
		From:       fl.to.key.ID,
		Start:      g.ball,
		End:        g.ball,
	})
}

// String describes the config in logs.
func (c Config) String() string {
	return fmt.Sprintf("%d frames at %g fps, seed %d", c.Frames, c.FrameRate, c.Seed)
}

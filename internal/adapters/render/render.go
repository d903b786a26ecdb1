// Package render draws control surfaces and their differences as heatmaps
// over a pitch diagram, with player positions and velocities on top.
package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/logger"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default figure settings.
const (
	defaultWidth  = 12 * vg.Inch
	paletteColors = 255
)

var (
	homeColor  = color.RGBA{R: 200, A: 255}
	awayColor  = color.RGBA{B: 200, A: 255}
	lineColor  = color.Gray{Y: 40}
	labelColor = color.Black
)

// Renderer writes figures to image files.
type Renderer struct {
	width     vg.Length
	labels    bool
	arrowTime float64
	logger    logger.Logger
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithWidth sets the image width; the height follows the pitch's aspect.
func WithWidth(w vg.Length) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.width = w
		}
	}
}

// WithLabels turns jersey labels on or off.
func WithLabels(on bool) Option {
	return func(r *Renderer) {
		r.labels = on
	}
}

// WithVelocityArrows draws each velocity as a line covering seconds of
// movement; zero hides them.
func WithVelocityArrows(seconds float64) Option {
	return func(r *Renderer) {
		if seconds >= 0 {
			r.arrowTime = seconds
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, labels: true, arrowTime: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("render")
	}
	return r
}

// Render draws f and writes it to f.Path. The format follows the file
// extension (png, svg, pdf, ...).
func (r *Renderer) Render(ctx context.Context, f Figure) error {
	if err := f.validate(); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = f.Title
	p.HideAxes()

	hm := plotter.NewHeatMap(cells{grid: f.Grid, values: f.Values}, r.palette(f))
	hm.Min, hm.Max = valueRange(f)
	p.Add(hm)

	for _, xys := range markings(f.Grid.Field) {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("pitch markings: %w", err)
		}
		l.LineStyle.Color = lineColor
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
	}

	if err := r.addPlayers(p, f); err != nil {
		return err
	}

	margin := 2.0
	p.X.Min, p.X.Max = -f.Grid.Field.Length/2-margin, f.Grid.Field.Length/2+margin
	p.Y.Min, p.Y.Max = -f.Grid.Field.Width/2-margin, f.Grid.Field.Width/2+margin

	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	height := r.width * vg.Length((f.Grid.Field.Width+2*margin)/(f.Grid.Field.Length+2*margin))
	if err := p.Save(r.width, height+vg.Inch/2, f.Path); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	r.logger.Info(ctx, "figure written",
		logger.String("path", f.Path),
		logger.String("title", f.Title),
		logger.Bool("difference", f.Difference),
	)
	return nil
}

func (r *Renderer) palette(f Figure) palette.Palette {
	cm := moreland.SmoothBlueRed()
	lo, hi := valueRange(f)
	cm.SetMin(lo)
	cm.SetMax(hi)
	cm.SetConvergePoint((lo + hi) / 2)
	return cm.Palette(paletteColors)
}

// valueRange is [0, 1] for control, and symmetric about zero for a
// difference.
func valueRange(f Figure) (lo, hi float64) {
	if !f.Difference {
		return 0, 1
	}
	raw := f.Values.RawMatrix()
	var m float64
	if len(raw.Data) > 0 {
		m = math.Max(math.Abs(floats.Min(raw.Data)), math.Abs(floats.Max(raw.Data)))
	}
	if !(m > 0) || math.IsInf(m, 0) {
		m = 1
	}
	return -m, m
}

func (r *Renderer) addPlayers(p *plot.Plot, f Figure) error {
	for _, team := range []model.Team{model.Home, model.Away} {
		players := f.Snapshot.Team(team)
		if len(players) == 0 {
			continue
		}
		c := homeColor
		if team == model.Away {
			c = awayColor
		}

		xys := make(plotter.XYs, len(players))
		labels := make([]string, len(players))
		for i, pl := range players {
			xys[i].X, xys[i].Y = pl.Position.X, pl.Position.Y
			labels[i] = pl.Key.ID

			if r.arrowTime > 0 && (pl.Velocity.X != 0 || pl.Velocity.Y != 0) {
				end := model.Vec2{X: pl.Position.X + r.arrowTime*pl.Velocity.X, Y: pl.Position.Y + r.arrowTime*pl.Velocity.Y}
				l, err := plotter.NewLine(plotter.XYs{{X: pl.Position.X, Y: pl.Position.Y}, {X: end.X, Y: end.Y}})
				if err != nil {
					return fmt.Errorf("velocity of %s: %w", pl.Key, err)
				}
				l.LineStyle.Color = c
				l.LineStyle.Width = vg.Points(1.5)
				p.Add(l)
			}
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("%s players: %w", team, err)
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(5)
		p.Add(sc)

		if r.labels {
			lb, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
			if err != nil {
				return fmt.Errorf("%s labels: %w", team, err)
			}
			for i := range lb.TextStyle {
				lb.TextStyle[i].Color = labelColor
			}
			lb.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(4)}
			p.Add(lb)
		}
	}

	if f.Highlight != nil {
		pl, err := f.Snapshot.Player(*f.Highlight)
		if err == nil {
			ring, err := plotter.NewScatter(plotter.XYs{{X: pl.Position.X, Y: pl.Position.Y}})
			if err != nil {
				return err
			}
			ring.GlyphStyle.Color = color.Black
			ring.GlyphStyle.Shape = draw.RingGlyph{}
			ring.GlyphStyle.Radius = vg.Points(9)
			p.Add(ring)
		}
	}

	if ball := f.Snapshot.Ball(); model.IsFinite(ball) {
		b, err := plotter.NewScatter(plotter.XYs{{X: ball.X, Y: ball.Y}})
		if err != nil {
			return err
		}
		b.GlyphStyle.Color = color.Black
		b.GlyphStyle.Shape = draw.CircleGlyph{}
		b.GlyphStyle.Radius = vg.Points(3)
		p.Add(b)
	}
	return nil
}

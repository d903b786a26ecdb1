package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/pitchspace/internal/adapters/render"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func fixture() (surface.Grid, *surface.Surface, *surface.Surface, model.Snapshot) {
	g, err := surface.NewGrid(surface.DefaultField, 20)
	if err != nil {
		panic(err)
	}
	att := mat.NewDense(g.NY, g.NX, nil)
	alt := mat.NewDense(g.NY, g.NX, nil)
	for r := 0; r < g.NY; r++ {
		for c := 0; c < g.NX; c++ {
			att.Set(r, c, float64(c)/float64(g.NX))
			alt.Set(r, c, float64(r)/float64(g.NY))
		}
	}
	a, _ := surface.New(g, model.Home, att)
	b, _ := surface.New(g, model.Home, alt)
	snap := model.NewSnapshot(3, 120, model.Home, model.Vec2{X: 1, Y: 1}, []model.PlayerState{
		{Key: model.PlayerKey{Team: model.Home, ID: "7"}, Position: model.Vec2{X: 0, Y: 0}, Velocity: model.Vec2{X: 3, Y: 1}},
		{Key: model.PlayerKey{Team: model.Away, ID: "19"}, Position: model.Vec2{X: 10, Y: -5}},
	})
	return g, a, b, snap
}

func TestRender(t *testing.T) {
	ctx := context.Background()

	Convey("Given a renderer and a control surface", t, func() {
		_, a, b, snap := fixture()
		r := render.New(render.WithWidth(6 * vg.Inch))
		dir := t.TempDir()

		Convey("When a control figure is rendered", func() {
			path := filepath.Join(dir, "control.png")
			err := r.Render(ctx, render.ControlFigure(a, model.Home, snap, path))

			Convey("Then a PNG is written", func() {
				So(err, ShouldBeNil)
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a difference figure is rendered into a new directory", func() {
			d, err := space.NewAggregator().Compare(a, b, model.Home)
			So(err, ShouldBeNil)
			path := filepath.Join(dir, "figures", "difference.svg")
			fig := render.DifferenceFigure("Space created by Home Player 7 during event 3", d, snap, path)
			key := model.PlayerKey{Team: model.Home, ID: "7"}
			fig.Highlight = &key

			Convey("Then the file is written", func() {
				So(r.Render(ctx, fig), ShouldBeNil)
				_, err := os.Stat(path)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the surfaces are identical", func() {
			d, _ := space.NewAggregator().Compare(a, a, model.Home)
			path := filepath.Join(dir, "flat.png")
			err := render.New(render.WithLabels(false), render.WithVelocityArrows(0)).
				Render(ctx, render.DifferenceFigure("flat", d, snap, path))

			Convey("Then a flat difference still draws", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given invalid figures", t, func() {
		g, a, _, snap := fixture()
		r := render.New()

		Convey("Then a missing path is rejected", func() {
			err := r.Render(ctx, render.ControlFigure(a, model.Home, snap, ""))
			So(errors.Is(err, render.ErrInvalidFigure), ShouldBeTrue)
		})

		Convey("Then mismatched values are rejected", func() {
			fig := render.Figure{Grid: g, Values: mat.NewDense(2, 2, nil), Path: filepath.Join(t.TempDir(), "x.png")}
			So(errors.Is(r.Render(ctx, fig), render.ErrInvalidFigure), ShouldBeTrue)
		})

		Convey("Then a cancelled context writes nothing", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			path := filepath.Join(t.TempDir(), "never.png")
			So(errors.Is(r.Render(cctx, render.ControlFigure(a, model.Home, snap, path)), context.Canceled), ShouldBeTrue)
			_, err := os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
}

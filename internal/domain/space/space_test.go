package space_test

import (
	"errors"
	"testing"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

func grid(nx int) surface.Grid {
	g, err := surface.NewGrid(surface.Field{Length: 40, Width: 20}, nx)
	if err != nil {
		panic(err)
	}
	return g
}

func ramp(g surface.Grid, scale float64) *mat.Dense {
	m := mat.NewDense(g.NY, g.NX, nil)
	n := float64(g.Cells())
	m.Apply(func(r, c int, _ float64) float64 {
		return scale * float64(r*g.NX+c+1) / (n + 1)
	}, m)
	return m
}

func mustSurface(g surface.Grid, att *mat.Dense) *surface.Surface {
	s, err := surface.New(g, model.Home, att)
	if err != nil {
		panic(err)
	}
	return s
}

func TestTotal(t *testing.T) {
	Convey("Given an unweighted aggregator", t, func() {
		agg := space.NewAggregator()
		g := grid(4)
		s := mustSurface(g, ramp(g, 1))

		Convey("Then total space is cell area times summed probability", func() {
			want := g.CellArea() * mat.Sum(s.ForTeam(model.Home))
			So(agg.Total(s, model.Home), ShouldAlmostEqual, want, 1e-9)
			So(agg.Unit(), ShouldEqual, space.SquareMetres)
		})

		Convey("Then both teams together cover the field", func() {
			sum := agg.Total(s, model.Home) + agg.Total(s, model.Away)
			So(sum, ShouldAlmostEqual, 40*20, 1e-9)
		})

		Convey("When there is no surface", func() {
			So(func() { agg.Total(nil, model.Home) }, ShouldNotPanic)
			So(agg.Total(nil, model.Home), ShouldEqual, 0.0)
		})
	})
}

func TestZeroDelta(t *testing.T) {
	Convey("Given a zero Delta", t, func() {
		var d space.Delta

		Convey("Then its accessors are empty instead of panicking", func() {
			So(func() { d.Cells() }, ShouldNotPanic)
			So(d.Cells(), ShouldBeNil)
			So(d.Probability(), ShouldBeNil)
			So(d.Net(), ShouldEqual, 0.0)
			So(d.Gained(), ShouldEqual, 0.0)
			So(d.Lost(), ShouldEqual, 0.0)
		})

		Convey("When a comparison fails", func() {
			d, err := space.NewAggregator().Compare(nil, nil, model.Home)
			So(errors.Is(err, surface.ErrGridMismatch), ShouldBeTrue)
			So(d.Probability(), ShouldBeNil)
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given two surfaces on the same grid", t, func() {
		agg := space.NewAggregator()
		g := grid(8)
		a := mustSurface(g, ramp(g, 0.5))
		b := mustSurface(g, ramp(g, 0.9))

		Convey("When a surface is compared with itself", func() {
			d, err := agg.Compare(a, a, model.Home)
			So(err, ShouldBeNil)

			Convey("Then nothing is gained", func() {
				So(d.Net(), ShouldEqual, 0.0)
				So(d.Gained(), ShouldEqual, 0.0)
				So(d.Lost(), ShouldEqual, 0.0)
			})
		})

		Convey("When the comparison is reversed", func() {
			ab, err := agg.Compare(a, b, model.Home)
			So(err, ShouldBeNil)
			ba, err := agg.Compare(b, a, model.Home)
			So(err, ShouldBeNil)

			Convey("Then the result is negated exactly", func() {
				So(ab.Net(), ShouldBeGreaterThan, 0)
				So(ba.Net(), ShouldEqual, -ab.Net())
				So(ab.Gained(), ShouldEqual, ba.Lost())
			})
		})

		Convey("When comparing from the defending side", func() {
			home, _ := agg.Compare(a, b, model.Home)
			away, _ := agg.Compare(a, b, model.Away)

			Convey("Then the defending team loses what the attackers gain", func() {
				So(away.Net(), ShouldAlmostEqual, -home.Net(), 1e-9)
			})
		})

		Convey("Then the net gain equals the difference of totals", func() {
			d, _ := agg.Compare(a, b, model.Home)
			So(d.Net(), ShouldAlmostEqual, agg.Total(b, model.Home)-agg.Total(a, model.Home), 1e-9)
			So(d.Probability().At(0, 0), ShouldAlmostEqual, b.At(model.Home, 0, 0)-a.At(model.Home, 0, 0), 1e-12)
		})
	})

	Convey("Given surfaces on different grids", t, func() {
		agg := space.NewAggregator()
		a := mustSurface(grid(4), ramp(grid(4), 1))
		b := mustSurface(grid(8), ramp(grid(8), 1))

		_, err := agg.Compare(a, b, model.Home)
		So(errors.Is(err, space.ErrGridMismatch), ShouldBeTrue)
	})
}

func TestWeights(t *testing.T) {
	Convey("Given weights concentrated at the +x end", t, func() {
		src := grid(4)
		values := mat.NewDense(src.NY, src.NX, nil)
		for r := 0; r < src.NY; r++ {
			values.Set(r, src.NX-1, 1)
		}
		w, err := space.NewWeights(src, values)
		So(err, ShouldBeNil)

		g := grid(8)
		att := mat.NewDense(g.NY, g.NX, nil)
		for r := 0; r < g.NY; r++ {
			for c := g.NX / 2; c < g.NX; c++ {
				att.Set(r, c, 1)
			}
		}
		s := mustSurface(g, att)

		Convey("Then a team attacking towards +x owns all the value", func() {
			agg := space.NewAggregator(space.WithWeights(w, nil))
			So(agg.Unit(), ShouldEqual, space.WeightShare)
			So(agg.Total(s, model.Home), ShouldAlmostEqual, 1, 1e-9)
			So(agg.Total(s, model.Away), ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Then mirroring the direction moves the value to -x", func() {
			agg := space.NewAggregator(space.WithWeights(w, func(model.Team) float64 { return -1 }))
			So(agg.Total(s, model.Home), ShouldAlmostEqual, 0, 1e-9)
			So(agg.Total(s, model.Away), ShouldAlmostEqual, 1, 1e-9)
		})
	})

	Convey("Given invalid weights", t, func() {
		g := grid(4)
		_, err := space.NewWeights(g, mat.NewDense(g.NY, g.NX, nil))
		So(errors.Is(err, space.ErrInvalidWeights), ShouldBeTrue)

		_, err = space.NewWeights(g, mat.NewDense(1, 1, []float64{1}))
		So(errors.Is(err, space.ErrInvalidWeights), ShouldBeTrue)

		neg := ramp(g, 1)
		neg.Set(0, 0, -1)
		_, err = space.NewWeights(g, neg)
		So(errors.Is(err, space.ErrInvalidWeights), ShouldBeTrue)
	})
}

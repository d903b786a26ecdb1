package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/pitchspace/internal/adapters/repository"
	service "github.com/okian/pitchspace/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func smallSearch(seed uint64) service.SearchOptions {
	return service.SearchOptions{
		SizeOfGrid:     20,
		LocationTrials: 12,
		VelocityTrials: 6,
		MaxVelocity:    5,
		Seed:           seed,
		TopN:           3,
	}
}

func TestAnalysis_OptimalLocation(t *testing.T) {
	ctx := context.Background()

	Convey("Given an analysis with a small seeded search", t, func() {
		a, err := newAnalysis(p7, service.WithSearch(smallSearch(7)))
		So(err, ShouldBeNil)

		res, err := a.OptimalLocation(ctx)
		So(err, ShouldBeNil)

		Convey("Then every trial and the actual placement are ranked", func() {
			So(res.Trials, ShouldEqual, 1+12+6)
			So(len(res.Top), ShouldEqual, 3)
			So(res.Top[0], ShouldResemble, res.Best)
			So(res.Actual.Phase, ShouldEqual, repository.PhaseActual)
			So(res.Actual.Rank, ShouldBeGreaterThanOrEqualTo, 1)
			So(res.Gain(), ShouldBeGreaterThanOrEqualTo, 0.0)
		})

		Convey("Then sampled locations stay within the square and the pitch", func() {
			for _, e := range res.Top {
				if e.Phase == repository.PhaseActual {
					continue
				}
				So(e.Position.X, ShouldBeBetweenOrEqual, 10.0, 30.0)
				So(e.Position.Y, ShouldBeBetweenOrEqual, 0.0, 20.0)
			}
		})

		Convey("Then the same seed reproduces the result", func() {
			again, err := newAnalysis(p7, service.WithSearch(smallSearch(7)))
			So(err, ShouldBeNil)
			res2, err := again.OptimalLocation(ctx)
			So(err, ShouldBeNil)
			So(res2.Best, ShouldResemble, res.Best)
			So(res2.Actual.Rank, ShouldEqual, res.Actual.Rank)
		})
	})

	Convey("Given a search with no trials", t, func() {
		opts := smallSearch(1)
		opts.LocationTrials, opts.VelocityTrials = 0, 0
		a, _ := newAnalysis(p7, service.WithSearch(opts))

		res, err := a.OptimalLocation(ctx)
		So(err, ShouldBeNil)
		So(res.Best.ID, ShouldEqual, res.Actual.ID)
		So(res.Gain(), ShouldEqual, 0.0)
	})

	Convey("Given invalid search options", t, func() {
		opts := smallSearch(1)
		opts.TopN = 0
		a, _ := newAnalysis(p7, service.WithSearch(opts))

		_, err := a.OptimalLocation(ctx)
		So(errors.Is(err, service.ErrInvalidSearch), ShouldBeTrue)
	})
}

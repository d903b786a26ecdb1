package service_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/okian/pitchspace/internal/adapters/pitchcontrol"
	service "github.com/okian/pitchspace/internal/app"
	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/internal/domain/scenario"
	"github.com/okian/pitchspace/internal/domain/selector"
	"github.com/okian/pitchspace/internal/domain/space"
	"github.com/okian/pitchspace/internal/domain/surface"
	"github.com/okian/pitchspace/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// influence is a deterministic stand-in for a pitch control model: each
// player exerts a Gaussian influence scaled by (1 + speed), and Home's
// control probability is the logistic of the influence balance.
func influence(sigma float64) surface.ModelFunc {
	return func(ctx context.Context, snap model.Snapshot, grid surface.Grid) (*surface.Surface, error) {
		att := mat.NewDense(grid.NY, grid.NX, nil)
		for r := 0; r < grid.NY; r++ {
			for c := 0; c < grid.NX; c++ {
				x, y := grid.X(c), grid.Y(r)
				var balance float64
				for _, p := range snap.Players() {
					dx, dy := x-p.Position.X, y-p.Position.Y
					w := (1 + math.Hypot(p.Velocity.X, p.Velocity.Y)) * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
					if p.Key.Team == model.Home {
						balance += w
					} else {
						balance -= w
					}
				}
				home := 1 / (1 + math.Exp(-balance))
				if snap.Attacking() == model.Home {
					att.Set(r, c, home)
				} else {
					att.Set(r, c, 1-home)
				}
			}
		}
		return surface.New(grid, snap.Attacking(), att)
	}
}

// elevenASide puts Home's number 7 at (20, 10) standing still, with the
// rest of both teams spread over the pitch.
func elevenASide() *model.Dataset {
	var players []model.PlayerState
	for i := 1; i <= 11; i++ {
		home := model.PlayerState{
			Key:      model.PlayerKey{Team: model.Home, ID: strconv.Itoa(i)},
			Position: model.Vec2{X: -45 + float64(i)*6, Y: float64(i%5)*12 - 24},
			Velocity: model.Vec2{X: 1, Y: 0},
		}
		if i == 7 {
			home.Position = model.Vec2{X: 20, Y: 10}
			home.Velocity = model.Vec2{}
		}
		away := model.PlayerState{
			Key:      model.PlayerKey{Team: model.Away, ID: strconv.Itoa(i + 14)},
			Position: model.Vec2{X: 45 - float64(i)*6, Y: 24 - float64(i%4)*14},
			Velocity: model.Vec2{X: -1, Y: 0.5},
		}
		players = append(players, home, away)
	}
	// A substitute who is not on the pitch.
	players = append(players, model.PlayerState{
		Key:      model.PlayerKey{Team: model.Home, ID: "12"},
		Position: model.NaNVec(),
		Velocity: model.NaNVec(),
	})
	return &model.Dataset{
		ID: "fixture",
		Events: []model.Event{
			{Team: model.Home, Type: "PASS", Period: 1, StartFrame: 100, Start: model.Vec2{X: 10, Y: 0}},
		},
		Frames: map[int]model.Frame{
			100: {Period: 1, Number: 100, Ball: model.Vec2{X: 10, Y: 0}, Players: players},
		},
		Goalkeepers: map[model.Team]string{model.Home: "1", model.Away: "15"},
	}
}

func grid() surface.Grid {
	g, err := surface.NewGrid(surface.DefaultField, 32)
	if err != nil {
		panic(err)
	}
	return g
}

func newAnalysis(key model.PlayerKey, opts ...service.Option) (*service.Analysis, error) {
	opts = append([]service.Option{service.WithGrid(grid()), service.WithPlayer(key)}, opts...)
	return service.New(elevenASide(), influence(8), opts...)
}

var p7 = model.PlayerKey{Team: model.Home, ID: "7"}

func TestAnalysis_New(t *testing.T) {
	Convey("Given the eleven-a-side fixture", t, func() {
		Convey("When a player on the pitch is analysed", func() {
			a, err := newAnalysis(p7)
			So(err, ShouldBeNil)

			Convey("Then the analysis is bound to it", func() {
				So(a.Player(), ShouldResemble, p7)
				So(a.Event(), ShouldEqual, 0)
				So(a.RunID(), ShouldNotBeEmpty)
				So(a.Unit(), ShouldEqual, space.SquareMetres)
			})

			Convey("Then the team's players on the pitch are listed", func() {
				ids, err := a.PlayersOnPitch()
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"})
			})
		})

		Convey("When the team is not Home or Away", func() {
			_, err := newAnalysis(model.PlayerKey{Team: "Visitors", ID: "7"})
			So(errors.Is(err, model.ErrInvalidTeam), ShouldBeTrue)
		})

		Convey("When the player is off the pitch", func() {
			_, err := newAnalysis(model.PlayerKey{Team: model.Home, ID: "12"})
			So(errors.Is(err, selector.ErrPlayerNotFound), ShouldBeTrue)
		})

		Convey("When the player is on the other team", func() {
			_, err := newAnalysis(model.PlayerKey{Team: model.Away, ID: "7"})
			So(errors.Is(err, selector.ErrPlayerNotFound), ShouldBeTrue)
		})

		Convey("When the event does not exist", func() {
			_, err := newAnalysis(p7, service.WithEvent(5))
			So(errors.Is(err, selector.ErrEventNotFound), ShouldBeTrue)
		})

		Convey("When no grid is configured", func() {
			_, err := service.New(elevenASide(), influence(8), service.WithPlayer(p7))
			So(errors.Is(err, service.ErrInvalidAnalysis), ShouldBeTrue)
		})
	})
}

func TestAnalysis_Space(t *testing.T) {
	ctx := context.Background()

	Convey("Given an analysis of Home 7 standing at (20, 10)", t, func() {
		a, err := newAnalysis(p7)
		So(err, ShouldBeNil)

		Convey("When the player runs right at 5 m/s instead", func() {
			run := scenario.Movement{Velocity: model.Vec2{X: 5, Y: 0}}
			gain, err := a.ScenarioGain(ctx, run)
			So(err, ShouldBeNil)

			Convey("Then Home would have gained space", func() {
				So(gain.Net(), ShouldBeGreaterThan, 0)
				So(gain.Team(), ShouldEqual, model.Home)
			})

			Convey("Then standing still created the exact opposite", func() {
				created, err := a.SpaceCreated(ctx, run)
				So(err, ShouldBeNil)
				So(created, ShouldEqual, -gain.Net())
			})
		})

		Convey("When the change repeats the actual movement", func() {
			snap, _ := a.Snapshot()
			me, _ := snap.Player(p7)
			same := scenario.Movement{Velocity: me.Velocity}

			Convey("Then the surface is unchanged and nothing is created", func() {
				actual, err := a.ActualSurface(ctx)
				So(err, ShouldBeNil)
				hyp, err := a.ReplacedSurface(ctx, same)
				So(err, ShouldBeNil)
				So(mat.EqualApprox(actual.ForTeam(model.Home), hyp.ForTeam(model.Home), 1e-12), ShouldBeTrue)

				created, err := a.SpaceCreated(ctx, same)
				So(err, ShouldBeNil)
				So(created, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the player is removed", func() {
			created, err := a.SpaceCreated(ctx, scenario.Removal{})

			Convey("Then their presence created space", func() {
				So(err, ShouldBeNil)
				So(created, ShouldBeGreaterThan, 0)
			})
		})

		Convey("Then both teams' totals cover the pitch", func() {
			home, err := a.TotalSpace(ctx, model.Home)
			So(err, ShouldBeNil)
			away, err := a.TotalSpace(ctx, model.Away)
			So(err, ShouldBeNil)
			So(home+away, ShouldAlmostEqual, 106*68, 1e-6)

			_, err = a.TotalSpace(ctx, "Visitors")
			So(errors.Is(err, model.ErrInvalidTeam), ShouldBeTrue)
		})

		Convey("Then the difference surface has the player's team's viewpoint", func() {
			d, err := a.Difference(ctx, scenario.Movement{Velocity: model.Vec2{X: 5, Y: 0}})
			So(err, ShouldBeNil)
			So(d.Net(), ShouldBeLessThan, 0)
			So(d.Lost(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given an analysis of a defending player", t, func() {
		a, err := newAnalysis(model.PlayerKey{Team: model.Away, ID: "19"})
		So(err, ShouldBeNil)

		Convey("Then removing them still costs their own team space", func() {
			created, err := a.SpaceCreated(ctx, scenario.Removal{})
			So(err, ShouldBeNil)
			So(created, ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a model that violates the probability contract", t, func() {
		broken := surface.ModelFunc(func(ctx context.Context, snap model.Snapshot, g surface.Grid) (*surface.Surface, error) {
			zero := mat.NewDense(g.NY, g.NX, nil)
			return surface.NewPair(g, snap.Attacking(), zero, zero)
		})
		a, err := service.New(elevenASide(), broken, service.WithGrid(grid()), service.WithPlayer(p7))
		So(err, ShouldBeNil)

		_, err = a.TotalSpace(ctx, model.Home)
		So(errors.Is(err, surface.ErrModelContract), ShouldBeTrue)

		Convey("Unless the check is disabled", func() {
			lax, _ := service.New(elevenASide(), broken, service.WithGrid(grid()), service.WithPlayer(p7), service.WithTolerance(0))
			total, err := lax.TotalSpace(ctx, model.Home)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 0.0)
		})
	})
}

func TestAnalysis_PitchControl(t *testing.T) {
	ctx := context.Background()

	Convey("Given Home 7 standing at (20, 10) under the pitch control model", t, func() {
		pc, err := pitchcontrol.New()
		So(err, ShouldBeNil)
		a, err := service.New(elevenASide(), pc, service.WithGrid(grid()), service.WithPlayer(p7))
		So(err, ShouldBeNil)

		Convey("When the player runs right at 5 m/s instead", func() {
			run := scenario.Movement{Velocity: model.Vec2{X: 5, Y: 0}}
			gain, err := a.ScenarioGain(ctx, run)
			So(err, ShouldBeNil)

			Convey("Then Home would have gained space", func() {
				So(gain.Net(), ShouldBeGreaterThan, 0)
			})

			Convey("Then the difference is the exact opposite", func() {
				d, err := a.Difference(ctx, run)
				So(err, ShouldBeNil)
				So(d.Net(), ShouldEqual, -gain.Net())

				created, err := a.SpaceCreated(ctx, run)
				So(err, ShouldBeNil)
				So(created, ShouldEqual, -gain.Net())
			})
		})

		Convey("When the change repeats the actual movement", func() {
			created, err := a.SpaceCreated(ctx, scenario.Movement{Velocity: model.Vec2{}})

			Convey("Then nothing is created", func() {
				So(err, ShouldBeNil)
				So(created, ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})
}

func TestAnalysis_Weights(t *testing.T) {
	ctx := context.Background()

	Convey("Given uniform weights", t, func() {
		src, _ := surface.NewGrid(surface.DefaultField, 10)
		ones := mat.NewDense(src.NY, src.NX, nil)
		ones.Apply(func(_, _ int, _ float64) float64 { return 1 }, ones)
		w, err := space.NewWeights(src, ones)
		So(err, ShouldBeNil)

		a, err := newAnalysis(p7, service.WithWeights(w))
		So(err, ShouldBeNil)

		Convey("Then totals are shares of the pitch", func() {
			So(a.Unit(), ShouldEqual, space.WeightShare)
			home, _ := a.TotalSpace(ctx, model.Home)
			away, _ := a.TotalSpace(ctx, model.Away)
			So(home, ShouldBeBetween, 0.0, 1.0)
			So(home+away, ShouldAlmostEqual, 1, 1e-9)
		})
	})
}

func TestAnalysis_Plot(t *testing.T) {
	ctx := context.Background()

	Convey("Given an analysis", t, func() {
		a, err := newAnalysis(p7)
		So(err, ShouldBeNil)
		dir := t.TempDir()

		Convey("When the difference is plotted", func() {
			path := filepath.Join(dir, "p7.png")
			err := a.PlotDifference(ctx, scenario.Movement{}, path)

			Convey("Then an image is written", func() {
				So(err, ShouldBeNil)
				_, err := os.Stat(path)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the control surface is plotted", func() {
			path := filepath.Join(dir, "control.png")
			So(a.PlotControl(ctx, model.Home, path), ShouldBeNil)
		})
	})
}

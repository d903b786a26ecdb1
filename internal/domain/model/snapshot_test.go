package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/pitchspace/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func twoPlayers() model.Snapshot {
	return model.NewSnapshot(7, 1200, model.Home, model.Vec2{X: 1, Y: 2}, []model.PlayerState{
		{Key: model.PlayerKey{Team: model.Home, ID: "7"}, Position: model.Vec2{X: 20, Y: 10}},
		{Key: model.PlayerKey{Team: model.Away, ID: "4"}, Position: model.Vec2{X: -5, Y: 3}, Velocity: model.Vec2{X: 1}},
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot with two players", t, func() {
		snap := twoPlayers()

		Convey("Then accessors expose the event context", func() {
			So(snap.EventIndex(), ShouldEqual, 7)
			So(snap.Frame(), ShouldEqual, 1200)
			So(snap.Attacking(), ShouldEqual, model.Home)
			So(snap.Len(), ShouldEqual, 2)
			So(len(snap.Team(model.Away)), ShouldEqual, 1)
		})

		Convey("When the caller mutates the slice returned by Players", func() {
			ps := snap.Players()
			ps[0].Position = model.Vec2{X: 99, Y: 99}

			Convey("Then the snapshot is unaffected", func() {
				p, err := snap.Player(model.PlayerKey{Team: model.Home, ID: "7"})
				So(err, ShouldBeNil)
				So(p.Position, ShouldResemble, model.Vec2{X: 20, Y: 10})
			})
		})

		Convey("When a player is replaced", func() {
			key := model.PlayerKey{Team: model.Home, ID: "7"}
			next, err := snap.Replace(model.PlayerState{Key: key, Position: model.Vec2{X: 20, Y: 10}, Velocity: model.Vec2{X: 5}})
			So(err, ShouldBeNil)

			Convey("Then only the new snapshot carries the change", func() {
				p, _ := next.Player(key)
				So(p.Velocity, ShouldResemble, model.Vec2{X: 5})
				orig, _ := snap.Player(key)
				So(orig.Velocity, ShouldResemble, model.Vec2{})
			})
		})

		Convey("When a player is removed", func() {
			next, err := snap.Remove(model.PlayerKey{Team: model.Away, ID: "4"})
			So(err, ShouldBeNil)
			So(next.Len(), ShouldEqual, 1)
			So(snap.Len(), ShouldEqual, 2)
		})

		Convey("When an unknown player is requested", func() {
			_, err := snap.Player(model.PlayerKey{Team: model.Away, ID: "99"})
			So(errors.Is(err, model.ErrPlayerNotFound), ShouldBeTrue)
			_, err = snap.Replace(model.PlayerState{Key: model.PlayerKey{Team: model.Away, ID: "99"}})
			So(errors.Is(err, model.ErrPlayerNotFound), ShouldBeTrue)
		})
	})
}

func TestTeam(t *testing.T) {
	Convey("Given team names", t, func() {
		home, err := model.ParseTeam(" HOME ")
		So(err, ShouldBeNil)
		So(home, ShouldEqual, model.Home)
		So(home.Opponent(), ShouldEqual, model.Away)

		_, err = model.ParseTeam("visitors")
		So(errors.Is(err, model.ErrInvalidTeam), ShouldBeTrue)
	})
}

func TestIsFinite(t *testing.T) {
	if model.IsFinite(model.NaNVec()) {
		t.Error("NaN vector reported finite")
	}
	if model.IsFinite(model.Vec2{X: math.Inf(1)}) {
		t.Error("Inf vector reported finite")
	}
	if !model.IsFinite(model.Vec2{X: 1, Y: -1}) {
		t.Error("finite vector reported non-finite")
	}
}

// Package selector extracts a Snapshot from a loaded match at a given event.
package selector

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/okian/pitchspace/internal/domain/model"
)

// Event returns the event at index, or ErrEventNotFound.
func Event(ds *model.Dataset, index int) (model.Event, error) {
	if ds == nil || index < 0 || index >= len(ds.Events) {
		return model.Event{}, fmt.Errorf("%w: index %d", ErrEventNotFound, index)
	}
	return ds.Events[index], nil
}

// Select builds the snapshot at the start frame of the event at index.
// Players that are off the pitch (non-finite position) are left out; a
// non-finite velocity is read as stationary.
func Select(ds *model.Dataset, index int) (model.Snapshot, error) {
	ev, err := Event(ds, index)
	if err != nil {
		return model.Snapshot{}, err
	}
	frame, ok := ds.Frames[ev.StartFrame]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: frame %d for event %d", ErrFrameNotFound, ev.StartFrame, index)
	}

	players := make([]model.PlayerState, 0, len(frame.Players))
	for _, p := range frame.Players {
		if !model.IsFinite(p.Position) {
			continue
		}
		if !model.IsFinite(p.Velocity) {
			p.Velocity = model.Vec2{}
		}
		if gk, ok := ds.Goalkeepers[p.Key.Team]; ok && gk == p.Key.ID {
			p.Goalkeeper = true
		}
		players = append(players, p)
	}

	// The event row carries the ball position; fall back to the tracked ball.
	ball := ev.Start
	if !model.IsFinite(ball) {
		ball = frame.Ball
	}
	return model.NewSnapshot(index, frame.Number, ev.Team, ball, players), nil
}

// SelectForPlayer is Select plus a check that key was on the pitch.
func SelectForPlayer(ds *model.Dataset, index int, key model.PlayerKey) (model.Snapshot, error) {
	if !key.Team.Valid() {
		return model.Snapshot{}, fmt.Errorf("%w: %q", model.ErrInvalidTeam, key.Team)
	}
	snap, err := Select(ds, index)
	if err != nil {
		return model.Snapshot{}, err
	}
	if _, err := snap.Player(key); err != nil {
		return model.Snapshot{}, fmt.Errorf("event %d: %w", index, err)
	}
	return snap, nil
}

// PlayersOnPitch lists the ids of team's players on the pitch at the event,
// ordered numerically.
func PlayersOnPitch(ds *model.Dataset, index int, team model.Team) ([]string, error) {
	snap, err := Select(ds, index)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range snap.Team(team) {
		ids = append(ids, p.Key.ID)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

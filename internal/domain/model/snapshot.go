package model

import "fmt"

// Snapshot is the state of every on-pitch player and the ball at one moment.
//
// A Snapshot is a value: its player slice is never shared with callers, so
// a copy handed to one scenario cannot leak changes into another.
type Snapshot struct {
	eventIndex int
	frame      int
	attacking  Team
	ball       Vec2
	players    []PlayerState
}

// NewSnapshot copies players into a new Snapshot.
func NewSnapshot(eventIndex, frame int, attacking Team, ball Vec2, players []PlayerState) Snapshot {
	ps := make([]PlayerState, len(players))
	copy(ps, players)
	return Snapshot{
		eventIndex: eventIndex,
		frame:      frame,
		attacking:  attacking,
		ball:       ball,
		players:    ps,
	}
}

// EventIndex is the event the snapshot was taken at.
func (s Snapshot) EventIndex() int { return s.eventIndex }

// Frame is the tracking frame number.
func (s Snapshot) Frame() int { return s.frame }

// Attacking is the team in possession.
func (s Snapshot) Attacking() Team { return s.attacking }

// Ball returns the ball position; non-finite when the ball was not tracked.
func (s Snapshot) Ball() Vec2 { return s.ball }

// Len returns the number of players in the snapshot.
func (s Snapshot) Len() int { return len(s.players) }

// Players returns a copy of all player states.
func (s Snapshot) Players() []PlayerState {
	out := make([]PlayerState, len(s.players))
	copy(out, s.players)
	return out
}

// Team returns a copy of the players belonging to t.
func (s Snapshot) Team(t Team) []PlayerState {
	var out []PlayerState
	for _, p := range s.players {
		if p.Key.Team == t {
			out = append(out, p)
		}
	}
	return out
}

// Player looks up a single player.
func (s Snapshot) Player(key PlayerKey) (PlayerState, error) {
	for _, p := range s.players {
		if p.Key == key {
			return p, nil
		}
	}
	return PlayerState{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, key)
}

// Replace returns a new Snapshot in which the player with state.Key is
// replaced by state. The receiver is left untouched.
func (s Snapshot) Replace(state PlayerState) (Snapshot, error) {
	idx := s.index(state.Key)
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, state.Key)
	}
	out := NewSnapshot(s.eventIndex, s.frame, s.attacking, s.ball, s.players)
	out.players[idx] = state
	return out, nil
}

// Remove returns a new Snapshot without the given player.
func (s Snapshot) Remove(key PlayerKey) (Snapshot, error) {
	idx := s.index(key)
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, key)
	}
	ps := make([]PlayerState, 0, len(s.players)-1)
	ps = append(ps, s.players[:idx]...)
	ps = append(ps, s.players[idx+1:]...)
	return Snapshot{
		eventIndex: s.eventIndex,
		frame:      s.frame,
		attacking:  s.attacking,
		ball:       s.ball,
		players:    ps,
	}, nil
}

func (s Snapshot) index(key PlayerKey) int {
	for i, p := range s.players {
		if p.Key == key {
			return i
		}
	}
	return -1
}

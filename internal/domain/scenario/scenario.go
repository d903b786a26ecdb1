// Package scenario builds hypothetical snapshots in which one player moves
// differently. Every function returns a new Snapshot; the base is never
// modified.
package scenario

import (
	"fmt"
	"strings"

	"github.com/okian/pitchspace/internal/domain/model"
	"github.com/okian/pitchspace/pkg/metrics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Change kinds.
const (
	KindMovement   = "movement"
	KindRelocation = "location"
	KindRemoval    = "presence"
)

// Change describes how the target player differs in the hypothetical.
type Change interface {
	Kind() string
	apply(base model.Snapshot, p model.PlayerState) (model.Snapshot, error)
}

// Movement replaces the player's velocity. A zero velocity means the player
// stands still.
type Movement struct {
	Velocity model.Vec2
}

// Kind implements Change.
func (Movement) Kind() string { return KindMovement }

func (c Movement) apply(base model.Snapshot, p model.PlayerState) (model.Snapshot, error) {
	p.Velocity = c.Velocity
	return base.Replace(p)
}

// Relocation moves the player by Offset and gives them Velocity.
type Relocation struct {
	Offset   model.Vec2
	Velocity model.Vec2
}

// Kind implements Change.
func (Relocation) Kind() string { return KindRelocation }

func (c Relocation) apply(base model.Snapshot, p model.PlayerState) (model.Snapshot, error) {
	p.Position = r2.Add(p.Position, c.Offset)
	p.Velocity = c.Velocity
	return base.Replace(p)
}

// placement puts the player at an absolute position.
type placement struct {
	position model.Vec2
	velocity model.Vec2
}

func (placement) Kind() string { return KindRelocation }

func (c placement) apply(base model.Snapshot, p model.PlayerState) (model.Snapshot, error) {
	p.Position = c.position
	p.Velocity = c.velocity
	return base.Replace(p)
}

// Removal takes the player off the pitch.
type Removal struct{}

// Kind implements Change.
func (Removal) Kind() string { return KindRemoval }

func (Removal) apply(base model.Snapshot, p model.PlayerState) (model.Snapshot, error) {
	return base.Remove(p.Key)
}

// NewChange builds a Change from its kind name and raw components, as found
// in configuration.
func NewChange(kind string, dx, dy, vx, vy float64) (Change, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindMovement:
		return Movement{Velocity: model.Vec2{X: vx, Y: vy}}, nil
	case KindRelocation:
		return Relocation{Offset: model.Vec2{X: dx, Y: dy}, Velocity: model.Vec2{X: vx, Y: vy}}, nil
	case KindRemoval:
		return Removal{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChange, kind)
	}
}

// Apply returns base with change applied to the player identified by key.
func Apply(base model.Snapshot, key model.PlayerKey, change Change) (model.Snapshot, error) {
	if change == nil {
		return model.Snapshot{}, fmt.Errorf("%w: nil", ErrUnknownChange)
	}
	p, err := base.Player(key)
	if err != nil {
		metrics.RecordErrorByComponent("scenario", "player_not_found")
		return model.Snapshot{}, err
	}
	out, err := change.apply(base, p)
	if err != nil {
		return model.Snapshot{}, err
	}
	metrics.RecordScenario(change.Kind())
	return out, nil
}

// WithVelocity replaces the player's velocity.
func WithVelocity(base model.Snapshot, key model.PlayerKey, v model.Vec2) (model.Snapshot, error) {
	return Apply(base, key, Movement{Velocity: v})
}

// WithPosition places the player at pos, keeping their velocity.
func WithPosition(base model.Snapshot, key model.PlayerKey, pos model.Vec2) (model.Snapshot, error) {
	p, err := base.Player(key)
	if err != nil {
		return model.Snapshot{}, err
	}
	return Apply(base, key, placement{position: pos, velocity: p.Velocity})
}

// Override sets the position and/or velocity; nil leaves the field as is.
func Override(base model.Snapshot, key model.PlayerKey, pos, vel *model.Vec2) (model.Snapshot, error) {
	p, err := base.Player(key)
	if err != nil {
		return model.Snapshot{}, err
	}
	c := placement{position: p.Position, velocity: p.Velocity}
	if pos != nil {
		c.position = *pos
	}
	if vel != nil {
		c.velocity = *vel
	}
	return Apply(base, key, c)
}

// Shift moves the player by offset, keeping their velocity.
func Shift(base model.Snapshot, key model.PlayerKey, offset model.Vec2) (model.Snapshot, error) {
	p, err := base.Player(key)
	if err != nil {
		return model.Snapshot{}, err
	}
	return Apply(base, key, Relocation{Offset: offset, Velocity: p.Velocity})
}

// Without removes the player.
func Without(base model.Snapshot, key model.PlayerKey) (model.Snapshot, error) {
	return Apply(base, key, Removal{})
}

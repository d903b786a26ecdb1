// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a position or velocity on the pitch, in metres or metres/second.
type Vec2 = r2.Vec

// Team identifies one side of a match.
type Team string

// Teams as named by the tracking data provider.
const (
	Home Team = "Home"
	Away Team = "Away"
)

// ParseTeam accepts "home"/"away" in any case.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return Home, nil
	case "away":
		return Away, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTeam, s)
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == Home {
		return Away
	}
	return Home
}

// Valid reports whether t is Home or Away.
func (t Team) Valid() bool { return t == Home || t == Away }

// PlayerKey identifies a player within a match.
type PlayerKey struct {
	Team Team
	ID   string // jersey number as printed by the provider
}

func (k PlayerKey) String() string { return string(k.Team) + "_" + k.ID }

// PlayerState is one player's kinematic state at a single moment.
type PlayerState struct {
	Key        PlayerKey
	Position   Vec2
	Velocity   Vec2
	Goalkeeper bool
}

// Finite reports whether position and velocity are both finite.
func (p PlayerState) Finite() bool {
	return IsFinite(p.Position) && IsFinite(p.Velocity)
}

// IsFinite reports whether both components of v are finite numbers.
func IsFinite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// NaNVec is used for absent coordinates (off-pitch players, missing ball).
func NaNVec() Vec2 { return Vec2{X: math.NaN(), Y: math.NaN()} }

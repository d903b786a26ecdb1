// Package repository ranks candidate player placements by the space they
// would create.
package repository

import (
	"context"

	"github.com/okian/pitchspace/internal/domain/model"
)

// Phases of the location search.
const (
	PhaseActual   = "actual"
	PhaseLocation = "location"
	PhaseVelocity = "velocity"
)

// Trial is one evaluated placement.
type Trial struct {
	ID       string
	Phase    string
	Position model.Vec2
	Velocity model.Vec2
	Score    float64
}

// Entry is a ranked trial.
type Entry struct {
	Rank int
	Trial
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Record stores t, or replaces an earlier trial with the same ID when
	// t scores higher. It reports whether the store changed.
	Record(ctx context.Context, t Trial) (bool, error)

	// Rank returns the entry for id. Returns ErrNotFound if it is unknown.
	Rank(ctx context.Context, id string) (Entry, error)

	// TopN returns the best n entries ordered by score desc, then id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of trials stored.
	Count(ctx context.Context) int
}

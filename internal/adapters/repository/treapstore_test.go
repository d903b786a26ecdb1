package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/okian/pitchspace/internal/domain/model"
)

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	updated, err := store.Record(ctx, Trial{ID: "actual", Phase: PhaseActual, Position: model.Vec2{X: 3, Y: 4}, Score: 12.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected record to succeed")
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "actual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.Score != 12.5 || entry.Position.X != 3 || entry.Phase != PhaseActual {
		t.Errorf("unexpected entry %+v", entry)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "actual" {
		t.Errorf("unexpected top entries %+v", entries)
	}
}

func TestTreapStore_KeepsBest(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.Record(ctx, Trial{ID: "t1", Score: 50}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := store.Record(ctx, Trial{ID: "t1", Score: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Error("expected lower score to be ignored")
	}
	updated, _ = store.Record(ctx, Trial{ID: "t1", Score: 60, Phase: PhaseVelocity})
	if !updated {
		t.Error("expected higher score to replace")
	}
	entry, _ := store.Rank(ctx, "t1")
	if entry.Score != 60 || entry.Phase != PhaseVelocity {
		t.Errorf("expected replaced trial, got %+v", entry)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestTreapStore_OrderingAndTies(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	for _, tr := range []Trial{
		{ID: "c", Score: 5},
		{ID: "a", Score: 10},
		{ID: "b", Score: 10},
		{ID: "d", Score: -3},
	} {
		if _, err := store.Record(ctx, tr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"a", "b", "c", "d"}
	wantRanks := []int{1, 1, 3, 4}
	for i, e := range entries {
		if e.ID != wantIDs[i] || e.Rank != wantRanks[i] {
			t.Errorf("position %d: got %s rank %d, want %s rank %d", i, e.ID, e.Rank, wantIDs[i], wantRanks[i])
		}
	}

	for i, id := range wantIDs {
		e, err := store.Rank(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Rank != wantRanks[i] {
			t.Errorf("Rank(%s) = %d, want %d", id, e.Rank, wantRanks[i])
		}
	}

	top, _ := store.TopN(ctx, 2)
	if len(top) != 2 || top[1].ID != "b" {
		t.Errorf("unexpected top 2: %+v", top)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.Rank(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.Record(ctx, Trial{Score: 1}); !errors.Is(err, ErrInvalidTrial) {
		t.Errorf("expected ErrInvalidTrial for empty id, got %v", err)
	}
	if _, err := store.Record(ctx, Trial{ID: "x", Score: math.NaN()}); !errors.Is(err, ErrInvalidTrial) {
		t.Errorf("expected ErrInvalidTrial for NaN, got %v", err)
	}
}

func TestTreapStore_MatchesSort(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithSeed(42))
	rng := rand.New(rand.NewSource(7))

	best := map[string]float64{}
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("t%03d", rng.Intn(300))
		score := float64(rng.Intn(200)) / 4
		if _, err := store.Record(ctx, Trial{ID: id, Score: score}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if old, ok := best[id]; !ok || score > old {
			best[id] = score
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if best[ids[i]] != best[ids[j]] {
			return best[ids[i]] > best[ids[j]]
		}
		return ids[i] < ids[j]
	})

	entries, err := store.TopN(ctx, len(ids))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(entries))
	}
	for i, e := range entries {
		if e.ID != ids[i] || e.Score != best[ids[i]] {
			t.Fatalf("position %d: got %s %.2f, want %s %.2f", i, e.ID, e.Score, ids[i], best[ids[i]])
		}
		r, _ := store.Rank(ctx, e.ID)
		if r.Rank != e.Rank {
			t.Fatalf("Rank(%s) = %d, TopN rank %d", e.ID, r.Rank, e.Rank)
		}
	}
}

func TestTreapStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = store.Record(ctx, Trial{ID: fmt.Sprintf("w%d-%d", w, i), Score: float64(i)})
				_, _ = store.TopN(ctx, 5)
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 800 {
		t.Errorf("expected 800 trials, got %d", count)
	}
	top, _ := store.TopN(ctx, 1)
	if top[0].Score != 99 || top[0].Rank != 1 {
		t.Errorf("unexpected best %+v", top[0])
	}
}

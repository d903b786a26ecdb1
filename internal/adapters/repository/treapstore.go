package repository

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/okian/pitchspace/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then ID ASC. "less" means ranks earlier, so an
// in-order traversal yields the ranking from best to worst. Subtree sizes
// make Rank O(log n).

type node struct {
	id    string
	score float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) ranks before (bScore, bID).
func less(aScore float64, aID string, bScore float64, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if less(nn.score, nn.id, n.score, n.id) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes have a score strictly above score.
func countAbove(n *node, score float64) int {
	count := 0
	for n != nil {
		if n.score > score {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit trials in rank order.
func collectTopN(n *node, limit int, byID map[string]Trial, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Trial: byID[n.id]})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byID, out)
	}
}

// TreapStore is a Store safe for concurrent use.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]Trial
	seed uint64
	rng  *rand.Rand
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[string]Trial),
		seed: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	return s
}

// Record implements Store.Record in O(log n) expected time.
func (s *TreapStore) Record(_ context.Context, t Trial) (bool, error) {
	if t.ID == "" {
		return false, fmt.Errorf("%w: empty id", ErrInvalidTrial)
	}
	if math.IsNaN(t.Score) {
		metrics.RecordErrorByComponent("repository", "nan_score")
		return false, fmt.Errorf("%w: %s has a NaN score", ErrInvalidTrial, t.ID)
	}
	metrics.RecordSearchTrial()

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byID[t.ID]; ok {
		if t.Score <= old.Score {
			return false, nil
		}
		s.root = deleteNode(s.root, t.ID, old.Score)
	}
	s.byID[t.ID] = t
	s.root = insert(s.root, &node{id: t.ID, score: t.Score, prio: s.rng.Uint64(), size: 1})
	return true, nil
}

// Rank returns the entry for id. Trials with equal scores share a rank.
func (s *TreapStore) Rank(_ context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Entry{Rank: countAbove(s.root, t.Score) + 1, Trial: t}, nil
}

// TopN returns the top n entries ordered by score desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, s.byID, &out)
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out, nil
}

// Count returns the number of trials stored.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

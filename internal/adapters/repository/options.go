package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithSeed seeds the treap's node priorities. The ranking itself does not
// depend on the seed; only the tree shape does.
func WithSeed(seed uint64) Option {
	return func(s *TreapStore) {
		s.seed = seed
	}
}

package notify

// GuardOption applies a configuration option to the in-memory guard.
type GuardOption func(*inMemoryGuard)

// WithMaxSize sets the maximum number of keys to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) GuardOption {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}

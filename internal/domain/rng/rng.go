// Package rng isolates all game randomness behind a single injectable
// source so battle outcomes are replayable in tests with seeded sequences.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Roller provides the random draws the combat math and stat jitter need.
type Roller interface {
	// Float64 returns a uniform draw from [0, 1).
	Float64() float64

	// IntN returns a uniform draw from [0, n).
	IntN(n int) int

	// Between returns a uniform draw from [lo, hi).
	Between(lo, hi float64) float64

	// Chance reports a hit with the given percent probability.
	Chance(pct float64) bool
}

// source implements Roller over math/rand. A mutex guards the underlying
// generator; handlers roll concurrently.
type source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New creates a seeded Roller. Seed 0 means time-seeded.
func New(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &source{r: rand.New(rand.NewSource(seed))} //nolint:gosec // game randomness, not crypto
}

func (s *source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *source) Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.r.Float64()*(hi-lo)
}

func (s *source) Chance(pct float64) bool {
	if pct <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()*100 < pct
}

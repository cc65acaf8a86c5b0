package repository

import "time"

// IndexOption applies a configuration option to the RatingIndex.
type IndexOption func(*RatingIndex)

// WithSnapshotInterval sets the interval between leaderboard snapshot
// publications.
func WithSnapshotInterval(interval time.Duration) IndexOption {
	return func(s *RatingIndex) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets how many leading rows the published snapshot
// caches.
func WithTopCacheSize(n int) IndexOption {
	return func(s *RatingIndex) {
		if n > 0 {
			s.topCacheSize = n
		}
	}
}

package repository

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/pkg/metrics"
)

// Treap-based, in-memory leaderboard index.
//
// Ordering: arenaRating DESC, then joinSeq ASC, so ties go to the
// first-registered player and in-order traversal produces the
// leaderboard from best to worst. Subtree sizes give O(log n) rank
// lookups without a full scan.

// rated holds the indexed fields for one player.
type rated struct {
	rating   int
	joinSeq  int64
	username string
	level    int
	class    hero.Class
}

// Snapshot is an immutable published view of the leaderboard state.
type Snapshot struct {
	// RankByPlayer serves rank reads in O(1).
	RankByPlayer map[string]int

	// TopCache holds the first M rows, sorted best to worst.
	TopCache []Entry
}

// treap node
type node struct {
	id      string
	rating  int
	joinSeq int64
	prio    uint64
	left    *node
	right   *node
	size    int
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

// less returns true if (aRating, aSeq) ranks earlier than (bRating, bSeq).
func less(aRating int, aSeq int64, bRating int, bSeq int64) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aSeq < bSeq
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, rating int, joinSeq int64, prio uint64) *node {
	if n == nil {
		return &node{id: id, rating: rating, joinSeq: joinSeq, prio: prio, size: 1}
	}
	if less(rating, joinSeq, n.rating, n.joinSeq) {
		n.left = insert(n.left, id, rating, joinSeq, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating, joinSeq, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, rating int, joinSeq int64) *node {
	if n == nil {
		return nil
	}
	if rating == n.rating && joinSeq == n.joinSeq && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, rating, joinSeq)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, rating, joinSeq)
		}
	} else if less(rating, joinSeq, n.rating, n.joinSeq) {
		n.left = deleteNode(n.left, id, rating, joinSeq)
	} else {
		n.right = deleteNode(n.right, id, rating, joinSeq)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based rank of the given key using subtree sizes.
func rankOf(n *node, rating int, joinSeq int64) int {
	rank := 1
	for n != nil {
		switch {
		case rating == n.rating && joinSeq == n.joinSeq:
			return rank + nsize(n.left)
		case less(rating, joinSeq, n.rating, n.joinSeq):
			n = n.left
		default:
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, records map[string]rated, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, Entry{
				Rank:        len(*out) + 1,
				PlayerID:    n.id,
				Username:    rec.username,
				Level:       rec.level,
				Class:       rec.class,
				ArenaRating: rec.rating,
			})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// RatingIndex maintains the ordered leaderboard view of all players.
type RatingIndex struct {
	mu               sync.RWMutex
	root             *node
	byID             map[string]rated
	prng             *rand.Rand
	snapshotInterval time.Duration
	topCacheSize     int

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewRatingIndex constructs a rating index with configuration options.
func NewRatingIndex(ctx context.Context, opts ...IndexOption) *RatingIndex {
	s := &RatingIndex{
		snapshotInterval: time.Second,
		topCacheSize:     500,
		byID:             make(map[string]rated),
		prng:             rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // treap priorities
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval.
func (s *RatingIndex) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *RatingIndex) publishSnapshot() {
	start := time.Now()

	s.mu.RLock()
	full := make([]Entry, 0, len(s.byID))
	collectTopN(s.root, len(s.byID), s.byID, &full)
	s.mu.RUnlock()

	rankByPlayer := make(map[string]int, len(full))
	for _, e := range full {
		rankByPlayer[e.PlayerID] = e.Rank
	}
	top := s.topCacheSize
	if top > len(full) {
		top = len(full)
	}
	s.snapshot.Store(&Snapshot{
		RankByPlayer: rankByPlayer,
		TopCache:     full[:top],
	})

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRatingSnapshotRebuildDuration(ms)
	metrics.UpdateRatingSnapshotLastDurationMs(ms)
	metrics.UpdateRatingSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementRatingSnapshotCount()
}

// CurrentSnapshot returns the last published snapshot, or nil before the
// first publication.
func (s *RatingIndex) CurrentSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close gracefully shuts down the snapshot goroutine.
func (s *RatingIndex) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Update indexes a player's current rating, replacing any previous entry,
// in O(log n) expected time. Display fields travel with the rating so
// leaderboard reads never touch the player store.
func (s *RatingIndex) Update(ctx context.Context, p *model.Player) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	if old, ok := s.byID[p.ID]; ok {
		s.root = deleteNode(s.root, p.ID, old.rating, old.joinSeq)
	}
	rec := rated{
		rating:   p.ArenaRating,
		joinSeq:  p.JoinSeq,
		username: p.Username,
		level:    p.Level,
		class:    p.Hero.Class,
	}
	s.byID[p.ID] = rec
	s.root = insert(s.root, p.ID, rec.rating, rec.joinSeq, s.prng.Uint64())
	size := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateRatingIndexSize(size)
	return nil
}

// Rank returns the current leaderboard row for a player in O(log n).
func (s *RatingIndex) Rank(ctx context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[playerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return Entry{}, ErrPlayerNotFound
	}
	return Entry{
		Rank:        rankOf(s.root, rec.rating, rec.joinSeq),
		PlayerID:    playerID,
		Username:    rec.username,
		Level:       rec.level,
		Class:       rec.class,
		ArenaRating: rec.rating,
	}, nil
}

// TopN returns the first n leaderboard rows, best first.
func (s *RatingIndex) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)
	return out, nil
}

// Count returns the number of indexed players.
func (s *RatingIndex) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/pkg/metrics"
)

// In-memory store implementations. All mutations run under a per-store
// mutex; reads and commits work on deep copies so a failed mutation
// function never leaks partial state.

// PlayerStore is the in-memory Players implementation.
type PlayerStore struct {
	mu      sync.RWMutex
	byID    map[string]*model.Player
	joinSeq int64
}

// NewPlayerStore constructs an empty player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{byID: make(map[string]*model.Player)}
}

// Get implements Players.Get.
func (s *PlayerStore) Get(ctx context.Context, id string) (*model.Player, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return nil, ErrPlayerNotFound
	}
	return p.Clone(), nil
}

// Create implements Players.Create.
func (s *PlayerStore) Create(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinSeq++
	p.JoinSeq = s.joinSeq
	s.byID[p.ID] = p.Clone()
	metrics.UpdatePlayersTotal(len(s.byID))
	return nil
}

// Update implements Players.Update.
func (s *PlayerStore) Update(ctx context.Context, id string, fn func(*model.Player) error) (*model.Player, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return nil, ErrPlayerNotFound
	}
	cp := p.Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.byID[id] = cp
	return cp.Clone(), nil
}

// UpdatePair implements Players.UpdatePair.
func (s *PlayerStore) UpdatePair(ctx context.Context, idA, idB string, fn func(a, b *model.Player) error) (*model.Player, *model.Player, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[idA]
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return nil, nil, ErrPlayerNotFound
	}
	b, ok := s.byID[idB]
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return nil, nil, ErrPlayerNotFound
	}
	ca, cb := a.Clone(), b.Clone()
	if err := fn(ca, cb); err != nil {
		return nil, nil, err
	}
	s.byID[idA] = ca
	s.byID[idB] = cb
	return ca.Clone(), cb.Clone(), nil
}

// Count implements Players.Count.
func (s *PlayerStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// BattleStore is the in-memory Battles implementation.
type BattleStore struct {
	mu     sync.RWMutex
	byID   map[int64]*model.Battle
	nextID int64
}

// NewBattleStore constructs an empty battle store.
func NewBattleStore() *BattleStore {
	return &BattleStore{byID: make(map[int64]*model.Battle)}
}

// Create implements Battles.Create, assigning the next monotonic id.
func (s *BattleStore) Create(ctx context.Context, b *model.Battle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.byID[b.ID] = b.Clone()
	return nil
}

// Get implements Battles.Get.
func (s *BattleStore) Get(ctx context.Context, id int64) (*model.Battle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "battle_not_found")
		return nil, ErrBattleNotFound
	}
	return b.Clone(), nil
}

// Update implements Battles.Update.
func (s *BattleStore) Update(ctx context.Context, id int64, fn func(*model.Battle) error) (*model.Battle, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "battle_not_found")
		return nil, ErrBattleNotFound
	}
	cp := b.Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.byID[id] = cp
	return cp.Clone(), nil
}

// ActiveCount implements Battles.ActiveCount.
func (s *BattleStore) ActiveCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.byID {
		if b.Status == model.BattleActive {
			n++
		}
	}
	return n
}

// ListingStore is the in-memory Listings implementation.
type ListingStore struct {
	mu     sync.RWMutex
	byID   map[int64]*model.Listing
	order  []int64
	nextID int64
}

// NewListingStore constructs an empty listing store.
func NewListingStore() *ListingStore {
	return &ListingStore{byID: make(map[int64]*model.Listing)}
}

// Create implements Listings.Create, assigning the next monotonic id.
func (s *ListingStore) Create(ctx context.Context, l *model.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	s.byID[l.ID] = l.Clone()
	s.order = append(s.order, l.ID)
	return nil
}

// Get implements Listings.Get.
func (s *ListingStore) Get(ctx context.Context, id int64) (*model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "listing_not_found")
		return nil, ErrListingNotFound
	}
	return l.Clone(), nil
}

// Update implements Listings.Update.
func (s *ListingStore) Update(ctx context.Context, id int64, fn func(*model.Listing) error) (*model.Listing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "listing_not_found")
		return nil, ErrListingNotFound
	}
	cp := l.Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	s.byID[id] = cp
	return cp.Clone(), nil
}

// Open implements Listings.Open. Creation order doubles as oldest-first.
func (s *ListingStore) Open(ctx context.Context) []*model.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Listing, 0, len(s.order))
	for _, id := range s.order {
		if l := s.byID[id]; l.Status == model.ListingListed {
			out = append(out, l.Clone())
		}
	}
	return out
}

// OpenCount implements Listings.OpenCount.
func (s *ListingStore) OpenCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.byID {
		if l.Status == model.ListingListed {
			n++
		}
	}
	return n
}

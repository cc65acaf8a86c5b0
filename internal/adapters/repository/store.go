// Package repository provides the in-memory game state stores and the
// ordered arena-rating index backing the leaderboard.
package repository

import (
	"context"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank        int        `json:"rank"`
	PlayerID    string     `json:"playerId"`
	Username    string     `json:"username"`
	Level       int        `json:"level"`
	Class       hero.Class `json:"class"`
	ArenaRating int        `json:"arenaRating"`
}

// Players provides access to player records. Implementations return deep
// copies; callers never observe shared mutable state.
type Players interface {
	// Get returns the player with the given id.
	// Returns ErrPlayerNotFound if the player is unknown.
	Get(ctx context.Context, id string) (*model.Player, error)

	// Create stores a new player and assigns its registration sequence.
	Create(ctx context.Context, p *model.Player) error

	// Update applies fn to the player under the store lock. The mutation
	// commits only when fn returns nil; on error no field changes.
	Update(ctx context.Context, id string, fn func(*model.Player) error) (*model.Player, error)

	// UpdatePair applies fn to two distinct players atomically, used for
	// market settlement between buyer and seller. Both commit or neither.
	UpdatePair(ctx context.Context, idA, idB string, fn func(a, b *model.Player) error) (*model.Player, *model.Player, error)

	// Count returns the number of registered players.
	Count(ctx context.Context) int
}

// Battles provides access to battle records with monotonic ids.
type Battles interface {
	Create(ctx context.Context, b *model.Battle) error
	Get(ctx context.Context, id int64) (*model.Battle, error)
	Update(ctx context.Context, id int64, fn func(*model.Battle) error) (*model.Battle, error)

	// ActiveCount returns the number of battles still accepting moves.
	ActiveCount(ctx context.Context) int
}

// Listings provides access to market listings with monotonic ids.
type Listings interface {
	Create(ctx context.Context, l *model.Listing) error
	Get(ctx context.Context, id int64) (*model.Listing, error)
	Update(ctx context.Context, id int64, fn func(*model.Listing) error) (*model.Listing, error)

	// Open returns all listings still open for purchase, oldest first.
	Open(ctx context.Context) []*model.Listing

	// OpenCount returns the number of open listings.
	OpenCount(ctx context.Context) int
}

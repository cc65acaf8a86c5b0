// Package model contains domain entities passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/okian/pixelarena/internal/domain/hero"
)

// Currency identifies a player balance kind.
type Currency string

const (
	CurrencyCoins   Currency = "coins"
	CurrencyPremium Currency = "premium"
)

// ParseCurrency validates a caller-supplied currency name.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToLower(strings.TrimSpace(s))) {
	case CurrencyCoins:
		return CurrencyCoins, nil
	case CurrencyPremium:
		return CurrencyPremium, nil
	default:
		return "", ErrInvalidCurrency
	}
}

// Mode identifies a battle mode.
type Mode string

const (
	ModePvE Mode = "pve"
	ModePvP Mode = "pvp"
)

// ParseMode validates a caller-supplied battle mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePvE:
		return ModePvE, nil
	case ModePvP:
		return ModePvP, nil
	default:
		return "", ErrInvalidMode
	}
}

// ItemKind classifies inventory items.
type ItemKind string

const (
	ItemTicket ItemKind = "ticket"
	ItemBoost  ItemKind = "boost"
	ItemSkin   ItemKind = "skin"
)

// Item is a single owned item instance. Every instance gets a unique ID at
// creation so quick-sell and listings reference items unambiguously even
// when a player holds several of the same kind.
type Item struct {
	ID        string   `json:"id"`
	Kind      ItemKind `json:"kind"`
	Name      string   `json:"name"`
	BasePrice int      `json:"basePrice"`
}

// BattleStats holds per-mode battle counters for a player.
type BattleStats struct {
	Battles   int `json:"battles"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	WinStreak int `json:"winStreak"`
}

// Hero is a player's combat avatar.
type Hero struct {
	Class hero.Class `json:"class"`
	Stats hero.Stats `json:"stats"`

	// SpeedJitter is the jitter fraction rolled at the last stat recompute.
	// Stored so repeated reads return the same derived stats.
	SpeedJitter float64 `json:"-"`

	// ClassChangeAvailable is granted exactly once, the first time the
	// player reaches level 3, and consumed by a class change.
	ClassChangeAvailable bool `json:"classChangeAvailable"`
	ClassChangeUsed      bool `json:"-"`
}

// Player is the authoritative record for one game account.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	// JoinSeq orders players by registration for leaderboard tie-breaks.
	JoinSeq int64 `json:"-"`

	Level      int              `json:"level"`
	Experience int              `json:"experience"`
	Currencies map[Currency]int `json:"currencies"`

	Energy    int `json:"energy"`
	MaxEnergy int `json:"maxEnergy"`

	ArenaRating int `json:"arenaRating"`

	Hero      Hero                  `json:"hero"`
	Inventory []Item                `json:"inventory"`
	Stats     map[Mode]*BattleStats `json:"stats"`

	JoinedAt     time.Time `json:"joinedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Balance returns the player's balance for a currency.
func (p *Player) Balance(c Currency) int {
	return p.Currencies[c]
}

// ModeStats returns the counter block for a mode, creating it lazily.
func (p *Player) ModeStats(m Mode) *BattleStats {
	if p.Stats == nil {
		p.Stats = make(map[Mode]*BattleStats)
	}
	st, ok := p.Stats[m]
	if !ok {
		st = &BattleStats{}
		p.Stats[m] = st
	}
	return st
}

// FindItem returns the index of the item with the given id in the
// inventory, or -1 when absent.
func (p *Player) FindItem(itemID string) int {
	for i := range p.Inventory {
		if p.Inventory[i].ID == itemID {
			return i
		}
	}
	return -1
}

// RemoveItem removes and returns the item at the given inventory index,
// preserving inventory order.
func (p *Player) RemoveItem(idx int) Item {
	it := p.Inventory[idx]
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	return it
}

// Clone returns a deep copy safe to hand across the store boundary.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Currencies = make(map[Currency]int, len(p.Currencies))
	for k, v := range p.Currencies {
		cp.Currencies[k] = v
	}
	cp.Inventory = make([]Item, len(p.Inventory))
	copy(cp.Inventory, p.Inventory)
	cp.Stats = make(map[Mode]*BattleStats, len(p.Stats))
	for k, v := range p.Stats {
		st := *v
		cp.Stats[k] = &st
	}
	return &cp
}

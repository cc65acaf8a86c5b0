// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// EnergyRegenMinutes is the interval for passively regaining 1 energy.
	EnergyRegenMinutes int `koanf:"energy_regen_minutes"`

	// AutoRoundCap bounds auto-resolved battles; DuelRoundCap bounds
	// turn-by-turn battles.
	AutoRoundCap int `koanf:"auto_round_cap"`
	DuelRoundCap int `koanf:"duel_round_cap"`

	// MarketCommissionPct is the market's cut of a completed sale.
	// QuickSellPct is the fraction of an item's base price paid on quick-sell.
	MarketCommissionPct int `koanf:"market_commission_pct"`
	QuickSellPct        int `koanf:"quick_sell_pct"`

	// Starting balances for newly created players.
	StartingCoins   int `koanf:"starting_coins"`
	StartingEnergy  int `koanf:"starting_energy"`
	StartingRating  int `koanf:"starting_rating"`
	StartingTickets int `koanf:"starting_tickets"`

	// NotifyQueueSize bounds the in-memory notification queue.
	// NotifyWorkers sets the number of delivery workers.
	NotifyQueueSize int `koanf:"notify_queue_size"`
	NotifyWorkers   int `koanf:"notify_workers"`

	// SeedDemo seeds the demo players at startup.
	SeedDemo bool `koanf:"seed_demo"`

	// RNGSeed seeds combat and jitter randomness; 0 means time-seeded.
	RNGSeed int64 `koanf:"rng_seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
		EnergyRegenMinutes:  30,
		AutoRoundCap:        5,
		DuelRoundCap:        3,
		MarketCommissionPct: 5,
		QuickSellPct:        80,
		StartingCoins:       100,
		StartingEnergy:      10,
		StartingRating:      1000,
		StartingTickets:     5,
		NotifyQueueSize:     10_000,
		NotifyWorkers:       4,
		SeedDemo:            false,
		RNGSeed:             0,
	}
	return c
}

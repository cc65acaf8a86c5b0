package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if ARENA_CONFIG is set
//  3. env (prefix ARENA_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ARENA_ADDR, ARENA_ENERGY_REGEN_MINUTES, ...
	// Map env keys like ARENA_AUTO_ROUND_CAP -> auto_round_cap (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "arena_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be >= 1", ErrInvalidConfig)
	case c.EnergyRegenMinutes < 1:
		return fmt.Errorf("%w: energy_regen_minutes must be >= 1", ErrInvalidConfig)
	case c.AutoRoundCap < 1 || c.DuelRoundCap < 1:
		return fmt.Errorf("%w: round caps must be >= 1", ErrInvalidConfig)
	case c.MarketCommissionPct < 0 || c.MarketCommissionPct > 100:
		return fmt.Errorf("%w: market_commission_pct must be in [0,100]", ErrInvalidConfig)
	case c.QuickSellPct < 0 || c.QuickSellPct > 100:
		return fmt.Errorf("%w: quick_sell_pct must be in [0,100]", ErrInvalidConfig)
	case c.StartingEnergy < 0 || c.StartingCoins < 0 || c.StartingTickets < 0:
		return fmt.Errorf("%w: starting balances must be non-negative", ErrInvalidConfig)
	}
	return nil
}

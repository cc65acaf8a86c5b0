// Package seed populates a fresh instance with demo players so the
// leaderboard is not empty on first boot.
package seed

import (
	"context"
	"fmt"

	service "github.com/okian/pixelarena/internal/app"
	"github.com/okian/pixelarena/internal/domain/hero"
)

// Win counts are derived from rating points gained over the starting
// rating: 15 per PvE win, 20 per PvP win.
const (
	pvePointsPerWin = 15
	pvpPointsPerWin = 20
	baseRating      = 1000
)

// demoRoster is the fixed set of players seeded at startup.
func demoRoster() []service.DemoProfile {
	profiles := []service.DemoProfile{
		{ID: "demo-dragonslayer", Username: "DragonSlayer", Class: hero.ClassWarrior, Level: 25, Rating: 2450},
		{ID: "demo-shadowninja", Username: "ShadowNinja", Class: hero.ClassMage, Level: 23, Rating: 2310},
		{ID: "demo-magemaster", Username: "MageMaster", Class: hero.ClassArcher, Level: 22, Rating: 2285},
	}
	for i := range profiles {
		points := profiles[i].Rating - baseRating
		profiles[i].PvEWins = points / 2 / pvePointsPerWin
		profiles[i].PvPWins = points / 2 / pvpPointsPerWin
	}
	return profiles
}

// Demo registers the demo roster on the given service. Already seeded
// players are skipped.
func Demo(ctx context.Context, svc *service.Service) error {
	for _, profile := range demoRoster() {
		if _, err := svc.SeedDemoPlayer(ctx, profile); err != nil {
			return fmt.Errorf("seed %s: %w", profile.Username, err)
		}
	}
	return nil
}

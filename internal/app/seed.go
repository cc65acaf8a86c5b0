package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/pkg/logger"
	"github.com/okian/pixelarena/pkg/metrics"
)

// DemoProfile describes a pre-built player registered at startup so a
// fresh instance has a populated leaderboard.
type DemoProfile struct {
	ID       string
	Username string
	Class    hero.Class
	Level    int
	Rating   int
	PvEWins  int
	PvPWins  int
}

// SeedDemoPlayer registers one pre-built player. Existing ids are left
// untouched, so re-seeding a warm instance is a no-op.
func (s *Service) SeedDemoPlayer(ctx context.Context, profile DemoProfile) (*model.Player, error) {
	if p, err := s.players.Get(ctx, profile.ID); err == nil {
		return p, nil
	}

	jitter := hero.RollJitter(s.roll)
	stats, err := hero.DeriveStats(profile.Level, profile.Class, jitter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.Player{
		ID:       profile.ID,
		Username: profile.Username,
		Level:    profile.Level,
		Currencies: map[model.Currency]int{
			model.CurrencyCoins:   s.startingCoins,
			model.CurrencyPremium: 0,
		},
		Energy:      s.startingEnergy,
		MaxEnergy:   s.startingEnergy,
		ArenaRating: profile.Rating,
		Hero: model.Hero{
			Class:       profile.Class,
			Stats:       stats,
			SpeedJitter: jitter,
		},
		Inventory: []model.Item{{
			ID:   uuid.NewString(),
			Kind: model.ItemSkin,
			Name: "Default Skin",
		}},
		Stats: map[model.Mode]*model.BattleStats{
			model.ModePvE: {Battles: profile.PvEWins, Wins: profile.PvEWins},
			model.ModePvP: {Battles: profile.PvPWins, Wins: profile.PvPWins},
		},
		JoinedAt:     now,
		LastActiveAt: now,
	}
	if profile.Class != hero.ClassWanderer {
		p.Hero.ClassChangeUsed = true
	}
	for i := 0; i < s.startingTickets; i++ {
		p.Inventory = append(p.Inventory, model.Item{
			ID:        uuid.NewString(),
			Kind:      model.ItemTicket,
			Name:      "Arena Ticket",
			BasePrice: market.TicketBasePrice,
		})
	}

	if err := s.players.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.rating.Update(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordPlayerCreated()
	s.logger.Info(ctx, "demo player seeded",
		logger.String("player_id", p.ID),
		logger.String("username", p.Username),
		logger.Int("level", p.Level),
		logger.Int("rating", p.ArenaRating),
	)
	return p.Clone(), nil
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/pixelarena/internal/adapters/repository"
	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/notify"
	"github.com/okian/pixelarena/internal/domain/progression"
	"github.com/okian/pixelarena/pkg/logger"
	"github.com/okian/pixelarena/pkg/metrics"
)

// GetPlayer returns the player with the given id, applying lazy energy
// regeneration. Unknown ids fail with the store's not-found error.
func (s *Service) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	return s.players.Update(ctx, id, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		return nil
	})
}

// GetOrCreatePlayer returns the existing player or registers a new one.
// It never fails for an unknown id; that is GetPlayer's contract.
func (s *Service) GetOrCreatePlayer(ctx context.Context, id, username string) (*model.Player, error) {
	p, err := s.GetPlayer(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	p, err = s.newPlayer(id, username)
	if err != nil {
		return nil, err
	}
	if err := s.players.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.rating.Update(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordPlayerCreated()
	s.logger.Info(ctx, "player registered",
		logger.String("player_id", p.ID),
		logger.String("username", p.Username),
	)
	return p.Clone(), nil
}

// newPlayer builds a fresh level-1 wanderer with starting resources.
func (s *Service) newPlayer(id, username string) (*model.Player, error) {
	jitter := hero.RollJitter(s.roll)
	stats, err := hero.DeriveStats(1, hero.ClassWanderer, jitter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inventory := make([]model.Item, 0, s.startingTickets+1)
	for i := 0; i < s.startingTickets; i++ {
		inventory = append(inventory, model.Item{
			ID:        uuid.NewString(),
			Kind:      model.ItemTicket,
			Name:      "Arena Ticket",
			BasePrice: market.TicketBasePrice,
		})
	}
	inventory = append(inventory, model.Item{
		ID:   uuid.NewString(),
		Kind: model.ItemSkin,
		Name: "Default Skin",
	})

	return &model.Player{
		ID:       id,
		Username: username,
		Level:    1,
		Currencies: map[model.Currency]int{
			model.CurrencyCoins:   s.startingCoins,
			model.CurrencyPremium: 0,
		},
		Energy:      s.startingEnergy,
		MaxEnergy:   s.startingEnergy,
		ArenaRating: s.startingRating,
		Hero: model.Hero{
			Class:       hero.ClassWanderer,
			Stats:       stats,
			SpeedJitter: jitter,
		},
		Inventory:    inventory,
		Stats:        map[model.Mode]*model.BattleStats{},
		JoinedAt:     now,
		LastActiveAt: now,
	}, nil
}

// applyEnergyRegen grants 1 energy per elapsed regen interval since the
// player's last activity, capped at max. Partial progress toward the
// next point carries over through LastActiveAt.
func (s *Service) applyEnergyRegen(p *model.Player) {
	now := s.now()
	if p.Energy >= p.MaxEnergy {
		p.LastActiveAt = now
		return
	}
	elapsed := now.Sub(p.LastActiveAt)
	gained := int(elapsed / s.regenInterval)
	if gained <= 0 {
		return
	}
	if p.Energy+gained >= p.MaxEnergy {
		p.Energy = p.MaxEnergy
		p.LastActiveAt = now
		return
	}
	p.Energy += gained
	p.LastActiveAt = p.LastActiveAt.Add(time.Duration(gained) * s.regenInterval)
}

// ChangeClass performs the one-time class change and recomputes stats.
func (s *Service) ChangeClass(ctx context.Context, id string, class hero.Class) (*model.Player, error) {
	p, err := s.players.Update(ctx, id, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		return progression.ChangeClass(p, class, s.roll)
	})
	if err != nil {
		return nil, err
	}

	if err := s.rating.Update(ctx, p); err != nil {
		return nil, err
	}
	metrics.RecordClassChange()
	s.logger.Info(ctx, "class changed",
		logger.String("player_id", id),
		logger.String("class", string(class)),
	)
	return p, nil
}

// afterProgress handles the shared post-battle bookkeeping: rating index
// refresh plus level-up and class-unlock notifications.
func (s *Service) afterProgress(ctx context.Context, p *model.Player, leveledUp, classUnlocked bool) error {
	if err := s.rating.Update(ctx, p); err != nil {
		return err
	}
	if leveledUp {
		metrics.RecordLevelUp()
		s.notifyOnce(ctx, notify.Notification{
			Key:      notify.KindLevelUp + ":" + p.ID + ":" + strconv.Itoa(p.Level),
			PlayerID: p.ID,
			Kind:     notify.KindLevelUp,
			Message:  "You reached level " + strconv.Itoa(p.Level) + "!",
			At:       s.now(),
		})
	}
	if classUnlocked {
		s.notifyOnce(ctx, notify.Notification{
			Key:      notify.KindClassChangeUnlocked + ":" + p.ID,
			PlayerID: p.ID,
			Kind:     notify.KindClassChangeUnlocked,
			Message:  "Class change unlocked! Choose your path.",
			At:       s.now(),
		})
	}
	return nil
}

package service

import (
	"context"

	"github.com/okian/pixelarena/internal/domain/battle"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/progression"
	"github.com/okian/pixelarena/pkg/logger"
	"github.com/okian/pixelarena/pkg/metrics"
)

// AutoBattleOutcome is the result of an instant PvE battle.
type AutoBattleOutcome struct {
	Battle    *model.Battle `json:"battle"`
	Rewards   model.Rewards `json:"rewards"`
	Player    *model.Player `json:"player"`
	LeveledUp bool          `json:"leveledUp"`
}

// FinishOutcome is the result of terminating an interactive battle.
type FinishOutcome struct {
	Battle  *model.Battle `json:"battle"`
	Rewards model.Rewards `json:"rewards"`
	Player  *model.Player `json:"player"`
}

// StartAutoBattle consumes one energy and resolves a full PvE battle in
// a single call. Rewards, counters, and a possible level-up apply
// atomically to the player before the finished battle is stored.
func (s *Service) StartAutoBattle(ctx context.Context, playerID string, difficulty model.Difficulty) (*AutoBattleOutcome, error) {
	var (
		rounds        []model.Round
		result        model.BattleResult
		rewards       model.Rewards
		leveledUp     bool
		classUnlocked bool
		level         int
		maxHP         int
	)

	p, err := s.players.Update(ctx, playerID, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		if p.Energy < 1 {
			return ErrInsufficientEnergy
		}
		p.Energy--

		level = p.Level
		maxHP = p.Hero.Stats.Health
		rounds, result = s.engine.ResolveAuto(p.Hero.Stats, difficulty, p.Level)
		rewards = battle.RewardsFor(result.Win, difficulty, p.Level)

		progression.ApplyBattleOutcome(p, model.ModePvE, result.Win)
		progression.GrantRewards(p, rewards)
		var err error
		leveledUp, err = progression.TryLevelUp(p, s.roll)
		if err != nil {
			return err
		}
		classUnlocked = progression.UnlockClassChangeIfEligible(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	b := &model.Battle{
		OwnerID:        playerID,
		Mode:           model.ModePvE,
		Difficulty:     difficulty,
		Status:         model.BattleFinished,
		CurrentRound:   len(rounds),
		Rounds:         rounds,
		PlayerHP:       result.PlayerHP,
		PlayerMaxHP:    maxHP,
		OpponentHP:     result.OpponentHP,
		OpponentMaxHP:  battle.OpponentHP(difficulty, level),
		Result:         &result,
		RewardsGranted: true,
		CreatedAt:      s.now(),
	}
	if err := s.battles.Create(ctx, b); err != nil {
		return nil, err
	}
	if err := s.afterProgress(ctx, p, leveledUp, classUnlocked); err != nil {
		return nil, err
	}

	s.recordBattleMetrics(model.ModePvE, difficulty, result.Win, len(rounds), rewards)
	s.logger.Debug(ctx, "auto battle resolved",
		logger.String("player_id", playerID),
		logger.String("difficulty", string(difficulty)),
		logger.Bool("win", result.Win),
		logger.Int("rounds", len(rounds)),
	)
	return &AutoBattleOutcome{Battle: b, Rewards: rewards, Player: p, LeveledUp: leveledUp}, nil
}

// StartInteractiveBattle consumes one energy and opens a turn-by-turn
// battle against a scripted opponent.
func (s *Service) StartInteractiveBattle(ctx context.Context, playerID, opponent string, difficulty model.Difficulty) (*model.Battle, *model.Player, error) {
	level := 0
	p, err := s.players.Update(ctx, playerID, func(p *model.Player) error {
		s.applyEnergyRegen(p)
		if p.Energy < 1 {
			return ErrInsufficientEnergy
		}
		p.Energy--
		level = p.Level
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if opponent == "" {
		opponent = "Arena Bot"
	}
	b := &model.Battle{
		OwnerID:    playerID,
		Mode:       model.ModePvP,
		Difficulty: difficulty,
		Opponent:   opponent,
		CreatedAt:  s.now(),
	}
	s.engine.NewDuel(b, p.Hero.Stats, level)
	if err := s.battles.Create(ctx, b); err != nil {
		return nil, nil, err
	}

	metrics.RecordBattleStarted(string(model.ModePvP), string(difficulty))
	metrics.RecordEnergySpent(1)
	metrics.UpdateBattlesActive(s.battles.ActiveCount(ctx))
	return b, p, nil
}

// SubmitMove plays one round of an interactive battle. If the round
// finishes the battle, rewards are granted exactly once.
func (s *Service) SubmitMove(ctx context.Context, battleID int64, mv model.Move) (*model.Battle, error) {
	existing, err := s.battles.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}
	owner, err := s.players.Get(ctx, existing.OwnerID)
	if err != nil {
		return nil, err
	}

	justFinished := false
	b, err := s.battles.Update(ctx, battleID, func(b *model.Battle) error {
		if err := s.engine.ApplyMove(b, owner.Hero.Stats, mv); err != nil {
			return err
		}
		if b.Status == model.BattleFinished && !b.RewardsGranted {
			b.RewardsGranted = true
			justFinished = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if justFinished {
		if _, err := s.settleBattle(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// FinishBattle force-terminates an active interactive battle, counting
// the early cash-out as a win for the owner. Finishing an already
// finished battle fails and never re-grants rewards.
func (s *Service) FinishBattle(ctx context.Context, battleID int64, playerID string) (*FinishOutcome, error) {
	b, err := s.battles.Update(ctx, battleID, func(b *model.Battle) error {
		if b.OwnerID != playerID {
			return ErrNotBattleOwner
		}
		if err := s.engine.ForceFinish(b); err != nil {
			return err
		}
		b.RewardsGranted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	rewards, p, err := s.settleBattleDetail(ctx, b)
	if err != nil {
		return nil, err
	}
	return &FinishOutcome{Battle: b, Rewards: rewards, Player: p}, nil
}

// settleBattle applies the one-shot post-battle accounting for an
// interactive battle that just finished.
func (s *Service) settleBattle(ctx context.Context, b *model.Battle) (*model.Player, error) {
	_, p, err := s.settleBattleDetail(ctx, b)
	return p, err
}

func (s *Service) settleBattleDetail(ctx context.Context, b *model.Battle) (model.Rewards, *model.Player, error) {
	var (
		rewards       model.Rewards
		leveledUp     bool
		classUnlocked bool
	)
	win := b.Result != nil && b.Result.Win

	p, err := s.players.Update(ctx, b.OwnerID, func(p *model.Player) error {
		rewards = battle.RewardsFor(win, b.Difficulty, p.Level)
		progression.ApplyBattleOutcome(p, b.Mode, win)
		progression.GrantRewards(p, rewards)
		var err error
		leveledUp, err = progression.TryLevelUp(p, s.roll)
		if err != nil {
			return err
		}
		classUnlocked = progression.UnlockClassChangeIfEligible(p)
		return nil
	})
	if err != nil {
		return model.Rewards{}, nil, err
	}
	if err := s.afterProgress(ctx, p, leveledUp, classUnlocked); err != nil {
		return model.Rewards{}, nil, err
	}

	s.recordBattleMetrics(b.Mode, b.Difficulty, win, len(b.Rounds), rewards)
	metrics.UpdateBattlesActive(s.battles.ActiveCount(ctx))
	return rewards, p, nil
}

// recordBattleMetrics folds one finished battle into the counters.
func (s *Service) recordBattleMetrics(mode model.Mode, difficulty model.Difficulty, win bool, rounds int, rewards model.Rewards) {
	result := "loss"
	if win {
		result = "win"
	}
	if mode == model.ModePvE {
		metrics.RecordBattleStarted(string(mode), string(difficulty))
		metrics.RecordEnergySpent(1)
	}
	metrics.RecordBattleFinished(string(mode), result)
	metrics.ObserveBattleRounds(rounds)
	metrics.RecordRewardsGranted(rewards.Coins, rewards.Experience, rewards.ArenaRating)
}

// Package progression handles experience, leveling, and reward accounting
// for a single player.
package progression

import (
	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
)

// ClassChangeLevel is the level at which a one-time class change unlocks.
const ClassChangeLevel = 3

// ExperienceThreshold returns the experience needed to advance from the
// given level to the next one.
func ExperienceThreshold(level int) int {
	return level * 100
}

// ApplyBattleOutcome updates per-mode battle counters. The win streak
// resets on a loss.
func ApplyBattleOutcome(p *model.Player, mode model.Mode, won bool) {
	st := p.ModeStats(mode)
	st.Battles++
	if won {
		st.Wins++
		st.WinStreak++
	} else {
		st.Losses++
		st.WinStreak = 0
	}
}

// GrantRewards applies a computed battle payout to the player. Callers
// invoke it exactly once per finished battle.
func GrantRewards(p *model.Player, r model.Rewards) {
	p.Currencies[model.CurrencyCoins] += r.Coins
	p.Experience += r.Experience
	p.ArenaRating += r.ArenaRating
}

// TryLevelUp advances the player one level when the experience threshold
// is met. Remainder experience beyond the threshold is discarded, a
// deliberate simplification. Stats are recomputed with a fresh speed
// jitter. Returns whether a level-up occurred.
func TryLevelUp(p *model.Player, roll hero.Roller) (bool, error) {
	if p.Experience < ExperienceThreshold(p.Level) {
		return false, nil
	}
	p.Level++
	p.Experience = 0
	if err := recomputeStats(p, roll); err != nil {
		return false, err
	}
	return true, nil
}

// UnlockClassChangeIfEligible grants the one-time class-change flag the
// first time the player reaches the unlock level. Returns true only when
// the flag was newly granted.
func UnlockClassChangeIfEligible(p *model.Player) bool {
	if p.Level < ClassChangeLevel || p.Hero.ClassChangeAvailable || p.Hero.ClassChangeUsed {
		return false
	}
	p.Hero.ClassChangeAvailable = true
	return true
}

// ChangeClass switches the hero to a new class, consuming the one-time
// class-change flag and recomputing stats at the current level.
func ChangeClass(p *model.Player, newClass hero.Class, roll hero.Roller) error {
	if !newClass.Valid() {
		return hero.ErrInvalidClass
	}
	if !p.Hero.ClassChangeAvailable {
		return ErrClassChangeUnavailable
	}
	p.Hero.Class = newClass
	p.Hero.ClassChangeAvailable = false
	p.Hero.ClassChangeUsed = true
	return recomputeStats(p, roll)
}

// recomputeStats rolls a fresh jitter and rederives hero stats. This is
// the only place hero stats are mutated.
func recomputeStats(p *model.Player, roll hero.Roller) error {
	p.Hero.SpeedJitter = hero.RollJitter(roll)
	stats, err := hero.DeriveStats(p.Level, p.Hero.Class, p.Hero.SpeedJitter)
	if err != nil {
		return err
	}
	p.Hero.Stats = stats
	return nil
}

// Package battle implements combat resolution: instant auto battles and
// turn-by-turn interactive duels against scripted opponents.
package battle

import (
	"math"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/rng"
)

// Round caps. Auto battles are decided by remaining HP when the cap is
// reached; duels award the side with more HP.
const (
	DefaultAutoRoundCap = 5
	DefaultDuelRoundCap = 3
)

// CritMultiplier scales a critical hit.
const CritMultiplier = 1.5

// Duel tuning. Defend quarters incoming damage, special hits harder and
// burns one of the limited charges each side starts with.
const (
	DuelCharges       = 3
	DefendReduction   = 0.25
	SpecialMultiplier = 1.75
)

// Enemy scaling per difficulty tier.
var (
	enemyBaseHP = map[model.Difficulty]float64{
		model.DifficultyEasy:   400,
		model.DifficultyMedium: 600,
		model.DifficultyHard:   800,
	}
	difficultyMultiplier = map[model.Difficulty]float64{
		model.DifficultyEasy:   0.7,
		model.DifficultyMedium: 1.0,
		model.DifficultyHard:   1.3,
	}
	// Reward scaling is more generous at hard than the combat scaling.
	rewardMultiplier = map[model.Difficulty]float64{
		model.DifficultyEasy:   0.7,
		model.DifficultyMedium: 1.0,
		model.DifficultyHard:   1.5,
	}
)

// Base reward values, scaled by difficulty and level before payout.
const (
	winCoins  = 50
	winExp    = 25
	winRating = 15

	lossCoins  = 20
	lossExp    = 10
	lossRating = 5

	enemyBaseDamage = 40
	enemyDamageVar  = 20
)

// Engine resolves battles with an injected random source so outcomes can
// be replayed from a seed.
type Engine struct {
	roll         rng.Roller
	autoRoundCap int
	duelRoundCap int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAutoRoundCap overrides the auto-battle round limit.
func WithAutoRoundCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.autoRoundCap = n
		}
	}
}

// WithDuelRoundCap overrides the interactive duel round limit.
func WithDuelRoundCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.duelRoundCap = n
		}
	}
}

// NewEngine creates a battle engine backed by the given random source.
func NewEngine(roll rng.Roller, opts ...Option) *Engine {
	e := &Engine{
		roll:         roll,
		autoRoundCap: DefaultAutoRoundCap,
		duelRoundCap: DefaultDuelRoundCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OpponentHP returns the enemy HP pool for a difficulty, scaled by the
// player's level.
func OpponentHP(d model.Difficulty, level int) int {
	return int(math.Floor(enemyBaseHP[d] * levelScale(level)))
}

// levelScale grows both enemy pools and rewards by 10% per level past
// the first.
func levelScale(level int) float64 {
	return 1 + 0.1*float64(level-1)
}

// RewardsFor computes the payout for a finished battle. Losses still pay
// a consolation amount of every reward, rating included.
func RewardsFor(win bool, d model.Difficulty, level int) model.Rewards {
	mult := rewardMultiplier[d] * levelScale(level)
	if win {
		return model.Rewards{
			Coins:       int(math.Floor(winCoins * mult)),
			Experience:  int(math.Floor(winExp * mult)),
			ArenaRating: int(math.Floor(winRating * mult)),
		}
	}
	return model.Rewards{
		Coins:       int(math.Floor(lossCoins * mult)),
		Experience:  int(math.Floor(lossExp * mult)),
		ArenaRating: int(math.Floor(lossRating * mult)),
	}
}

// playerStrike rolls one player attack: uniform damage between min and
// max attack, a crit roll, then the opponent's chance to make it a miss.
// The dodge stat checked is the attacker's own, a long-standing balance
// quirk that shipped clients depend on.
func (e *Engine) playerStrike(stats hero.Stats) int {
	dmg := stats.MinAttack
	if spread := stats.MaxAttack - stats.MinAttack; spread > 0 {
		dmg += e.roll.IntN(spread + 1)
	}
	if e.roll.Chance(stats.CritChance) {
		dmg = int(math.Floor(float64(dmg) * CritMultiplier))
	}
	if e.roll.Chance(stats.Dodge) {
		return 0
	}
	return dmg
}

// enemyStrike rolls one enemy counterattack for a difficulty tier.
func (e *Engine) enemyStrike(d model.Difficulty) int {
	return int(math.Floor(enemyBaseDamage*difficultyMultiplier[d] + e.roll.Between(0, enemyDamageVar)))
}

// ResolveAuto runs a complete instant battle. The player strikes first
// each round; the enemy only counterattacks if still standing. The fight
// ends when either side drops to zero HP or the round cap is reached, in
// which case the enemy must be down for the player to win.
func (e *Engine) ResolveAuto(stats hero.Stats, d model.Difficulty, level int) ([]model.Round, model.BattleResult) {
	playerHP := stats.Health
	opponentHP := OpponentHP(d, level)

	rounds := make([]model.Round, 0, e.autoRoundCap)
	for i := 1; i <= e.autoRoundCap && playerHP > 0 && opponentHP > 0; i++ {
		playerDmg := e.playerStrike(stats)
		opponentHP -= playerDmg
		if opponentHP < 0 {
			opponentHP = 0
		}

		opponentDmg := 0
		if opponentHP > 0 {
			opponentDmg = e.enemyStrike(d)
			playerHP -= opponentDmg
			if playerHP < 0 {
				playerHP = 0
			}
		}

		rounds = append(rounds, model.Round{
			Round:          i,
			PlayerDamage:   playerDmg,
			OpponentDamage: opponentDmg,
			PlayerHP:       playerHP,
			OpponentHP:     opponentHP,
		})
	}

	win := opponentHP <= 0
	winner := model.SideOpponent
	if win {
		winner = model.SidePlayer
	}
	return rounds, model.BattleResult{
		Winner:     winner,
		Win:        win,
		PlayerHP:   playerHP,
		OpponentHP: opponentHP,
	}
}

// NewDuel initializes the mutable combat state of an interactive battle.
// The battle record passed in already carries identity and ownership.
func (e *Engine) NewDuel(b *model.Battle, stats hero.Stats, level int) {
	b.Status = model.BattleActive
	b.Interactive = true
	b.CurrentRound = 1
	b.PlayerMaxHP = stats.Health
	b.PlayerHP = stats.Health
	b.OpponentMaxHP = OpponentHP(b.Difficulty, level)
	b.OpponentHP = b.OpponentMaxHP
	b.PlayerCharges = DuelCharges
	b.OpponentCharges = DuelCharges
	b.Rounds = make([]model.Round, 0, e.duelRoundCap)
}

// ApplyMove resolves one duel round: the player's chosen move against the
// scripted opponent's. Both sides act simultaneously; defend negates the
// defender's own damage and quarters what it takes. At the round cap the
// side with more HP wins, and a tie goes against the player.
func (e *Engine) ApplyMove(b *model.Battle, stats hero.Stats, mv model.Move) error {
	if b.Status != model.BattleActive {
		return ErrBattleFinished
	}
	if mv == model.MoveSpecial && b.PlayerCharges <= 0 {
		return ErrNoChargesLeft
	}

	oppMove := e.opponentMove(b)

	playerDmg := e.duelDamage(stats, mv, oppMove)
	oppDmg := e.enemyDuelDamage(b.Difficulty, oppMove, mv)

	if mv == model.MoveSpecial {
		b.PlayerCharges--
	}
	if oppMove == model.MoveSpecial {
		b.OpponentCharges--
	}

	b.OpponentHP -= playerDmg
	if b.OpponentHP < 0 {
		b.OpponentHP = 0
	}
	b.PlayerHP -= oppDmg
	if b.PlayerHP < 0 {
		b.PlayerHP = 0
	}

	b.Rounds = append(b.Rounds, model.Round{
		Round:          b.CurrentRound,
		PlayerMove:     mv,
		OpponentMove:   oppMove,
		PlayerDamage:   playerDmg,
		OpponentDamage: oppDmg,
		PlayerHP:       b.PlayerHP,
		OpponentHP:     b.OpponentHP,
	})

	if b.PlayerHP <= 0 || b.OpponentHP <= 0 || b.CurrentRound >= e.duelRoundCap {
		e.finishDuel(b)
		return nil
	}
	b.CurrentRound++
	return nil
}

// duelDamage computes the player's outgoing damage for a duel round.
func (e *Engine) duelDamage(stats hero.Stats, mv, oppMove model.Move) int {
	if mv == model.MoveDefend {
		return 0
	}
	dmg := stats.MinAttack
	if spread := stats.MaxAttack - stats.MinAttack; spread > 0 {
		dmg += e.roll.IntN(spread + 1)
	}
	if mv == model.MoveSpecial {
		dmg = int(math.Floor(float64(dmg) * SpecialMultiplier))
	} else if e.roll.Chance(stats.CritChance) {
		dmg = int(math.Floor(float64(dmg) * CritMultiplier))
	}
	if oppMove == model.MoveDefend {
		dmg = int(math.Floor(float64(dmg) * DefendReduction))
	}
	return dmg
}

// enemyDuelDamage computes the opponent's outgoing damage for a round.
func (e *Engine) enemyDuelDamage(d model.Difficulty, oppMove, playerMove model.Move) int {
	if oppMove == model.MoveDefend {
		return 0
	}
	dmg := e.enemyStrike(d)
	if oppMove == model.MoveSpecial {
		dmg = int(math.Floor(float64(dmg) * SpecialMultiplier))
	}
	if playerMove == model.MoveDefend {
		dmg = int(math.Floor(float64(dmg) * DefendReduction))
	}
	return dmg
}

// opponentMove picks the scripted opponent's move. Hurt opponents lean
// defensive, opponents with charges left favor the special.
func (e *Engine) opponentMove(b *model.Battle) model.Move {
	if b.OpponentMaxHP > 0 && float64(b.OpponentHP)/float64(b.OpponentMaxHP) < 0.3 && e.roll.Chance(30) {
		return model.MoveDefend
	}
	if b.OpponentCharges > 0 && e.roll.Chance(50) {
		return model.MoveSpecial
	}
	switch e.roll.IntN(3) {
	case 0:
		return model.MoveAttack
	case 1:
		return model.MoveDefend
	default:
		// The charge budget binds the opponent too.
		if b.OpponentCharges <= 0 {
			return model.MoveAttack
		}
		return model.MoveSpecial
	}
}

// finishDuel closes out an interactive battle, deciding the winner from
// remaining HP. Ties break against the player.
func (e *Engine) finishDuel(b *model.Battle) {
	win := false
	switch {
	case b.OpponentHP <= 0 && b.PlayerHP > 0:
		win = true
	case b.PlayerHP <= 0:
		win = false
	default:
		win = b.PlayerHP > b.OpponentHP
	}

	winner := model.SideOpponent
	if win {
		winner = model.SidePlayer
	}
	b.Status = model.BattleFinished
	b.Result = &model.BattleResult{
		Winner:     winner,
		Win:        win,
		PlayerHP:   b.PlayerHP,
		OpponentHP: b.OpponentHP,
	}
}

// ForceFinish terminates an active interactive battle early. The early
// cash-out counts as a player win; rewards still flow through the normal
// one-shot grant at finish.
func (e *Engine) ForceFinish(b *model.Battle) error {
	if b.Status != model.BattleActive {
		return ErrBattleFinished
	}
	b.Status = model.BattleFinished
	b.Result = &model.BattleResult{
		Winner:     model.SidePlayer,
		Win:        true,
		PlayerHP:   b.PlayerHP,
		OpponentHP: b.OpponentHP,
	}
	return nil
}

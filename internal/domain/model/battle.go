package model

import (
	"strings"
	"time"
)

// Difficulty selects the opponent profile for PvE battles.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a caller-supplied difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", ErrInvalidDifficulty
	}
}

// Move is a player's action in a turn-by-turn battle.
type Move string

const (
	MoveAttack  Move = "attack"
	MoveDefend  Move = "defend"
	MoveSpecial Move = "special"
)

// ParseMove validates a caller-supplied move name.
func ParseMove(s string) (Move, error) {
	switch Move(strings.ToLower(strings.TrimSpace(s))) {
	case MoveAttack:
		return MoveAttack, nil
	case MoveDefend:
		return MoveDefend, nil
	case MoveSpecial:
		return MoveSpecial, nil
	default:
		return "", ErrInvalidMove
	}
}

// Side identifies a battle participant.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// BattleStatus tracks the battle lifecycle. Finished is terminal.
type BattleStatus string

const (
	BattleActive   BattleStatus = "active"
	BattleFinished BattleStatus = "finished"
)

// Round is one resolved exchange. Moves are empty for auto-resolved
// battles where both sides simply attack.
type Round struct {
	Round          int  `json:"round"`
	PlayerMove     Move `json:"playerMove,omitempty"`
	OpponentMove   Move `json:"opponentMove,omitempty"`
	PlayerDamage   int  `json:"playerDamage"`
	OpponentDamage int  `json:"opponentDamage"`
	PlayerHP       int  `json:"playerHP"`
	OpponentHP     int  `json:"opponentHP"`
}

// BattleResult is present only once a battle has finished.
type BattleResult struct {
	Winner     Side `json:"winner"`
	Win        bool `json:"win"`
	PlayerHP   int  `json:"finalPlayerHP"`
	OpponentHP int  `json:"finalOpponentHP"`
}

// Battle is one fight owned by a player against a scripted opponent.
type Battle struct {
	ID         int64      `json:"id"`
	OwnerID    string     `json:"ownerId"`
	Mode       Mode       `json:"mode"`
	Difficulty Difficulty `json:"difficulty"`

	// Opponent labels the scripted adversary in interactive battles.
	Opponent string `json:"opponent,omitempty"`

	Status       BattleStatus `json:"status"`
	CurrentRound int          `json:"currentRound"`
	Rounds       []Round      `json:"rounds"`

	PlayerHP      int `json:"playerHP"`
	PlayerMaxHP   int `json:"playerMaxHP"`
	OpponentHP    int `json:"opponentHP"`
	OpponentMaxHP int `json:"opponentMaxHP"`

	// Special-ability charges remaining per side.
	PlayerCharges   int `json:"playerCharges"`
	OpponentCharges int `json:"opponentCharges"`

	// Interactive marks turn-by-turn battles; auto battles resolve in one
	// call and are stored already finished.
	Interactive bool `json:"interactive"`

	Result *BattleResult `json:"result,omitempty"`

	// RewardsGranted guards the one-shot reward grant at finish.
	RewardsGranted bool `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// Rewards is the battle payout applied through the progression ledger.
type Rewards struct {
	Coins       int `json:"coins"`
	Experience  int `json:"experience"`
	ArenaRating int `json:"arenaRating"`
}

// Clone returns a deep copy safe to hand across the store boundary.
func (b *Battle) Clone() *Battle {
	cp := *b
	cp.Rounds = make([]Round, len(b.Rounds))
	copy(cp.Rounds, b.Rounds)
	if b.Result != nil {
		res := *b.Result
		cp.Result = &res
	}
	return &cp
}

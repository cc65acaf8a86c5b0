// Package hero derives combat stats from a hero's level and class.
package hero

import (
	"math"
	"strings"
)

// Base stats for a fresh level-1 wanderer.
const (
	BaseHealth    = 604.0
	BaseMinAttack = 50.0
	BaseMaxAttack = 60.0
	BaseArmor     = 2.8
	BaseSpeed     = 113.0
)

// Per-level growth, applied before class modifiers.
const (
	HealthPerLevel = 2.6
	AttackPerLevel = 2.7
	ArmorPerLevel  = 0.3
)

// Speed jitter bounds. The jitter is rolled once per recompute event
// (creation, level-up, class change) and passed into DeriveStats; deriving
// it on every read would make displayed stats drift between requests.
const (
	JitterMin = 0.0070
	JitterMax = 0.0168
)

// Class identifies one of the four combat archetypes.
type Class string

const (
	ClassWanderer Class = "wanderer"
	ClassWarrior  Class = "warrior"
	ClassMage     Class = "mage"
	ClassArcher   Class = "archer"
)

// modifier holds the multiplicative stat factors and additive crit/dodge
// bonuses for a class.
type modifier struct {
	health float64
	attack float64
	armor  float64
	speed  float64
	crit   float64
	dodge  float64
}

var modifiers = map[Class]modifier{
	ClassWanderer: {health: 1.0, attack: 1.0, armor: 1.0, speed: 1.0, crit: 0, dodge: 0},
	ClassWarrior:  {health: 1.08, attack: 1.03, armor: 1.05, speed: 1.04, crit: 2, dodge: 3},
	ClassMage:     {health: 1.03, attack: 1.10, armor: 1.02, speed: 1.03, crit: 5, dodge: 0},
	ClassArcher:   {health: 1.02, attack: 1.06, armor: 1.02, speed: 1.10, crit: 0, dodge: 5},
}

// Classes returns all recognized classes in a stable order.
func Classes() []Class {
	return []Class{ClassWanderer, ClassWarrior, ClassMage, ClassArcher}
}

// ParseClass validates a caller-supplied class name.
func ParseClass(s string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := modifiers[c]; !ok {
		return "", ErrInvalidClass
	}
	return c, nil
}

// Valid reports whether c is a recognized class.
func (c Class) Valid() bool {
	_, ok := modifiers[c]
	return ok
}

// Stats holds the derived combat stats for a hero.
type Stats struct {
	Health      int     `json:"health"`
	MinAttack   int     `json:"minAttack"`
	MaxAttack   int     `json:"maxAttack"`
	Armor       float64 `json:"armor"`
	Speed       int     `json:"speed"`
	CritChance  float64 `json:"critChance"`
	Dodge       float64 `json:"dodge"`
	AttackSpeed float64 `json:"attackSpeed"`
}

// Roller is the subset of the random source DeriveStats callers need to
// roll the speed jitter.
type Roller interface {
	Between(lo, hi float64) float64
}

// RollJitter draws a fresh speed jitter from the configured bounds.
func RollJitter(r Roller) float64 {
	return r.Between(JitterMin, JitterMax)
}

// DeriveStats computes the combat stats for a hero at the given level and
// class. speedJitter is the stored per-recompute jitter fraction, expected
// in [JitterMin, JitterMax].
func DeriveStats(level int, class Class, speedJitter float64) (Stats, error) {
	if level < 1 {
		return Stats{}, ErrInvalidLevel
	}
	mod, ok := modifiers[class]
	if !ok {
		return Stats{}, ErrInvalidClass
	}

	growth := float64(level - 1)
	health := BaseHealth + HealthPerLevel*growth
	minAttack := BaseMinAttack + AttackPerLevel*growth
	maxAttack := BaseMaxAttack + AttackPerLevel*growth
	armor := BaseArmor + ArmorPerLevel*growth

	// Jitter applies to the pre-modifier speed; attack speed is derived from
	// the same jittered value, matching how stats read on the client.
	speed := math.Floor(BaseSpeed * (1 + speedJitter))

	return Stats{
		Health:      int(math.Floor(health * mod.health)),
		MinAttack:   int(math.Floor(minAttack * mod.attack)),
		MaxAttack:   int(math.Floor(maxAttack * mod.attack)),
		Armor:       math.Floor(armor*mod.armor*100) / 100,
		Speed:       int(math.Floor(speed * mod.speed)),
		CritChance:  mod.crit,
		Dodge:       mod.dodge,
		AttackSpeed: math.Round(1.5*(100/speed)*10) / 10,
	}, nil
}

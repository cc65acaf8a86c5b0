package progression

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
)

// fixedRoller always returns the low bound, keeping derived stats
// deterministic across assertions.
type fixedRoller struct{}

func (fixedRoller) Between(lo, _ float64) float64 { return lo }

func newTestPlayer(level int) *model.Player {
	p := &model.Player{
		ID:         "p1",
		Username:   "tester",
		Level:      level,
		Currencies: map[model.Currency]int{model.CurrencyCoins: 100},
		Hero: model.Hero{
			Class:       hero.ClassWanderer,
			SpeedJitter: hero.JitterMin,
		},
		Stats: map[model.Mode]*model.BattleStats{},
	}
	stats, _ := hero.DeriveStats(level, hero.ClassWanderer, hero.JitterMin)
	p.Hero.Stats = stats
	return p
}

func TestApplyBattleOutcome(t *testing.T) {
	Convey("Given a fresh player", t, func() {
		p := newTestPlayer(1)

		Convey("When a PvE win is recorded", func() {
			ApplyBattleOutcome(p, model.ModePvE, true)

			Convey("Then battles, wins, and streak advance", func() {
				st := p.ModeStats(model.ModePvE)
				So(st.Battles, ShouldEqual, 1)
				So(st.Wins, ShouldEqual, 1)
				So(st.Losses, ShouldEqual, 0)
				So(st.WinStreak, ShouldEqual, 1)
			})
		})

		Convey("When a loss follows two wins", func() {
			ApplyBattleOutcome(p, model.ModePvE, true)
			ApplyBattleOutcome(p, model.ModePvE, true)
			ApplyBattleOutcome(p, model.ModePvE, false)

			Convey("Then the streak resets but the tally keeps counting", func() {
				st := p.ModeStats(model.ModePvE)
				So(st.Battles, ShouldEqual, 3)
				So(st.Wins, ShouldEqual, 2)
				So(st.Losses, ShouldEqual, 1)
				So(st.WinStreak, ShouldEqual, 0)
			})
		})

		Convey("When outcomes land in different modes", func() {
			ApplyBattleOutcome(p, model.ModePvE, true)
			ApplyBattleOutcome(p, model.ModePvP, false)

			Convey("Then counters stay separate per mode", func() {
				So(p.ModeStats(model.ModePvE).Wins, ShouldEqual, 1)
				So(p.ModeStats(model.ModePvP).Losses, ShouldEqual, 1)
				So(p.ModeStats(model.ModePvP).Wins, ShouldEqual, 0)
			})
		})
	})
}

func TestGrantRewards(t *testing.T) {
	Convey("Given a player with a starting balance", t, func() {
		p := newTestPlayer(1)
		p.ArenaRating = 1000

		Convey("When rewards are granted", func() {
			GrantRewards(p, model.Rewards{Coins: 50, Experience: 25, ArenaRating: 15})

			Convey("Then coins, experience, and rating all move", func() {
				So(p.Balance(model.CurrencyCoins), ShouldEqual, 150)
				So(p.Experience, ShouldEqual, 25)
				So(p.ArenaRating, ShouldEqual, 1015)
			})
		})

		Convey("When a loss payout is granted", func() {
			GrantRewards(p, model.Rewards{Coins: 20, Experience: 10, ArenaRating: 5})

			Convey("Then rating still grows", func() {
				So(p.ArenaRating, ShouldEqual, 1005)
			})
		})
	})
}

func TestTryLevelUp(t *testing.T) {
	Convey("Given a level-1 player", t, func() {
		p := newTestPlayer(1)
		oldHealth := p.Hero.Stats.Health

		Convey("When experience is below the threshold", func() {
			p.Experience = 99
			leveled, err := TryLevelUp(p, fixedRoller{})

			Convey("Then nothing changes", func() {
				So(err, ShouldBeNil)
				So(leveled, ShouldBeFalse)
				So(p.Level, ShouldEqual, 1)
				So(p.Experience, ShouldEqual, 99)
			})
		})

		Convey("When experience reaches the threshold exactly", func() {
			p.Experience = 100
			leveled, err := TryLevelUp(p, fixedRoller{})

			Convey("Then the player levels up and experience resets", func() {
				So(err, ShouldBeNil)
				So(leveled, ShouldBeTrue)
				So(p.Level, ShouldEqual, 2)
				So(p.Experience, ShouldEqual, 0)
			})

			Convey("Then stats are recomputed at the new level", func() {
				So(p.Hero.Stats.Health, ShouldBeGreaterThan, oldHealth)
			})
		})

		Convey("When experience overshoots the threshold", func() {
			p.Experience = 175
			leveled, err := TryLevelUp(p, fixedRoller{})

			Convey("Then the remainder is discarded", func() {
				So(err, ShouldBeNil)
				So(leveled, ShouldBeTrue)
				So(p.Experience, ShouldEqual, 0)
			})
		})
	})
}

func TestUnlockClassChange(t *testing.T) {
	Convey("Given players at various levels", t, func() {
		Convey("A level-2 player stays locked", func() {
			p := newTestPlayer(2)
			So(UnlockClassChangeIfEligible(p), ShouldBeFalse)
			So(p.Hero.ClassChangeAvailable, ShouldBeFalse)
		})

		Convey("A level-3 player unlocks exactly once", func() {
			p := newTestPlayer(3)
			So(UnlockClassChangeIfEligible(p), ShouldBeTrue)
			So(p.Hero.ClassChangeAvailable, ShouldBeTrue)
			So(UnlockClassChangeIfEligible(p), ShouldBeFalse)
		})

		Convey("A player who already used the change never re-unlocks", func() {
			p := newTestPlayer(5)
			p.Hero.ClassChangeUsed = true
			So(UnlockClassChangeIfEligible(p), ShouldBeFalse)
			So(p.Hero.ClassChangeAvailable, ShouldBeFalse)
		})
	})
}

func TestChangeClass(t *testing.T) {
	Convey("Given a level-3 player with an unlocked class change", t, func() {
		p := newTestPlayer(3)
		p.Hero.ClassChangeAvailable = true

		Convey("When the player becomes a warrior", func() {
			err := ChangeClass(p, hero.ClassWarrior, fixedRoller{})

			Convey("Then the class and stats update and the flag is consumed", func() {
				So(err, ShouldBeNil)
				So(p.Hero.Class, ShouldEqual, hero.ClassWarrior)
				So(p.Hero.ClassChangeAvailable, ShouldBeFalse)
				So(p.Hero.ClassChangeUsed, ShouldBeTrue)

				want, _ := hero.DeriveStats(3, hero.ClassWarrior, hero.JitterMin)
				So(p.Hero.Stats, ShouldResemble, want)
			})

			Convey("Then a second change is rejected", func() {
				So(ChangeClass(p, hero.ClassMage, fixedRoller{}), ShouldEqual, ErrClassChangeUnavailable)
			})
		})

		Convey("When the class name is unknown", func() {
			err := ChangeClass(p, hero.Class("paladin"), fixedRoller{})
			So(err, ShouldEqual, hero.ErrInvalidClass)
			So(p.Hero.Class, ShouldEqual, hero.ClassWanderer)
		})
	})

	Convey("Given a player without the unlock", t, func() {
		p := newTestPlayer(2)
		So(ChangeClass(p, hero.ClassMage, fixedRoller{}), ShouldEqual, ErrClassChangeUnavailable)
	})
}

package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	service "github.com/okian/pixelarena/internal/app"
	"github.com/okian/pixelarena/internal/domain/battle"
	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/notify"
	. "github.com/smartystreets/goconvey/convey"
)

// captureSink records delivered notifications for assertions.
type captureSink struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (c *captureSink) Deliver(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
	return nil
}

func (c *captureSink) kinds() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int)
	for _, n := range c.got {
		out[n.Kind]++
	}
	return out
}

// waitForKind polls until the sink has seen at least one notification of
// the given kind or the deadline passes.
func (c *captureSink) waitForKind(kind string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.kinds()[kind] > 0 {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// firstTicket returns the id of the first ticket in the inventory.
func firstTicket(t *testing.T, p *model.Player) string {
	t.Helper()
	for _, it := range p.Inventory {
		if it.Kind == model.ItemTicket {
			return it.ID
		}
	}
	t.Fatal("player has no tickets")
	return ""
}

func TestAutoBattleFlow(t *testing.T) {
	Convey("Given a registered player", t, func() {
		svc := startService(t)
		ctx := context.Background()
		p, err := svc.GetOrCreatePlayer(ctx, "fighter", "Fighter")
		So(err, ShouldBeNil)

		Convey("When running an instant battle", func() {
			out, err := svc.StartAutoBattle(ctx, "fighter", model.DifficultyEasy)
			So(err, ShouldBeNil)

			Convey("Then the battle should be stored finished", func() {
				So(out.Battle.Status, ShouldEqual, model.BattleFinished)
				So(out.Battle.Result, ShouldNotBeNil)
				So(len(out.Battle.Rounds), ShouldBeGreaterThan, 0)
				So(len(out.Battle.Rounds), ShouldBeLessThanOrEqualTo, battle.DefaultAutoRoundCap)
			})

			Convey("And one energy should be consumed", func() {
				So(out.Player.Energy, ShouldEqual, p.Energy-1)
			})

			Convey("And the payout should match the published schedule", func() {
				want := battle.RewardsFor(out.Battle.Result.Win, model.DifficultyEasy, 1)
				So(out.Rewards, ShouldResemble, want)
				So(out.Player.Balance(model.CurrencyCoins), ShouldEqual, 100+want.Coins)
				rating := 1000 + want.ArenaRating
				if rating < 0 {
					rating = 0
				}
				So(out.Player.ArenaRating, ShouldEqual, rating)
			})

			Convey("And the battle counters should record the outcome", func() {
				st := out.Player.Stats[model.ModePvE]
				So(st, ShouldNotBeNil)
				So(st.Battles, ShouldEqual, 1)
				So(st.Wins+st.Losses, ShouldEqual, 1)
			})
		})

		Convey("When the player has no energy left", func() {
			for i := 0; i < p.Energy; i++ {
				_, err := svc.StartAutoBattle(ctx, "fighter", model.DifficultyEasy)
				So(err, ShouldBeNil)
			}
			_, err := svc.StartAutoBattle(ctx, "fighter", model.DifficultyEasy)

			Convey("Then the next battle should be refused", func() {
				So(err, ShouldEqual, service.ErrInsufficientEnergy)
			})
		})
	})
}

func TestEnergyRegeneration(t *testing.T) {
	Convey("Given a player who spent energy", t, func() {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}

		svc := startService(t, service.WithClock(clock))
		ctx := context.Background()
		_, err := svc.GetOrCreatePlayer(ctx, "regen", "Regen")
		So(err, ShouldBeNil)
		for i := 0; i < 3; i++ {
			_, err := svc.StartAutoBattle(ctx, "regen", model.DifficultyEasy)
			So(err, ShouldBeNil)
		}
		p, err := svc.GetPlayer(ctx, "regen")
		So(err, ShouldBeNil)
		So(p.Energy, ShouldEqual, 7)

		Convey("When less than one interval passes", func() {
			advance(29 * time.Minute)
			p, err := svc.GetPlayer(ctx, "regen")
			So(err, ShouldBeNil)

			Convey("Then no energy should regenerate", func() {
				So(p.Energy, ShouldEqual, 7)
			})
		})

		Convey("When two intervals pass", func() {
			advance(61 * time.Minute)
			p, err := svc.GetPlayer(ctx, "regen")
			So(err, ShouldBeNil)

			Convey("Then two points should regenerate", func() {
				So(p.Energy, ShouldEqual, 9)
			})

			Convey("And partial progress should carry into the next point", func() {
				advance(29 * time.Minute)
				p, err := svc.GetPlayer(ctx, "regen")
				So(err, ShouldBeNil)
				So(p.Energy, ShouldEqual, 10)
			})
		})

		Convey("When far more time passes than needed", func() {
			advance(48 * time.Hour)
			p, err := svc.GetPlayer(ctx, "regen")
			So(err, ShouldBeNil)

			Convey("Then energy should cap at the maximum", func() {
				So(p.Energy, ShouldEqual, p.MaxEnergy)
			})
		})
	})
}

func TestInteractiveBattleFlow(t *testing.T) {
	Convey("Given a registered player", t, func() {
		svc := startService(t)
		ctx := context.Background()
		_, err := svc.GetOrCreatePlayer(ctx, "duelist", "Duelist")
		So(err, ShouldBeNil)

		Convey("When opening an interactive battle", func() {
			b, p, err := svc.StartInteractiveBattle(ctx, "duelist", "", model.DifficultyMedium)
			So(err, ShouldBeNil)

			Convey("Then it should start active with full resources", func() {
				So(b.Status, ShouldEqual, model.BattleActive)
				So(b.Interactive, ShouldBeTrue)
				So(b.Opponent, ShouldEqual, "Arena Bot")
				So(b.CurrentRound, ShouldEqual, 1)
				So(b.PlayerHP, ShouldEqual, b.PlayerMaxHP)
				So(b.PlayerCharges, ShouldEqual, battle.DuelCharges)
				So(p.Energy, ShouldEqual, 9)
			})

			Convey("And playing rounds should eventually finish it", func() {
				cur := b
				for cur.Status == model.BattleActive {
					cur, err = svc.SubmitMove(ctx, b.ID, model.MoveAttack)
					So(err, ShouldBeNil)
				}
				So(cur.Status, ShouldEqual, model.BattleFinished)
				So(cur.Result, ShouldNotBeNil)
				So(len(cur.Rounds), ShouldBeLessThanOrEqualTo, battle.DefaultDuelRoundCap)

				Convey("And further moves should be rejected", func() {
					_, err := svc.SubmitMove(ctx, b.ID, model.MoveAttack)
					So(err, ShouldEqual, battle.ErrBattleFinished)
				})
			})
		})

		Convey("When cashing out an active battle early", func() {
			before, err := svc.GetPlayer(ctx, "duelist")
			So(err, ShouldBeNil)
			b, _, err := svc.StartInteractiveBattle(ctx, "duelist", "", model.DifficultyEasy)
			So(err, ShouldBeNil)

			out, err := svc.FinishBattle(ctx, b.ID, "duelist")
			So(err, ShouldBeNil)

			Convey("Then the owner should take the win payout", func() {
				So(out.Battle.Status, ShouldEqual, model.BattleFinished)
				So(out.Battle.Result.Win, ShouldBeTrue)
				want := battle.RewardsFor(true, model.DifficultyEasy, before.Level)
				So(out.Rewards, ShouldResemble, want)
				So(out.Player.Balance(model.CurrencyCoins), ShouldEqual,
					before.Balance(model.CurrencyCoins)+want.Coins)
			})

			Convey("And finishing again should not pay twice", func() {
				_, err := svc.FinishBattle(ctx, b.ID, "duelist")
				So(err, ShouldEqual, battle.ErrBattleFinished)

				p, err := svc.GetPlayer(ctx, "duelist")
				So(err, ShouldBeNil)
				So(p.Balance(model.CurrencyCoins), ShouldEqual,
					out.Player.Balance(model.CurrencyCoins))
			})

			Convey("And a stranger should not be able to finish it", func() {
				_, err := svc.GetOrCreatePlayer(ctx, "stranger", "Stranger")
				So(err, ShouldBeNil)
				_, err = svc.FinishBattle(ctx, b.ID, "stranger")
				So(err, ShouldEqual, service.ErrNotBattleOwner)
			})
		})
	})
}

func TestShopPurchases(t *testing.T) {
	Convey("Given a registered player", t, func() {
		svc := startService(t, service.WithStartingBalances(500, 10, 1000, 5))
		ctx := context.Background()
		p, err := svc.GetOrCreatePlayer(ctx, "shopper", "Shopper")
		So(err, ShouldBeNil)

		Convey("When buying a ticket pack with coins", func() {
			out, err := svc.PurchaseShopItem(ctx, "shopper", market.ShopTicketPack, model.CurrencyCoins)
			So(err, ShouldBeNil)

			Convey("Then it should add five tickets and charge the coin price", func() {
				So(out.Player.Balance(model.CurrencyCoins), ShouldEqual, 300)
				So(len(out.Player.Inventory), ShouldEqual, len(p.Inventory)+market.TicketPackSize)
			})
		})

		Convey("When refilling energy after spending some", func() {
			_, err := svc.StartAutoBattle(ctx, "shopper", model.DifficultyEasy)
			So(err, ShouldBeNil)
			out, err := svc.PurchaseShopItem(ctx, "shopper", market.ShopEnergyRefill, model.CurrencyCoins)
			So(err, ShouldBeNil)

			Convey("Then energy should return to the maximum", func() {
				So(out.Player.Energy, ShouldEqual, out.Player.MaxEnergy)
			})
		})

		Convey("When paying with a currency the item does not accept", func() {
			_, err := svc.PurchaseShopItem(ctx, "shopper", market.ShopAttackBoost, model.CurrencyPremium)

			Convey("Then it should be refused", func() {
				So(err, ShouldEqual, market.ErrCurrencyNotAccepted)
			})
		})

		Convey("When buying an unknown item", func() {
			_, err := svc.PurchaseShopItem(ctx, "shopper", "mystery_box", model.CurrencyCoins)

			Convey("Then it should be refused", func() {
				So(err, ShouldEqual, market.ErrUnknownShopItem)
			})
		})

		Convey("When the balance cannot cover the price", func() {
			_, err := svc.PurchaseShopItem(ctx, "shopper", market.ShopTicketPack, model.CurrencyPremium)

			Convey("Then nothing should be deducted", func() {
				So(err, ShouldEqual, service.ErrInsufficientFunds)
				p, err := svc.GetPlayer(ctx, "shopper")
				So(err, ShouldBeNil)
				So(p.Balance(model.CurrencyPremium), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a player whose balance exactly matches a price", t, func() {
		svc := startService(t, service.WithStartingBalances(100, 10, 1000, 5))
		ctx := context.Background()
		_, err := svc.GetOrCreatePlayer(ctx, "exact", "Exact")
		So(err, ShouldBeNil)

		Convey("When buying an energy refill priced at 100 coins", func() {
			out, err := svc.PurchaseShopItem(ctx, "exact", market.ShopEnergyRefill, model.CurrencyCoins)
			So(err, ShouldBeNil)

			Convey("Then the purchase should succeed and leave zero", func() {
				So(out.Player.Balance(model.CurrencyCoins), ShouldEqual, 0)
			})
		})
	})
}

func TestMarketFlow(t *testing.T) {
	Convey("Given a seller and a buyer", t, func() {
		svc := startService(t)
		ctx := context.Background()
		seller, err := svc.GetOrCreatePlayer(ctx, "seller", "Seller")
		So(err, ShouldBeNil)
		_, err = svc.GetOrCreatePlayer(ctx, "buyer", "Buyer")
		So(err, ShouldBeNil)
		ticketID := firstTicket(t, seller)

		Convey("When listing an owned ticket", func() {
			l, err := svc.ListMarketItem(ctx, "seller", ticketID, 100, model.CurrencyCoins)
			So(err, ShouldBeNil)

			Convey("Then the item should leave the seller's inventory", func() {
				So(l.Status, ShouldEqual, model.ListingListed)
				p, err := svc.GetPlayer(ctx, "seller")
				So(err, ShouldBeNil)
				So(p.FindItem(ticketID), ShouldEqual, -1)
				So(len(svc.MarketListings(ctx)), ShouldEqual, 1)
			})

			Convey("And the seller should not be able to buy it back", func() {
				_, _, err := svc.BuyMarketItem(ctx, "seller", l.ID)
				So(err, ShouldEqual, service.ErrOwnListing)
			})

			Convey("And the buyer purchasing it settles both sides", func() {
				sold, buyer, err := svc.BuyMarketItem(ctx, "buyer", l.ID)
				So(err, ShouldBeNil)

				So(sold.Status, ShouldEqual, model.ListingSold)
				So(sold.BuyerID, ShouldEqual, "buyer")
				So(buyer.Balance(model.CurrencyCoins), ShouldEqual, 0)
				So(buyer.FindItem(ticketID), ShouldNotEqual, -1)

				// 5% commission on 100 leaves the seller 95.
				p, err := svc.GetPlayer(ctx, "seller")
				So(err, ShouldBeNil)
				So(p.Balance(model.CurrencyCoins), ShouldEqual, 195)
				So(len(svc.MarketListings(ctx)), ShouldEqual, 0)

				Convey("And buying the sold listing again should fail", func() {
					_, _, err := svc.BuyMarketItem(ctx, "buyer", l.ID)
					So(err, ShouldNotBeNil)
				})
			})

			Convey("And a buyer who cannot afford it changes nothing", func() {
				_, err := svc.PurchaseShopItem(ctx, "buyer", market.ShopEnergyRefill, model.CurrencyCoins)
				So(err, ShouldBeNil)

				_, _, err = svc.BuyMarketItem(ctx, "buyer", l.ID)
				So(err, ShouldEqual, service.ErrInsufficientFunds)

				cur, err := svc.GetPlayer(ctx, "buyer")
				So(err, ShouldBeNil)
				So(cur.Balance(model.CurrencyCoins), ShouldEqual, 0)
				So(cur.FindItem(ticketID), ShouldEqual, -1)
				So(len(svc.MarketListings(ctx)), ShouldEqual, 1)
			})
		})

		Convey("When listing with a non-positive price", func() {
			_, err := svc.ListMarketItem(ctx, "seller", ticketID, 0, model.CurrencyCoins)

			Convey("Then it should be rejected", func() {
				So(err, ShouldEqual, service.ErrInvalidPrice)
			})
		})

		Convey("When listing an item the seller does not own", func() {
			_, err := svc.ListMarketItem(ctx, "seller", "no-such-item", 50, model.CurrencyCoins)

			Convey("Then it should be rejected and the inventory untouched", func() {
				So(err, ShouldEqual, service.ErrItemNotOwned)
				p, perr := svc.GetPlayer(ctx, "seller")
				So(perr, ShouldBeNil)
				So(len(p.Inventory), ShouldEqual, len(seller.Inventory))
			})
		})
	})
}

func TestQuickSell(t *testing.T) {
	Convey("Given a player with a starter ticket", t, func() {
		svc := startService(t)
		ctx := context.Background()
		p, err := svc.GetOrCreatePlayer(ctx, "np", "NeedsCoins")
		So(err, ShouldBeNil)
		ticketID := firstTicket(t, p)

		Convey("When quick-selling the ticket", func() {
			out, err := svc.QuickSellItem(ctx, "np", ticketID)
			So(err, ShouldBeNil)

			Convey("Then it should pay 80% of the base price, floored", func() {
				So(out.Credit, ShouldEqual, 32)
				So(out.Player.Balance(model.CurrencyCoins), ShouldEqual, 132)
				So(out.Player.FindItem(ticketID), ShouldEqual, -1)
			})
		})

		Convey("When quick-selling an item the player does not own", func() {
			_, err := svc.QuickSellItem(ctx, "np", "no-such-item")

			Convey("Then it should be rejected with nothing removed", func() {
				So(err, ShouldEqual, service.ErrItemNotOwned)
				cur, perr := svc.GetPlayer(ctx, "np")
				So(perr, ShouldBeNil)
				So(len(cur.Inventory), ShouldEqual, len(p.Inventory))
			})
		})
	})
}

func TestProgressionAndNotifications(t *testing.T) {
	Convey("Given a player grinding battles", t, func() {
		sink := &captureSink{}
		svc := startService(t,
			service.WithStartingBalances(100, 200, 1000, 5),
			service.WithSink(sink),
		)
		ctx := context.Background()
		_, err := svc.GetOrCreatePlayer(ctx, "grinder", "Grinder")
		So(err, ShouldBeNil)

		// Wins and losses both grant experience, so the level rises no
		// matter how the seeded battles fall.
		p, err := svc.GetPlayer(ctx, "grinder")
		So(err, ShouldBeNil)
		for i := 0; i < 120 && p.Level < 3; i++ {
			out, berr := svc.StartAutoBattle(ctx, "grinder", model.DifficultyEasy)
			So(berr, ShouldBeNil)
			p = out.Player
		}
		So(p.Level, ShouldBeGreaterThanOrEqualTo, 3)

		Convey("Then experience should have been consumed by level-ups", func() {
			So(p.Experience, ShouldBeLessThan, p.Level*100)
		})

		Convey("And the class change should be unlocked exactly once", func() {
			So(p.Hero.ClassChangeAvailable, ShouldBeTrue)

			changed, err := svc.ChangeClass(ctx, "grinder", hero.ClassMage)
			So(err, ShouldBeNil)
			So(changed.Hero.Class, ShouldEqual, hero.ClassMage)
			So(changed.Hero.ClassChangeAvailable, ShouldBeFalse)

			Convey("And a second change should be refused", func() {
				_, err := svc.ChangeClass(ctx, "grinder", hero.ClassArcher)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("And notifications should have been delivered", func() {
			So(sink.waitForKind(notify.KindLevelUp, 2*time.Second), ShouldBeTrue)
			So(sink.waitForKind(notify.KindClassChangeUnlocked, 2*time.Second), ShouldBeTrue)

			Convey("And the unlock fires only once", func() {
				So(sink.kinds()[notify.KindClassChangeUnlocked], ShouldEqual, 1)
			})
		})
	})
}

func TestLeaderboardAfterBattles(t *testing.T) {
	Convey("Given players with diverged ratings", t, func() {
		svc := startService(t)
		ctx := context.Background()
		for _, id := range []string{"first", "second"} {
			_, err := svc.GetOrCreatePlayer(ctx, id, "P-"+id)
			So(err, ShouldBeNil)
		}
		// Only the second player battles, so the two ratings diverge.
		for i := 0; i < 5; i++ {
			_, err := svc.StartAutoBattle(ctx, "second", model.DifficultyEasy)
			So(err, ShouldBeNil)
		}
		second, err := svc.GetPlayer(ctx, "second")
		So(err, ShouldBeNil)

		Convey("When reading the leaderboard", func() {
			entries, err := svc.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 2)

			Convey("Then rows should be ordered by rating", func() {
				So(entries[0].ArenaRating, ShouldBeGreaterThanOrEqualTo, entries[1].ArenaRating)
			})

			Convey("And each row should agree with the player's rank", func() {
				for _, e := range entries {
					got, err := svc.PlayerRank(ctx, e.PlayerID)
					So(err, ShouldBeNil)
					So(got.Rank, ShouldEqual, e.Rank)
					So(got.ArenaRating, ShouldEqual, e.ArenaRating)
				}
			})

			Convey("And the battler's stored rating should match its row", func() {
				for _, e := range entries {
					if e.PlayerID == "second" {
						So(e.ArenaRating, ShouldEqual, second.ArenaRating)
					}
				}
			})
		})
	})
}

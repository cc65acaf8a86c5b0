package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/pixelarena/internal/app"
	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/progression"
	"github.com/okian/pixelarena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// startService builds and starts a service with a fixed seed so battle
// results are reproducible, plus any extra options the test needs.
func startService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithRNGSeed(1)}, opts...)...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithRNGSeed(42),
			service.WithNotifyWorkers(8),
			service.WithNotifyQueueSize(50_000),
			service.WithCommissionPct(10),
			service.WithQuickSellPct(50),
			service.WithRoundCaps(7, 4),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_GetOrCreatePlayer(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		ctx := context.Background()

		Convey("When registering a new player", func() {
			p, err := svc.GetOrCreatePlayer(ctx, "player-1", "Hero")
			So(err, ShouldBeNil)

			Convey("Then it should start with the default resources", func() {
				So(p.Username, ShouldEqual, "Hero")
				So(p.Level, ShouldEqual, 1)
				So(p.Experience, ShouldEqual, 0)
				So(p.Balance(model.CurrencyCoins), ShouldEqual, 100)
				So(p.Balance(model.CurrencyPremium), ShouldEqual, 0)
				So(p.Energy, ShouldEqual, 10)
				So(p.MaxEnergy, ShouldEqual, 10)
				So(p.ArenaRating, ShouldEqual, 1000)
				So(p.Hero.Class, ShouldEqual, hero.ClassWanderer)
				So(p.Hero.ClassChangeAvailable, ShouldBeFalse)
			})

			Convey("And its inventory should hold the starter items", func() {
				tickets := 0
				skins := 0
				for _, it := range p.Inventory {
					switch it.Kind {
					case model.ItemTicket:
						tickets++
					case model.ItemSkin:
						skins++
					}
				}
				So(tickets, ShouldEqual, 5)
				So(skins, ShouldEqual, 1)
				So(len(p.Inventory), ShouldEqual, 6)
			})

			Convey("And fetching the same id again should not re-register", func() {
				again, err := svc.GetOrCreatePlayer(ctx, "player-1", "SomeoneElse")
				So(err, ShouldBeNil)
				So(again.Username, ShouldEqual, "Hero")
				So(svc.GetStats()["totalPlayers"], ShouldEqual, 1)
			})
		})

		Convey("When registering with a blank username", func() {
			_, err := svc.GetOrCreatePlayer(ctx, "player-2", "   ")

			Convey("Then it should be rejected", func() {
				So(err, ShouldEqual, service.ErrInvalidUsername)
			})
		})

		Convey("When fetching an unknown player", func() {
			_, err := svc.GetPlayer(ctx, "nobody")

			Convey("Then it should report not found", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_ChangeClass(t *testing.T) {
	Convey("Given a fresh level-1 player", t, func() {
		svc := startService(t)
		ctx := context.Background()
		_, err := svc.GetOrCreatePlayer(ctx, "p1", "Rookie")
		So(err, ShouldBeNil)

		Convey("When changing class before the unlock", func() {
			_, err := svc.ChangeClass(ctx, "p1", hero.ClassWarrior)

			Convey("Then it should be unavailable", func() {
				So(err, ShouldEqual, progression.ErrClassChangeUnavailable)
			})
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	Convey("Given a service with registered players", t, func() {
		svc := startService(t, service.WithMaxLeaderboardLimit(2))
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			_, err := svc.GetOrCreatePlayer(ctx, id, "Player-"+id)
			So(err, ShouldBeNil)
		}

		Convey("When requesting more rows than the configured maximum", func() {
			entries, err := svc.Leaderboard(ctx, 50)

			Convey("Then the limit should be clamped", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})
		})

		Convey("When requesting a non-positive limit", func() {
			_, err := svc.Leaderboard(ctx, 0)

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When players share a rating", func() {
			entries, err := svc.Leaderboard(ctx, 2)

			Convey("Then registration order should break the tie", func() {
				So(err, ShouldBeNil)
				So(entries[0].PlayerID, ShouldEqual, "a")
				So(entries[1].PlayerID, ShouldEqual, "b")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When looking up a single player's rank", func() {
			entry, err := svc.PlayerRank(ctx, "c")

			Convey("Then it should match its leaderboard position", func() {
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 3)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

// Package service provides the core game service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	notifyqueue "github.com/okian/pixelarena/internal/adapters/mq/queue"
	workerpool "github.com/okian/pixelarena/internal/adapters/mq/worker"
	repository "github.com/okian/pixelarena/internal/adapters/repository"
	"github.com/okian/pixelarena/internal/domain/battle"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/notify"
	"github.com/okian/pixelarena/internal/domain/rng"
	"github.com/okian/pixelarena/pkg/logger"
	"github.com/okian/pixelarena/pkg/metrics"
)

// Service implements the game operations for the arena system: player
// lifecycle, battles, shop, market, and the leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	players  repository.Players
	battles  repository.Battles
	listings repository.Listings
	rating   *repository.RatingIndex
	engine   *battle.Engine
	roll     rng.Roller
	guard    notify.Guard
	queue    notifyqueue.Queue
	pool     *workerpool.Pool
	sink     notify.Sink

	// Configuration
	rngSeed         int64
	regenInterval   time.Duration
	autoRoundCap    int
	duelRoundCap    int
	commissionPct   int
	quickSellPct    int
	startingCoins   int
	startingEnergy  int
	startingRating  int
	startingTickets int
	maxLeaderboard  int
	notifyQueueSize int
	notifyWorkers   int

	// State
	started bool
	now     func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRNGSeed fixes the random source seed. Zero means time-seeded.
func WithRNGSeed(seed int64) Option {
	return func(s *Service) {
		s.rngSeed = seed
	}
}

// WithEnergyRegenInterval sets how long one energy point takes to
// regenerate.
func WithEnergyRegenInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.regenInterval = d
		}
	}
}

// WithRoundCaps sets the auto and duel round caps.
func WithRoundCaps(auto, duel int) Option {
	return func(s *Service) {
		if auto > 0 {
			s.autoRoundCap = auto
		}
		if duel > 0 {
			s.duelRoundCap = duel
		}
	}
}

// WithCommissionPct sets the market commission percentage.
func WithCommissionPct(pct int) Option {
	return func(s *Service) {
		if pct >= 0 && pct <= 100 {
			s.commissionPct = pct
		}
	}
}

// WithQuickSellPct sets the quick-sell payout percentage.
func WithQuickSellPct(pct int) Option {
	return func(s *Service) {
		if pct >= 0 && pct <= 100 {
			s.quickSellPct = pct
		}
	}
}

// WithStartingBalances sets the resources granted to new players.
func WithStartingBalances(coins, energy, rating, tickets int) Option {
	return func(s *Service) {
		if coins >= 0 {
			s.startingCoins = coins
		}
		if energy > 0 {
			s.startingEnergy = energy
		}
		if rating >= 0 {
			s.startingRating = rating
		}
		if tickets >= 0 {
			s.startingTickets = tickets
		}
	}
}

// WithMaxLeaderboardLimit caps how many rows a leaderboard query returns.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboard = n
		}
	}
}

// WithNotifyQueueSize sets the notification queue capacity.
func WithNotifyQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.notifyQueueSize = size
		}
	}
}

// WithNotifyWorkers sets the number of notification delivery workers.
func WithNotifyWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.notifyWorkers = count
		}
	}
}

// WithSink sets a custom notification sink.
func WithSink(sink notify.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock sets a custom time source, used by tests to control energy
// regeneration.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		regenInterval:   30 * time.Minute,
		autoRoundCap:    battle.DefaultAutoRoundCap,
		duelRoundCap:    battle.DefaultDuelRoundCap,
		commissionPct:   market.DefaultCommissionPct,
		quickSellPct:    market.DefaultQuickSellPct,
		startingCoins:   100,
		startingEnergy:  10,
		startingRating:  1000,
		startingTickets: 5,
		maxLeaderboard:  100,
		notifyQueueSize: 10000,
		notifyWorkers:   4,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting arena service...")

	s.players = repository.NewPlayerStore()
	s.battles = repository.NewBattleStore()
	s.listings = repository.NewListingStore()
	s.rating = repository.NewRatingIndex(ctx)
	s.roll = rng.New(s.rngSeed)
	s.engine = battle.NewEngine(s.roll,
		battle.WithAutoRoundCap(s.autoRoundCap),
		battle.WithDuelRoundCap(s.duelRoundCap),
	)
	s.guard = notify.NewInMemoryGuard()
	if s.sink == nil {
		s.sink = notify.NewLogSink(s.logger.Named("notify"))
	}
	s.queue = notifyqueue.NewInMemoryQueue(
		notifyqueue.WithCapacity(s.notifyQueueSize),
		notifyqueue.WithBufferSize(s.notifyQueueSize),
	)
	s.pool = workerpool.NewPool(s.notifyWorkers, s.queue, s.sink)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "arena service started",
		logger.Int("notify_workers", s.notifyWorkers),
		logger.Int("notify_queue_size", s.notifyQueueSize),
		logger.Duration("energy_regen", s.regenInterval),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping arena service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if s.rating != nil {
		_ = s.rating.Close()
	}

	s.started = false
	s.logger.Info(ctx, "arena service stopped")
}

// notifyOnce enqueues a one-time notification, suppressing duplicates by
// key. A full queue unrecords the key so the message can fire later.
func (s *Service) notifyOnce(ctx context.Context, n notify.Notification) {
	if s.guard.SeenAndRecord(ctx, n.Key) {
		metrics.RecordNotificationDuplicate()
		return
	}
	if !s.queue.Enqueue(ctx, n) {
		s.guard.Unrecord(ctx, n.Key)
		s.logger.Warn(ctx, "notification queue full, dropping",
			logger.String("key", n.Key),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"notifyWorkers":  s.notifyWorkers,
		"energyRegenSec": s.regenInterval.Seconds(),
	}

	if s.started {
		players := s.players.Count(ctx)
		battlesActive := s.battles.ActiveCount(ctx)
		listingsOpen := s.listings.OpenCount(ctx)

		stats["totalPlayers"] = players
		stats["activeBattles"] = battlesActive
		stats["openListings"] = listingsOpen
		stats["notifyQueueLength"] = s.queue.Len(ctx)
		stats["notifyGuardSize"] = s.guard.Size()

		metrics.UpdatePlayersTotal(players)
		metrics.UpdateBattlesActive(battlesActive)
		metrics.UpdateListingsOpen(listingsOpen)
	}

	return stats
}

package smoke

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pixelarena/pkg/logger"
)

var difficulties = []string{"easy", "medium", "hard"}

// Run executes the complete smoke sequence against a live instance.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting arena smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("battlesPerPlayer", config.BattlesPerPlayer),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create players concurrently
	players, err := createPlayers(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("player creation failed: %w", err)
	}

	// Step 3: Fight battles concurrently
	if err := runBattles(ctx, client, config, players, stats); err != nil {
		return fmt.Errorf("battle run failed: %w", err)
	}

	// Step 4: Exercise the shop and the market
	if err := runEconomy(ctx, client, config, players, stats); err != nil {
		return fmt.Errorf("economy run failed: %w", err)
	}

	// Step 5: Fetch the leaderboard and verify invariants
	if err := verifyLeaderboard(ctx, client, config, players, stats); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// createPlayers registers NumPlayers fresh players with uuid identities.
func createPlayers(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]Player, error) {
	logger.Get().Info(ctx, "creating players", logger.Int("count", config.NumPlayers))

	players := make([]Player, config.NumPlayers)
	errs := make([]error, config.NumPlayers)

	var wg sync.WaitGroup
	sem := make(chan struct{}, config.Workers)
	for i := 0; i < config.NumPlayers; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			id := uuid.NewString()
			url := fmt.Sprintf("%s/api/player/%s?username=smoke-%d", config.BaseURL, id, i)
			errs[i] = client.getJSON(ctx, url, &players[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	stats.PlayersCreated = len(players)
	return players, nil
}

// runBattles fights BattlesPerPlayer instant battles for every player.
func runBattles(ctx context.Context, client *HTTPClient, config *Config, players []Player, stats *Stats) error {
	total := config.NumPlayers * config.BattlesPerPlayer
	logger.Get().Info(ctx, "running battles", logger.Int("total", total))

	var (
		run    int64
		won    int64
		failed int64
	)

	var wg sync.WaitGroup
	sem := make(chan struct{}, config.Workers)
	for i := range players {
		wg.Add(1)
		sem <- struct{}{}
		go func(p *Player) {
			defer wg.Done()
			defer func() { <-sem }()

			for n := 0; n < config.BattlesPerPlayer; n++ {
				req := map[string]interface{}{
					"player_id":  p.ID,
					"difficulty": difficulties[n%len(difficulties)],
				}
				var out battleOutcome
				if err := client.postJSON(ctx, config.BaseURL+"/api/battle/start", req, &out); err != nil {
					// Energy runs out on long runs; count and move on.
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "battle failed", logger.String("player", p.ID), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&run, 1)
				if out.Battle.Result.Win {
					atomic.AddInt64(&won, 1)
				}
				*p = out.Player
			}
		}(&players[i])
	}
	wg.Wait()

	stats.BattlesRun = int(atomic.LoadInt64(&run))
	stats.BattlesWon = int(atomic.LoadInt64(&won))
	stats.FailedRequests += int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "battles finished",
		logger.Int("run", stats.BattlesRun),
		logger.Int("won", stats.BattlesWon),
		logger.Int("failed", stats.FailedRequests))
	return nil
}

// runEconomy lists a ticket from each even player, buys it with the next
// player, and quick-sells a ticket from each odd player. Commission
// arithmetic is verified on every sale.
func runEconomy(ctx context.Context, client *HTTPClient, config *Config, players []Player, stats *Stats) error {
	logger.Get().Info(ctx, "exercising shop and market")

	for i := 0; i+1 < len(players); i += 2 {
		seller := &players[i]
		buyer := &players[i+1]

		ticket := firstItemOfKind(seller, "ticket")
		if ticket == nil {
			continue
		}

		price := 40 + i%20
		var listing Listing
		err := client.postJSON(ctx, config.BaseURL+"/api/market/list", map[string]interface{}{
			"seller_id": seller.ID,
			"item_id":   ticket.ID,
			"price":     price,
			"currency":  "coins",
		}, &listing)
		if err != nil {
			stats.FailedRequests++
			continue
		}
		stats.ListingsCreated++

		sellerCoinsBefore, err := fetchCoins(ctx, client, config, seller.ID)
		if err != nil {
			return err
		}
		buyerCoinsBefore, err := fetchCoins(ctx, client, config, buyer.ID)
		if err != nil {
			return err
		}

		var out buyOutcome
		err = client.postJSON(ctx, config.BaseURL+"/api/market/buy", map[string]interface{}{
			"buyer_id":   buyer.ID,
			"listing_id": listing.ID,
		}, &out)
		if err != nil {
			stats.FailedRequests++
			continue
		}
		stats.ListingsBought++

		sellerCoinsAfter, err := fetchCoins(ctx, client, config, seller.ID)
		if err != nil {
			return err
		}
		commission := price * 5 / 100
		if got := sellerCoinsAfter - sellerCoinsBefore; got != price-commission {
			return fmt.Errorf("commission mismatch on listing %d: seller gained %d, want %d",
				listing.ID, got, price-commission)
		}
		if got := buyerCoinsBefore - out.Buyer.Currencies["coins"]; got != price {
			return fmt.Errorf("buyer debit mismatch on listing %d: paid %d, want %d",
				listing.ID, got, price)
		}
	}

	for i := 1; i < len(players); i += 2 {
		p := &players[i]
		ticket := firstItemOfKind(p, "ticket")
		if ticket == nil {
			continue
		}
		var out struct {
			Credit int            `json:"credit"`
			Player map[string]any `json:"player"`
		}
		err := client.postJSON(ctx, config.BaseURL+"/api/market/quick-sell", map[string]interface{}{
			"player_id": p.ID,
			"item_id":   ticket.ID,
		}, &out)
		if err != nil {
			stats.FailedRequests++
			continue
		}
		if want := ticket.BasePrice * 80 / 100; out.Credit != want {
			return fmt.Errorf("quick-sell credit mismatch: got %d, want %d", out.Credit, want)
		}
		stats.QuickSells++
	}

	// One shop purchase keeps the catalog path exercised.
	if len(players) > 0 {
		err := client.postJSON(ctx, config.BaseURL+"/api/shop/purchase", map[string]interface{}{
			"player_id": players[0].ID,
			"item_id":   "energy_refill",
			"currency":  "coins",
		}, nil)
		if err != nil {
			stats.FailedRequests++
		} else {
			stats.ShopPurchases++
		}
	}

	logger.Get().Info(ctx, "economy run finished",
		logger.Int("listed", stats.ListingsCreated),
		logger.Int("bought", stats.ListingsBought),
		logger.Int("quickSells", stats.QuickSells))
	return nil
}

// firstItemOfKind returns the first inventory item of the given kind.
func firstItemOfKind(p *Player, kind string) *Item {
	for i := range p.Inventory {
		if p.Inventory[i].Kind == kind {
			return &p.Inventory[i]
		}
	}
	return nil
}

// fetchCoins reads a player's current coin balance.
func fetchCoins(ctx context.Context, client *HTTPClient, config *Config, id string) (int, error) {
	var p Player
	if err := client.getJSON(ctx, config.BaseURL+"/api/player/"+id, &p); err != nil {
		return 0, err
	}
	return p.Currencies["coins"], nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersCreated", stats.PlayersCreated),
		logger.Int("battlesRun", stats.BattlesRun),
		logger.Int("battlesWon", stats.BattlesWon),
		logger.Int("shopPurchases", stats.ShopPurchases),
		logger.Int("listingsCreated", stats.ListingsCreated),
		logger.Int("listingsBought", stats.ListingsBought),
		logger.Int("quickSells", stats.QuickSells),
		logger.Int("failedRequests", stats.FailedRequests),
		logger.Int("topEntries", stats.TopEntries),
		logger.String("duration", stats.Duration.String()))
}

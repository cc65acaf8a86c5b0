package smoke

import "time"

// Config holds configuration for the smoke run.
type Config struct {
	BaseURL          string        // Base URL of the service
	NumPlayers       int           // Number of players to create
	BattlesPerPlayer int           // Battles each player fights
	TopN             int           // Number of top entries to fetch
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	LogFile          string        // Log file for run output
	Verbose          bool          // Enable verbose logging
}

// Player mirrors the API's player shape, limited to fields the smoke run
// verifies.
type Player struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	Level       int            `json:"level"`
	Experience  int            `json:"experience"`
	Currencies  map[string]int `json:"currencies"`
	Energy      int            `json:"energy"`
	MaxEnergy   int            `json:"maxEnergy"`
	ArenaRating int            `json:"arenaRating"`
	Inventory   []Item         `json:"inventory"`
}

// Item mirrors the API's inventory item shape.
type Item struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	BasePrice int    `json:"basePrice"`
}

// Listing mirrors the API's market listing shape.
type Listing struct {
	ID       int64  `json:"id"`
	SellerID string `json:"sellerId"`
	Item     Item   `json:"item"`
	Price    int    `json:"price"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	BuyerID  string `json:"buyerId"`
}

// Entry mirrors the API's leaderboard row shape.
type Entry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"playerId"`
	Username    string `json:"username"`
	Level       int    `json:"level"`
	ArenaRating int    `json:"arenaRating"`
}

// battleOutcome mirrors the relevant slice of the auto-battle response.
type battleOutcome struct {
	Battle struct {
		Status string `json:"status"`
		Result struct {
			Win bool `json:"win"`
		} `json:"result"`
	} `json:"battle"`
	Rewards struct {
		Coins       int `json:"coins"`
		Experience  int `json:"experience"`
		ArenaRating int `json:"arenaRating"`
	} `json:"rewards"`
	Player Player `json:"player"`
}

// buyOutcome mirrors the relevant slice of the market buy response.
type buyOutcome struct {
	Listing Listing `json:"listing"`
	Buyer   Player  `json:"buyer"`
}

// Stats holds smoke run statistics.
type Stats struct {
	PlayersCreated  int
	BattlesRun      int
	BattlesWon      int
	ShopPurchases   int
	ListingsCreated int
	ListingsBought  int
	QuickSells      int
	FailedRequests  int
	TopEntries      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/pixelarena/internal/adapters/repository"
	service "github.com/okian/pixelarena/internal/app"
	"github.com/okian/pixelarena/internal/domain/battle"
	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/market"
	"github.com/okian/pixelarena/internal/domain/model"
	"github.com/okian/pixelarena/internal/domain/progression"
)

// Read shapes returned by the service layer, re-exported so handler
// consumers depend only on this package.
type (
	Entry             = repository.Entry
	AutoBattleOutcome = service.AutoBattleOutcome
	FinishOutcome     = service.FinishOutcome
	PurchaseOutcome   = service.PurchaseOutcome
	QuickSellOutcome  = service.QuickSellOutcome
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Player lifecycle.
	GetOrCreatePlayer(ctx context.Context, id, username string) (*model.Player, error)
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	ChangeClass(ctx context.Context, id string, class hero.Class) (*model.Player, error)

	// Battles.
	StartAutoBattle(ctx context.Context, playerID string, difficulty model.Difficulty) (*AutoBattleOutcome, error)
	StartInteractiveBattle(ctx context.Context, playerID, opponent string, difficulty model.Difficulty) (*model.Battle, *model.Player, error)
	SubmitMove(ctx context.Context, battleID int64, mv model.Move) (*model.Battle, error)
	FinishBattle(ctx context.Context, battleID int64, playerID string) (*FinishOutcome, error)

	// Economy.
	ShopCatalog() []market.ShopItem
	PurchaseShopItem(ctx context.Context, playerID, itemID string, currency model.Currency) (*PurchaseOutcome, error)
	ListMarketItem(ctx context.Context, sellerID, itemID string, price int, currency model.Currency) (*model.Listing, error)
	BuyMarketItem(ctx context.Context, buyerID string, listingID int64) (*model.Listing, *model.Player, error)
	QuickSellItem(ctx context.Context, playerID, itemID string) (*QuickSellOutcome, error)
	MarketListings(ctx context.Context) []*model.Listing

	// Leaderboard reads.
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
	PlayerRank(ctx context.Context, playerID string) (Entry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playerHandler      *PlayerHandler
	battleHandler      *BattleHandler
	shopHandler        *ShopHandler
	marketHandler      *MarketHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playerHandler:      NewPlayerHandler(deps),
		battleHandler:      NewBattleHandler(deps),
		shopHandler:        NewShopHandler(deps),
		marketHandler:      NewMarketHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/api/player/change-class", MetricsMiddleware(s.playerHandler.HandleChangeClass, "change_class"))
	mux.HandleFunc("/api/player/", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))

	mux.HandleFunc("/api/battle/start", MetricsMiddleware(s.battleHandler.HandleStart, "battle_start"))
	mux.HandleFunc("/api/battle/duel", MetricsMiddleware(s.battleHandler.HandleDuel, "battle_duel"))
	mux.HandleFunc("/api/battle/move", MetricsMiddleware(s.battleHandler.HandleMove, "battle_move"))
	mux.HandleFunc("/api/battle/finish", MetricsMiddleware(s.battleHandler.HandleFinish, "battle_finish"))

	mux.HandleFunc("/api/shop/catalog", MetricsMiddleware(s.shopHandler.HandleCatalog, "shop_catalog"))
	mux.HandleFunc("/api/shop/purchase", MetricsMiddleware(s.shopHandler.HandlePurchase, "shop_purchase"))

	mux.HandleFunc("/api/market/list", MetricsMiddleware(s.marketHandler.HandleList, "market_list"))
	mux.HandleFunc("/api/market/buy", MetricsMiddleware(s.marketHandler.HandleBuy, "market_buy"))
	mux.HandleFunc("/api/market/quick-sell", MetricsMiddleware(s.marketHandler.HandleQuickSell, "market_quick_sell"))
	mux.HandleFunc("/api/market/listings", MetricsMiddleware(s.marketHandler.HandleListings, "market_listings"))

	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/rank/", MetricsMiddleware(s.leaderboardHandler.HandleGetRank, "rank"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps domain sentinels onto HTTP statuses: unknown
// records are 404, malformed input is 400, failed gameplay preconditions
// are 409, anything else is 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrPlayerNotFound),
		errors.Is(err, repository.ErrBattleNotFound),
		errors.Is(err, repository.ErrListingNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, model.ErrInvalidDifficulty),
		errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrInvalidCurrency),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, hero.ErrInvalidClass),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, market.ErrUnknownShopItem),
		errors.Is(err, market.ErrCurrencyNotAccepted),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrInsufficientEnergy),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrItemNotOwned),
		errors.Is(err, service.ErrOwnListing),
		errors.Is(err, service.ErrListingSold),
		errors.Is(err, service.ErrNotBattleOwner),
		errors.Is(err, battle.ErrBattleFinished),
		errors.Is(err, battle.ErrNoChargesLeft),
		errors.Is(err, progression.ErrClassChangeUnavailable):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

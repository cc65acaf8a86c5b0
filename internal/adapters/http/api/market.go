// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/pixelarena/internal/domain/model"
)

// MarketHandler handles marketplace requests.
type MarketHandler struct {
	deps Dependencies
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(deps Dependencies) *MarketHandler {
	return &MarketHandler{deps: deps}
}

// listRequest mirrors the OpenAPI schema for POST /api/market/list.
type listRequest struct {
	SellerID string `json:"seller_id"`
	ItemID   string `json:"item_id"`
	Price    int    `json:"price"`
	Currency string `json:"currency"`
}

// HandleList handles POST /api/market/list requests.
func (h *MarketHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_list"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.SellerID) == "" || strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	currency, err := model.ParseCurrency(req.Currency)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	l, err := h.deps.ListMarketItem(r.Context(), req.SellerID, req.ItemID, req.Price, currency)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// buyRequest mirrors the OpenAPI schema for POST /api/market/buy.
type buyRequest struct {
	BuyerID   string `json:"buyer_id"`
	ListingID int64  `json:"listing_id"`
}

// buyResponse pairs the settled listing with the updated buyer.
type buyResponse struct {
	Listing *model.Listing `json:"listing"`
	Buyer   *model.Player  `json:"buyer"`
}

// HandleBuy handles POST /api/market/buy requests.
func (h *MarketHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_buy"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.BuyerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	l, buyer, err := h.deps.BuyMarketItem(r.Context(), req.BuyerID, req.ListingID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, buyResponse{Listing: l, Buyer: buyer})
}

// quickSellRequest mirrors the OpenAPI schema for POST /api/market/quick-sell.
type quickSellRequest struct {
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
}

// HandleQuickSell handles POST /api/market/quick-sell requests.
func (h *MarketHandler) HandleQuickSell(w http.ResponseWriter, r *http.Request) {
	const op = "api.market_quick_sell"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req quickSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" || strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	out, err := h.deps.QuickSellItem(r.Context(), req.PlayerID, req.ItemID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListings handles GET /api/market/listings requests, returning
// open listings oldest first.
func (h *MarketHandler) HandleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.MarketListings(r.Context()))
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/pixelarena/internal/domain/model"
)

// ShopHandler handles shop requests.
type ShopHandler struct {
	deps Dependencies
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(deps Dependencies) *ShopHandler {
	return &ShopHandler{deps: deps}
}

// HandleCatalog handles GET /api/shop/catalog requests.
func (h *ShopHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ShopCatalog())
}

// purchaseRequest mirrors the OpenAPI schema for POST /api/shop/purchase.
type purchaseRequest struct {
	PlayerID string `json:"player_id"`
	ItemID   string `json:"item_id"`
	Currency string `json:"currency"`
}

// HandlePurchase handles POST /api/shop/purchase requests.
func (h *ShopHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	const op = "api.shop_purchase"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" || strings.TrimSpace(req.ItemID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	currency, err := model.ParseCurrency(req.Currency)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	out, err := h.deps.PurchaseShopItem(r.Context(), req.PlayerID, req.ItemID, currency)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/pixelarena/internal/domain/hero"
)

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps Dependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps Dependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /api/player/{id} requests. An unknown id
// registers a new player; the optional username query names it.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/player/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		username = id
	}
	p, err := h.deps.GetOrCreatePlayer(r.Context(), id, username)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// changeClassRequest mirrors the OpenAPI schema for POST /api/player/change-class.
type changeClassRequest struct {
	PlayerID string `json:"player_id"`
	NewClass string `json:"new_class"`
}

// HandleChangeClass handles POST /api/player/change-class requests.
func (h *PlayerHandler) HandleChangeClass(w http.ResponseWriter, r *http.Request) {
	const op = "api.change_class"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req changeClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	class, err := hero.ParseClass(req.NewClass)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	p, err := h.deps.ChangeClass(r.Context(), req.PlayerID, class)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

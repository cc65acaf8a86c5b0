// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/pixelarena/internal/domain/model"
)

// BattleHandler handles battle requests.
type BattleHandler struct {
	deps Dependencies
}

// NewBattleHandler creates a new battle handler.
func NewBattleHandler(deps Dependencies) *BattleHandler {
	return &BattleHandler{deps: deps}
}

// startBattleRequest mirrors the OpenAPI schema for POST /api/battle/start.
// Mode is optional; auto battles only run against the computer.
type startBattleRequest struct {
	PlayerID   string `json:"player_id"`
	Mode       string `json:"mode,omitempty"`
	Difficulty string `json:"difficulty"`
}

// HandleStart handles POST /api/battle/start requests. The battle is
// resolved in full and returned finished.
func (h *BattleHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	const op = "api.battle_start"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req startBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if req.Mode != "" {
		mode, err := model.ParseMode(req.Mode)
		if err != nil || mode != model.ModePvE {
			writeServiceError(w, op, model.ErrInvalidMode)
			return
		}
	}
	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	out, err := h.deps.StartAutoBattle(r.Context(), req.PlayerID, difficulty)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// duelRequest mirrors the OpenAPI schema for POST /api/battle/duel.
type duelRequest struct {
	PlayerID   string `json:"player_id"`
	Opponent   string `json:"opponent"`
	Difficulty string `json:"difficulty"`
}

// duelResponse pairs the opened battle with the charged player.
type duelResponse struct {
	Battle *model.Battle `json:"battle"`
	Player *model.Player `json:"player"`
}

// HandleDuel handles POST /api/battle/duel requests.
func (h *BattleHandler) HandleDuel(w http.ResponseWriter, r *http.Request) {
	const op = "api.battle_duel"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req duelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	difficulty, err := model.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	b, p, err := h.deps.StartInteractiveBattle(r.Context(), req.PlayerID, req.Opponent, difficulty)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, duelResponse{Battle: b, Player: p})
}

// moveRequest mirrors the OpenAPI schema for POST /api/battle/move.
type moveRequest struct {
	BattleID int64  `json:"battle_id"`
	Move     string `json:"move"`
}

// HandleMove handles POST /api/battle/move requests.
func (h *BattleHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.battle_move"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	mv, err := model.ParseMove(req.Move)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	b, err := h.deps.SubmitMove(r.Context(), req.BattleID, mv)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// finishRequest mirrors the OpenAPI schema for POST /api/battle/finish.
type finishRequest struct {
	BattleID int64  `json:"battle_id"`
	PlayerID string `json:"player_id"`
}

// HandleFinish handles POST /api/battle/finish requests.
func (h *BattleHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	const op = "api.battle_finish"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req finishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	out, err := h.deps.FinishBattle(r.Context(), req.BattleID, req.PlayerID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

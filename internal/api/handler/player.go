package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmota/tagbank/internal/api/request"
	"github.com/dmota/tagbank/internal/api/response"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/ledger"
)

// PlayerHandler handles player and transaction endpoints
type PlayerHandler struct {
	ledger *ledger.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(ledgerController *ledger.Controller) *PlayerHandler {
	return &PlayerHandler{
		ledger: ledgerController,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players := h.ledger.ListPlayers(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerListFromModels(players))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.ledger.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Register handles POST /api/v1/players
//
// This is the tagless registration path used by the CLI; the table UI
// registers through the tag-write flow instead.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	player, err := h.ledger.RegisterPlayer(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// ApplyTransaction handles POST /api/v1/players/{id}/transactions
func (h *PlayerHandler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.ApplyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	txType, err := model.ParseTransactionType(req.Type)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, tx, err := h.ledger.ApplyTransaction(r.Context(), id, txType, req.Amount, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TransactionResult{
		Player:      response.PlayerFromModel(player),
		Transaction: response.TransactionFromModel(*tx),
	})
}

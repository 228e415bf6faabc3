package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dmota/tagbank/internal/api/request"
	"github.com/dmota/tagbank/internal/api/response"
	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/services/ledger"
)

// BankHandler handles bank administration endpoints
type BankHandler struct {
	bank   *bank.Service
	ledger *ledger.Controller
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bankService *bank.Service, ledgerController *ledger.Controller) *BankHandler {
	return &BankHandler{
		bank:   bankService,
		ledger: ledgerController,
	}
}

// Login handles POST /api/v1/bank/login
func (h *BankHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.BankLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.bank.Login(r.Context(), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BankSessionFromModel(session))
}

// Reset handles POST /api/v1/bank/reset
func (h *BankHandler) Reset(w http.ResponseWriter, r *http.Request) {
	players, err := h.ledger.ResetGame(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerListFromModels(players))
}

// Wipe handles DELETE /api/v1/players
func (h *BankHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.WipeAll(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Export handles GET /api/v1/bank/export
func (h *BankHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.ledger.Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Export{Data: data})
}

// Import handles POST /api/v1/bank/import
func (h *BankHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req request.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	count, err := h.ledger.Import(r.Context(), req.Data)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ImportResult{PlayerCount: count})
}

// GetSettings handles GET /api/v1/bank/settings
func (h *BankHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.bank.Settings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Settings{InitialBalance: settings.InitialBalance})
}

// UpdateSettings handles PATCH /api/v1/bank/settings
func (h *BankHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.bank.SetInitialBalance(r.Context(), req.InitialBalance); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Settings{InitialBalance: req.InitialBalance})
}

// ChangePassword handles POST /api/v1/bank/password
func (h *BankHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewPassword == "" {
		WriteError(w, NewInvalidRequestError("new_password is required"))
		return
	}

	if err := h.bank.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

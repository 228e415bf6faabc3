package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/web/middleware"
	"github.com/dmota/tagbank/internal/web/templates/layout"
	"github.com/dmota/tagbank/internal/web/templates/pages"
)

// PlayerHandler handles the player detail page and its actions
type PlayerHandler struct {
	ledger *ledger.Controller
	flow   *Flow
}

// NewPlayerHandler creates a new PlayerHandler
func NewPlayerHandler(ledgerController *ledger.Controller, flow *Flow) *PlayerHandler {
	return &PlayerHandler{
		ledger: ledgerController,
		flow:   flow,
	}
}

// View renders a player's balance, actions and history
func (h *PlayerHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.ledger.GetPlayer(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", "Player not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.PlayerData{
		PageData: layout.PageData{
			Title:      player.Name,
			Flash:      middleware.GetFlash(r.Context()),
			BankAuthed: middleware.IsBankAuthed(r.Context()),
		},
		Player: *player,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Player(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ApplyTransaction applies a form-submitted transaction to the player
func (h *PlayerHandler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	playerURL := "/players/" + string(id)

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	txType, err := model.ParseTransactionType(r.FormValue("type"))
	if err != nil {
		middleware.SetFlash(w, "error", "Unknown transaction type")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("amount")), 10, 64)
	if err != nil || amount <= 0 {
		middleware.SetFlash(w, "error", "The amount must be a positive number")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))

	_, tx, err := h.ledger.ApplyTransaction(r.Context(), id, txType, amount, description)
	if err != nil {
		middleware.SetFlash(w, "error", transferErrorMessage(err))
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", tx.Description+" applied")
	http.Redirect(w, r, playerURL, http.StatusSeeOther)
}

// StartTransfer arms a recipient scan for a transfer from this player
func (h *PlayerHandler) StartTransfer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	playerURL := "/players/" + string(id)

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("amount")), 10, 64)
	if err != nil || amount <= 0 {
		middleware.SetFlash(w, "error", "The amount must be a positive number")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	// Reject early so the table is not asked to scan a doomed transfer;
	// the ledger checks again when the recipient's tag arrives.
	player, err := h.ledger.GetPlayer(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", "Player not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if player.Balance < amount {
		middleware.SetFlash(w, "error", "Not enough balance for that transfer")
		http.Redirect(w, r, playerURL, http.StatusSeeOther)
		return
	}

	if err := h.flow.StartTransferScan(r.Context(), id, amount); err != nil {
		middleware.SetFlash(w, "error", "Could not start scanning")
	}
	http.Redirect(w, r, playerURL, http.StatusSeeOther)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/web/middleware"
	"github.com/dmota/tagbank/internal/web/sse"
	"github.com/dmota/tagbank/internal/web/templates/layout"
	"github.com/dmota/tagbank/internal/web/templates/pages"
)

// BankHandler handles the bank screen: login, settings and game data
type BankHandler struct {
	bank   *bank.Service
	ledger *ledger.Controller
	hub    *sse.Hub
}

// NewBankHandler creates a new BankHandler
func NewBankHandler(bankService *bank.Service, ledgerController *ledger.Controller, hub *sse.Hub) *BankHandler {
	return &BankHandler{
		bank:   bankService,
		ledger: ledgerController,
		hub:    hub,
	}
}

// Page renders the bank screen, or the login form without a session
func (h *BankHandler) Page(w http.ResponseWriter, r *http.Request) {
	pageData := layout.PageData{
		Title:      "Bank",
		Flash:      middleware.GetFlash(r.Context()),
		BankAuthed: middleware.IsBankAuthed(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !pageData.BankAuthed {
		if err := pages.BankLogin(pages.BankLoginData{PageData: pageData}).Render(r.Context(), w); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	settings, err := h.bank.Settings(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := pages.BankData{
		PageData:       pageData,
		Players:        h.ledger.ListPlayers(r.Context()),
		InitialBalance: settings.InitialBalance,
		MemoryOnly:     h.ledger.Degraded(),
	}

	if err := pages.Bank(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles the bank password form
func (h *BankHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	session, err := h.bank.Login(r.Context(), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, bank.ErrWrongPassword) {
			middleware.SetFlash(w, "error", "Wrong password")
		} else {
			middleware.SetFlash(w, "error", "Login failed")
		}
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	middleware.SetBankSessionCookie(w, session.Token, maxAge)
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

// Logout drops the bank session
func (h *BankHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BankSessionToken(r); token != "" {
		h.bank.Logout(token)
	}
	middleware.ClearBankSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UpdateSettings stores a new starting balance
func (h *BankHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	balance, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("initial_balance")), 10, 64)
	if err != nil || balance < 0 {
		middleware.SetFlash(w, "error", "Starting balance must be zero or more")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	if err := h.bank.SetInitialBalance(r.Context(), balance); err != nil {
		middleware.SetFlash(w, "error", "Could not save settings")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Settings saved")
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

// ChangePassword rotates the bank password
func (h *BankHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if next == "" {
		middleware.SetFlash(w, "error", "New password is required")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	if err := h.bank.ChangePassword(r.Context(), current, next); err != nil {
		if errors.Is(err, bank.ErrWrongPassword) {
			middleware.SetFlash(w, "error", "Current password is wrong")
		} else {
			middleware.SetFlash(w, "error", "Could not change the password")
		}
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Password changed")
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

// Reset puts every player back on the starting balance
func (h *BankHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.ledger.ResetGame(r.Context()); err != nil {
		middleware.SetFlash(w, "error", "Reset failed")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastEvent(eventDataReset, "{}")
	middleware.SetFlash(w, "success", "All balances reset")
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

// Wipe deletes all players and settings
func (h *BankHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.WipeAll(r.Context()); err != nil {
		middleware.SetFlash(w, "error", "Wipe failed")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastEvent(eventDataReset, "{}")
	middleware.SetFlash(w, "success", "All data wiped")
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

// Export serves the full player list as a JSON download
func (h *BankHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.ledger.Export(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="tagbank-export.json"`)
	_, _ = w.Write([]byte(data))
}

// Import replaces the player list with a pasted export blob
func (h *BankHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	count, err := h.ledger.Import(r.Context(), r.FormValue("data"))
	if err != nil {
		middleware.SetFlash(w, "error", "That does not look like exported data")
		http.Redirect(w, r, "/bank", http.StatusSeeOther)
		return
	}

	h.hub.BroadcastEvent(eventDataReset, "{}")
	middleware.SetFlash(w, "success", "Imported "+strconv.Itoa(count)+" players")
	http.Redirect(w, r, "/bank", http.StatusSeeOther)
}

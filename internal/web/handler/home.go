package handler

import (
	"net/http"

	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/web/middleware"
	"github.com/dmota/tagbank/internal/web/templates/layout"
	"github.com/dmota/tagbank/internal/web/templates/pages"
)

// HomeHandler handles the player list page and the lookup scan
type HomeHandler struct {
	ledger *ledger.Controller
	flow   *Flow
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(ledgerController *ledger.Controller, flow *Flow) *HomeHandler {
	return &HomeHandler{
		ledger: ledgerController,
		flow:   flow,
	}
}

// Home renders the player list
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title:      "Players",
			Flash:      middleware.GetFlash(r.Context()),
			BankAuthed: middleware.IsBankAuthed(r.Context()),
		},
		Players: h.ledger.ListPlayers(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StartScan arms a lookup scan and returns to the player list. The scan
// overlay is shown by the UI once the reader state event arrives.
func (h *HomeHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.StartLookupScan(r.Context()); err != nil {
		middleware.SetFlash(w, "error", "Could not start scanning")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CancelScan aborts the armed scan
func (h *HomeHandler) CancelScan(w http.ResponseWriter, r *http.Request) {
	h.flow.CancelScan()

	target := r.Header.Get("Referer")
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/dmota/tagbank/internal/web/middleware"
	"github.com/dmota/tagbank/internal/web/templates/layout"
	"github.com/dmota/tagbank/internal/web/templates/pages"
)

const maxNameLength = 30

// RegisterHandler handles the new player flow
type RegisterHandler struct {
	flow *Flow
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(flow *Flow) *RegisterHandler {
	return &RegisterHandler{flow: flow}
}

// Page renders either the name form or the pending tag-write screen
func (h *RegisterHandler) Page(w http.ResponseWriter, r *http.Request) {
	name, pending := h.flow.PendingRegister()

	data := pages.RegisterData{
		PageData: layout.PageData{
			Title:      "New player",
			Flash:      middleware.GetFlash(r.Context()),
			BankAuthed: middleware.IsBankAuthed(r.Context()),
		},
		Name:    name,
		Pending: pending,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Register(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create arms a tag write for a freshly minted player identity
func (h *RegisterHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		middleware.SetFlash(w, "error", "Name is required")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	if err := h.flow.StartRegisterWrite(name); err != nil {
		middleware.SetFlash(w, "error", "Could not start the tag write")
	}
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

// Cancel aborts an armed registration write
func (h *RegisterHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.flow.CancelRegister()
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

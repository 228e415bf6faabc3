package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dmota/tagbank/internal/api/request"
	"github.com/dmota/tagbank/internal/api/response"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/ledger"
)

// TransferHandler handles transfer endpoints
type TransferHandler struct {
	ledger *ledger.Controller
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(ledgerController *ledger.Controller) *TransferHandler {
	return &TransferHandler{
		ledger: ledgerController,
	}
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.SenderID == "" || req.RecipientID == "" {
		WriteError(w, NewInvalidRequestError("sender_id and recipient_id are required"))
		return
	}

	sender, recipient, err := h.ledger.Transfer(r.Context(),
		model.PlayerID(req.SenderID), model.PlayerID(req.RecipientID), req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TransferResult{
		Sender:    response.PlayerFromModel(sender),
		Recipient: response.PlayerFromModel(recipient),
	})
}

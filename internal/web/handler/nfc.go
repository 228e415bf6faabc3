package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/tags"
	"github.com/dmota/tagbank/internal/web/sse"
)

// NfcHandler bridges the browser's reader to the server-side transport.
//
// The table UI performs the Web NFC calls; these endpoints carry the
// results back. State changes flow the other way as SSE events, so the
// UI always knows whether it should be scanning, writing or idle.
type NfcHandler struct {
	bridge *tags.Bridge
	hub    *sse.Hub
	logger *slog.Logger
}

// NewNfcHandler creates a new NfcHandler and wires bridge state changes
// into the SSE hub
func NewNfcHandler(bridge *tags.Bridge, hub *sse.Hub, logger *slog.Logger) *NfcHandler {
	h := &NfcHandler{
		bridge: bridge,
		hub:    hub,
		logger: logger.With(slog.String("component", "nfc")),
	}
	bridge.OnChange(h.broadcastState)
	return h
}

type nfcStateMessage struct {
	Kind    string        `json:"kind"`
	Payload *tags.Payload `json:"payload,omitempty"`
	Clear   bool          `json:"clear,omitempty"`
}

func stateMessage(state tags.State) nfcStateMessage {
	msg := nfcStateMessage{Kind: string(state.Kind)}
	if state.Kind == tags.OpWrite {
		payload := state.Payload
		msg.Payload = &payload
		msg.Clear = state.Clear
	}
	return msg
}

func (h *NfcHandler) broadcastState(state tags.State) {
	data, err := json.Marshal(stateMessage(state))
	if err != nil {
		h.logger.Error("marshal reader state", slog.String("error", err.Error()))
		return
	}
	h.hub.BroadcastEvent(eventNfcState, string(data))
}

// Events serves the SSE stream for the table UI
func (h *NfcHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}

type helloRequest struct {
	Supported bool `json:"supported"`
}

// Hello records the browser's reader capability and returns the current
// operation so a freshly loaded page can pick up mid-flow
func (h *NfcHandler) Hello(w http.ResponseWriter, r *http.Request) {
	var req helloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.bridge.SetSupported(req.Supported)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stateMessage(h.bridge.State()))
}

// Report delivers a scanned record from the reader
func (h *NfcHandler) Report(w http.ResponseWriter, r *http.Request) {
	var record tags.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.bridge.Report(record); err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedPayload):
			http.Error(w, "malformed tag payload", http.StatusBadRequest)
		case errors.Is(err, model.ErrNoActiveScan):
			http.Error(w, "no active scan", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type failureRequest struct {
	Reason string `json:"reason"`
}

// ScanError surfaces a reader-side read failure
func (h *NfcHandler) ScanError(w http.ResponseWriter, r *http.Request) {
	var req failureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.bridge.FailScan(req.Reason)
	w.WriteHeader(http.StatusNoContent)
}

// Confirm settles the pending tag write as successful
func (h *NfcHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.bridge.Confirm(); err != nil {
		http.Error(w, "no pending write", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WriteFailed settles the pending tag write as failed
func (h *NfcHandler) WriteFailed(w http.ResponseWriter, r *http.Request) {
	var req failureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.bridge.FailWrite(req.Reason); err != nil {
		http.Error(w, "no pending write", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

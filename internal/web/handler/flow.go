package handler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmota/tagbank/internal/dependencies/ident"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/services/tags"
	"github.com/dmota/tagbank/internal/web/sse"
	"github.com/dmota/tagbank/internal/web/templates/components"
)

// SSE event names consumed by the table UI
const (
	eventNotice    = "notice"
	eventNavigate  = "navigate"
	eventNfcState  = "nfc-state"
	eventDataReset = "data-reset"
)

// Flow drives the tag-scan and tag-write flows.
//
// It owns the single pending UI operation: a lookup scan, a transfer scan
// or a registration write. Starting a new flow replaces the previous one
// through the bridge's exclusive slot; the extra state here is just what
// the web layer needs to render pending pages and honour cancel buttons.
type Flow struct {
	bridge   *tags.Bridge
	ledger   *ledger.Controller
	ident    ident.Generator
	hub      *sse.Hub
	renderer *sse.Renderer
	logger   *slog.Logger

	mu          sync.Mutex
	cancelScan  func()
	pendingName string
	cancelWrite context.CancelFunc
}

// NewFlow creates a flow controller
func NewFlow(bridge *tags.Bridge, ledgerController *ledger.Controller, gen ident.Generator, hub *sse.Hub, logger *slog.Logger) *Flow {
	return &Flow{
		bridge:   bridge,
		ledger:   ledgerController,
		ident:    gen,
		hub:      hub,
		renderer: sse.NewRenderer(),
		logger:   logger.With(slog.String("component", "flow")),
	}
}

func (f *Flow) notice(kind, message string) {
	html, err := f.renderer.RenderNotice(context.Background(), kind, message)
	if err != nil {
		f.logger.Error("render notice", slog.String("error", err.Error()))
		return
	}
	f.hub.BroadcastEvent(eventNotice, html)
}

func (f *Flow) navigate(url string) {
	event, err := f.renderer.RenderNavigate(eventNavigate, url)
	if err != nil {
		f.logger.Error("render navigate", slog.String("error", err.Error()))
		return
	}
	f.hub.BroadcastEvent(event.EventName, event.Data)
}

func (f *Flow) scanErrorNotice(err error) {
	if errors.Is(err, model.ErrTransportRead) {
		f.notice("error", "Could not read the tag. Try again.")
		return
	}
	f.notice("error", "Scan failed.")
}

// StartLookupScan arms a scan that opens the matching player's page.
// Unknown tags produce a notice and leave the scan armed.
func (f *Flow) StartLookupScan(ctx context.Context) error {
	var cancel func()
	onPayload := func(p tags.Payload) {
		player, err := f.ledger.GetPlayer(context.Background(), model.PlayerID(p.PlayerID))
		if err != nil {
			f.logger.Warn("scanned tag has no player", slog.String("player_id", p.PlayerID))
			f.notice("error", "This tag does not belong to a registered player.")
			return
		}
		f.clearScan(cancel)
		f.navigate("/players/" + string(player.ID))
	}

	cancel, err := f.bridge.Scan(ctx, onPayload, f.scanErrorNotice)
	if err != nil {
		return err
	}
	f.setScan(cancel)
	return nil
}

// StartTransferScan arms a scan that sends amount from the given player
// to whoever's tag is read next.
func (f *Flow) StartTransferScan(ctx context.Context, senderID model.PlayerID, amount int64) error {
	var cancel func()
	onPayload := func(p tags.Payload) {
		sender, _, err := f.ledger.Transfer(context.Background(), senderID, model.PlayerID(p.PlayerID), amount)
		if err != nil {
			f.clearScan(cancel)
			f.notice("error", transferErrorMessage(err))
			f.navigate("/players/" + string(senderID))
			return
		}
		f.clearScan(cancel)
		f.notice("success", "Sent "+components.FormatAmount(amount)+" to "+recipientName(p)+".")
		f.navigate("/players/" + string(sender.ID))
	}

	cancel, err := f.bridge.Scan(ctx, onPayload, f.scanErrorNotice)
	if err != nil {
		return err
	}
	f.setScan(cancel)
	return nil
}

func recipientName(p tags.Payload) string {
	if p.Name != "" {
		return p.Name
	}
	return "the other player"
}

func transferErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSelfTransfer):
		return "You cannot send money to yourself."
	case errors.Is(err, model.ErrInsufficientFunds):
		return "Not enough balance for that transfer."
	case errors.Is(err, model.ErrPlayerNotFound):
		return "That tag does not belong to a registered player."
	case errors.Is(err, model.ErrInvalidAmount):
		return "The amount must be a positive number."
	default:
		return "Transfer failed."
	}
}

// StartRegisterWrite mints an id, arms a tag write for it, and commits the
// player once the write is confirmed. The identity goes onto the tag
// before the ledger record exists; a failed write leaves no player behind.
func (f *Flow) StartRegisterWrite(name string) error {
	if name == "" {
		return model.ErrEmptyName
	}

	id := model.PlayerID(f.ident.NewID())
	payload := tags.Payload{PlayerID: string(id), Name: name}

	writeCtx, cancelWrite := context.WithCancel(context.Background())

	f.mu.Lock()
	if f.cancelWrite != nil {
		f.cancelWrite()
	}
	f.pendingName = name
	f.cancelWrite = cancelWrite
	f.mu.Unlock()

	go func() {
		err := f.bridge.Write(writeCtx, payload)

		f.mu.Lock()
		if f.cancelWrite != nil {
			f.cancelWrite()
		}
		f.pendingName = ""
		f.cancelWrite = nil
		f.mu.Unlock()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			f.logger.Warn("registration tag write failed", slog.String("error", err.Error()))
			f.notice("error", "Could not write the tag. The player was not created.")
			f.navigate("/register")
			return
		}

		player, err := f.ledger.RegisterPlayerWithID(context.Background(), id, name)
		if err != nil {
			f.logger.Error("register after tag write", slog.String("error", err.Error()))
			f.notice("error", "The tag was written but the player could not be created.")
			f.navigate("/register")
			return
		}

		f.notice("success", player.Name+" joined the game.")
		f.navigate("/players/" + string(player.ID))
	}()

	return nil
}

// PendingRegister reports an armed registration write, if any
func (f *Flow) PendingRegister() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingName, f.pendingName != ""
}

// CancelRegister aborts an armed registration write
func (f *Flow) CancelRegister() {
	f.mu.Lock()
	cancel := f.cancelWrite
	f.pendingName = ""
	f.cancelWrite = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// CancelScan aborts the armed scan, if any
func (f *Flow) CancelScan() {
	f.mu.Lock()
	cancel := f.cancelScan
	f.cancelScan = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (f *Flow) setScan(cancel func()) {
	f.mu.Lock()
	f.cancelScan = cancel
	f.mu.Unlock()
}

// clearScan drops the stored cancel and cancels the given scan. Only
// clears the slot if it still belongs to that scan.
func (f *Flow) clearScan(cancel func()) {
	f.mu.Lock()
	f.cancelScan = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

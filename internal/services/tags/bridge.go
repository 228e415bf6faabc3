package tags

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmota/tagbank/internal/model"
)

// OperationKind identifies the bridge operation in flight
type OperationKind string

const (
	OpScan  OperationKind = "scan"
	OpWrite OperationKind = "write"
	OpIdle  OperationKind = "idle"
)

// State is a snapshot of the bridge's current operation, pushed to the
// table UI so it knows when to drive the physical reader
type State struct {
	Kind OperationKind
	// Payload to write when Kind is OpWrite
	Payload Payload
	// Clear marks a write that blanks the tag
	Clear bool
}

// Bridge implements Transport with the browser as the physical reader.
//
// The server never touches NFC hardware. The table UI performs the Web
// NFC calls and bridges results back over HTTP: Report delivers a scanned
// record, Confirm and FailWrite settle a pending write, FailScan surfaces
// a read error. The UI learns what to do from OnChange notifications
// (forwarded as SSE events by the web layer).
//
// The bridge owns the exclusive in-flight operation slot: starting a new
// operation cancels and replaces the prior one under a single lock, so
// there is never more than one listening operation.
type Bridge struct {
	logger   *slog.Logger
	onChange func(State)

	mu        sync.Mutex
	supported bool
	scan      *scanOp
	write     *writeOp
}

type scanOp struct {
	onPayload func(Payload)
	onError   func(error)
	cancelled bool
}

type writeOp struct {
	payload   Payload
	clear     bool
	done      chan error
	cancelled bool
}

// NewBridge creates a browser bridge transport
func NewBridge(logger *slog.Logger) *Bridge {
	return &Bridge{
		logger: logger.With(slog.String("component", "tags")),
	}
}

// Ensure Bridge implements the interface
var _ Transport = (*Bridge)(nil)

// OnChange registers the state observer. Must be called before the first
// operation; the observer is invoked outside the bridge lock.
func (b *Bridge) OnChange(fn func(State)) {
	b.onChange = fn
}

// SetSupported records whether the connected browser reported a reader
func (b *Bridge) SetSupported(supported bool) {
	b.mu.Lock()
	b.supported = supported
	b.mu.Unlock()
	b.logger.Info("reader capability reported", slog.Bool("supported", supported))
}

// Supported reports whether the connected browser has a tag reader
func (b *Bridge) Supported(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supported
}

// State returns the current operation snapshot
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Bridge) stateLocked() State {
	switch {
	case b.write != nil:
		return State{Kind: OpWrite, Payload: b.write.payload, Clear: b.write.clear}
	case b.scan != nil:
		return State{Kind: OpScan}
	default:
		return State{Kind: OpIdle}
	}
}

// notify pushes the current state to the observer. Caller must hold b.mu;
// the callback runs after the lock is released.
func (b *Bridge) notify() {
	if b.onChange == nil {
		return
	}
	state := b.stateLocked()
	go b.onChange(state)
}

// replaceLocked cancels whatever operation is in flight. Cancellation is
// silent: a replaced scan never sees onError, a replaced write resolves
// with nil delivered to nobody.
func (b *Bridge) replaceLocked() {
	if b.scan != nil {
		b.scan.cancelled = true
		b.scan = nil
		b.logger.Info("scan replaced")
	}
	if b.write != nil {
		b.write.cancelled = true
		close(b.write.done)
		b.write = nil
		b.logger.Info("pending write replaced")
	}
}

// Scan begins listening. The returned cancel is idempotent and only
// cancels this particular scan, not whatever replaced it.
func (b *Bridge) Scan(ctx context.Context, onPayload func(Payload), onError func(error)) (func(), error) {
	b.mu.Lock()
	b.replaceLocked()
	op := &scanOp{onPayload: onPayload, onError: onError}
	b.scan = op
	b.notify()
	b.mu.Unlock()

	b.logger.Info("scan started")

	cancel := func() {
		b.mu.Lock()
		if b.scan == op && !op.cancelled {
			op.cancelled = true
			b.scan = nil
			b.notify()
			b.logger.Info("scan cancelled")
		}
		b.mu.Unlock()
	}
	return cancel, nil
}

// Write arms a pending tag write and waits for the UI to settle it
func (b *Bridge) Write(ctx context.Context, p Payload) error {
	return b.writeOp(ctx, p, false)
}

// Clear arms a pending blank write and waits for the UI to settle it
func (b *Bridge) Clear(ctx context.Context) error {
	return b.writeOp(ctx, Payload{}, true)
}

func (b *Bridge) writeOp(ctx context.Context, p Payload, clear bool) error {
	b.mu.Lock()
	b.replaceLocked()
	op := &writeOp{payload: p, clear: clear, done: make(chan error, 1)}
	b.write = op
	b.notify()
	b.mu.Unlock()

	b.logger.Info("tag write pending", slog.Bool("clear", clear))

	select {
	case err, ok := <-op.done:
		if !ok {
			// Replaced by a newer operation; treat as cancellation
			return context.Canceled
		}
		return err
	case <-ctx.Done():
		b.mu.Lock()
		if b.write == op {
			op.cancelled = true
			b.write = nil
			b.notify()
		}
		b.mu.Unlock()
		return ctx.Err()
	}
}

// Report delivers a scanned record from the reader. The scan stays
// active; callbacks decide when to cancel.
func (b *Bridge) Report(r Record) error {
	payload, err := DecodeRecord(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	op := b.scan
	b.mu.Unlock()

	if op == nil || op.cancelled {
		return model.ErrNoActiveScan
	}

	b.logger.Info("tag reported", slog.String("player_id", payload.PlayerID))
	op.onPayload(payload)
	return nil
}

// FailScan surfaces an unrecoverable read error to the active scan.
// Errors arriving after cancellation are suppressed.
func (b *Bridge) FailScan(reason string) {
	b.mu.Lock()
	op := b.scan
	b.mu.Unlock()

	if op == nil || op.cancelled {
		return
	}

	b.logger.Warn("tag read failed", slog.String("reason", reason))
	op.onError(model.ErrTransportRead)
}

// Confirm settles the pending write as successful
func (b *Bridge) Confirm() error {
	b.mu.Lock()
	op := b.write
	if op == nil {
		b.mu.Unlock()
		return model.ErrNoActiveScan
	}
	b.write = nil
	b.notify()
	b.mu.Unlock()

	b.logger.Info("tag written", slog.Bool("clear", op.clear))
	op.done <- nil
	return nil
}

// FailWrite settles the pending write as failed
func (b *Bridge) FailWrite(reason string) error {
	b.mu.Lock()
	op := b.write
	if op == nil {
		b.mu.Unlock()
		return model.ErrNoActiveScan
	}
	b.write = nil
	b.notify()
	b.mu.Unlock()

	b.logger.Warn("tag write failed", slog.String("reason", reason))
	op.done <- model.ErrTransportWrite
	return nil
}

package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Ledger events
	EventPlayerRegistered EventType = "player_registered"
	EventBalanceChanged   EventType = "balance_changed"
	EventTransferApplied  EventType = "transfer_applied"
	EventGameReset        EventType = "game_reset"
	EventDataWiped        EventType = "data_wiped"
	EventPlayersImported  EventType = "players_imported"

	// Tag transport events
	EventScanStarted     EventType = "scan_started"
	EventScanCancelled   EventType = "scan_cancelled"
	EventScanResolved    EventType = "scan_resolved"
	EventScanFailed      EventType = "scan_failed"
	EventTagWritePending EventType = "tag_write_pending"
	EventTagWritten      EventType = "tag_written"

	// Persistence events
	EventStorageDegraded EventType = "storage_degraded"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID // The player the event concerns, if any
	Payload   any      // Type-specific data
}

// BalanceChangedPayload contains data for balance changed events
type BalanceChangedPayload struct {
	Player      Player
	Transaction Transaction
}

// TransferAppliedPayload contains data for transfer events
type TransferAppliedPayload struct {
	Sender    Player
	Recipient Player
	Amount    int64
}

// PlayerRegisteredPayload contains data for registration events
type PlayerRegisteredPayload struct {
	Player Player
}

// GameResetPayload contains data for game reset events
type GameResetPayload struct {
	InitialBalance int64
	PlayerCount    int
}

// ScanPayload contains data for scan lifecycle events
type ScanPayload struct {
	Intent string // identify, transfer, register
	Reason string // set on scan_failed
}

// TagWritePayload contains data for pending tag writes
type TagWritePayload struct {
	PlayerID PlayerID
	Name     string
	Clear    bool // true when the pending write blanks the tag
}

// StorageDegradedPayload signals that a save failed and state is memory-only
type StorageDegradedPayload struct {
	Reason string
}

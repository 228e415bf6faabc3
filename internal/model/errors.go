package model

import "errors"

// Common errors used across the application
var (
	// Ledger errors
	ErrPlayerNotFound         = errors.New("player not found")
	ErrDuplicatePlayer        = errors.New("player id already registered")
	ErrEmptyName              = errors.New("player name is empty")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrSelfTransfer           = errors.New("cannot transfer to the same player")
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// Import/export errors
	ErrMalformedImportData = errors.New("import data is not a player array")

	// Tag transport errors
	ErrTransportUnsupported = errors.New("no tag-reading capability on this device")
	ErrTransportRead        = errors.New("tag read failed")
	ErrTransportWrite       = errors.New("tag write failed")
	ErrMalformedPayload     = errors.New("malformed tag payload")
	ErrUnknownTag           = errors.New("tag does not match a registered player")
	ErrNoActiveScan         = errors.New("no scan in progress")
)

package model

import "time"

// TransactionID uniquely identifies a transaction
type TransactionID string

// TransactionType is the closed set of ledger operations
type TransactionType string

const (
	TransactionReceiveBank TransactionType = "RECEIVE_BANK"
	TransactionPayRent     TransactionType = "PAY_RENT"
	TransactionBuyProperty TransactionType = "BUY_PROPERTY"
	TransactionPayTax      TransactionType = "PAY_TAX"
	TransactionBonus       TransactionType = "BONUS"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionAdjustment  TransactionType = "ADJUSTMENT"
)

// Direction classifies how a transaction type moves a balance
type Direction int

const (
	Credit Direction = iota
	Deduction
)

// directions is the authoritative classification table. Direction is never
// derived from the type's name; adding a type without a row here makes
// DirectionOf return ErrUnknownTransactionType.
var directions = map[TransactionType]Direction{
	TransactionReceiveBank: Credit,
	TransactionPayRent:     Deduction,
	TransactionBuyProperty: Deduction,
	TransactionPayTax:      Deduction,
	TransactionBonus:       Credit,
	TransactionTransferOut: Deduction,
	TransactionTransferIn:  Credit,
	TransactionAdjustment:  Credit,
}

// descriptions maps each type to its default human-readable label
var descriptions = map[TransactionType]string{
	TransactionReceiveBank: "Received from bank",
	TransactionPayRent:     "Rent payment",
	TransactionBuyProperty: "Property purchase",
	TransactionPayTax:      "Tax payment",
	TransactionBonus:       "Bonus received",
	TransactionTransferOut: "Transfer sent",
	TransactionTransferIn:  "Transfer received",
	TransactionAdjustment:  "Manual adjustment",
}

// AllTransactionTypes lists every member of the enum, for exhaustiveness
// checks and CLI/UI enumeration
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionReceiveBank,
		TransactionPayRent,
		TransactionBuyProperty,
		TransactionPayTax,
		TransactionBonus,
		TransactionTransferOut,
		TransactionTransferIn,
		TransactionAdjustment,
	}
}

// DirectionOf returns the balance direction for a transaction type
func DirectionOf(t TransactionType) (Direction, error) {
	d, ok := directions[t]
	if !ok {
		return Credit, ErrUnknownTransactionType
	}
	return d, nil
}

// IsDeduction reports whether the type decreases the acting player's balance.
// Unknown types are treated as deductions so a misconfigured caller fails
// the sufficient-funds check instead of minting money.
func IsDeduction(t TransactionType) bool {
	d, err := DirectionOf(t)
	if err != nil {
		return true
	}
	return d == Deduction
}

// DefaultDescription returns the label for a transaction type
func DefaultDescription(t TransactionType) string {
	return descriptions[t]
}

// ParseTransactionType validates a string against the enum
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if _, ok := directions[t]; !ok {
		return "", ErrUnknownTransactionType
	}
	return t, nil
}

// Transaction is an immutable ledger record attached to a player.
// Amount is the non-negative magnitude; sign is implied by Type.
type Transaction struct {
	ID          TransactionID   `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`

	// TargetPlayerName is set only on TRANSFER_* records: a snapshot of the
	// counterparty's name at transaction time, not a live reference.
	TargetPlayerName string `json:"targetPlayerName,omitempty"`
}

package response

import (
	"time"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/bank"
)

// Transaction represents a ledger record in API responses
type Transaction struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Amount           int64     `json:"amount"`
	Date             time.Time `json:"date"`
	Description      string    `json:"description"`
	TargetPlayerName string    `json:"target_player_name,omitempty"`
}

// TransactionFromModel converts a model.Transaction to a response Transaction
func TransactionFromModel(t model.Transaction) Transaction {
	return Transaction{
		ID:               string(t.ID),
		Type:             string(t.Type),
		Amount:           t.Amount,
		Date:             t.Date,
		Description:      t.Description,
		TargetPlayerName: t.TargetPlayerName,
	}
}

// Player represents a player in API responses
type Player struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Balance int64         `json:"balance"`
	History []Transaction `json:"history"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	history := make([]Transaction, len(p.History))
	for i, t := range p.History {
		history[i] = TransactionFromModel(t)
	}
	return Player{
		ID:      string(p.ID),
		Name:    p.Name,
		Balance: p.Balance,
		History: history,
	}
}

// PlayerList is the response for listing players
type PlayerList struct {
	Players []Player `json:"players"`
}

// PlayerListFromModels converts a model player slice
func PlayerListFromModels(players []model.Player) PlayerList {
	out := PlayerList{Players: make([]Player, len(players))}
	for i := range players {
		out.Players[i] = PlayerFromModel(&players[i])
	}
	return out
}

// TransactionResult is the response for applying a transaction
type TransactionResult struct {
	Player      Player      `json:"player"`
	Transaction Transaction `json:"transaction"`
}

// TransferResult is the response for applying a transfer
type TransferResult struct {
	Sender    Player `json:"sender"`
	Recipient Player `json:"recipient"`
}

// BankSession is the response for a bank login
type BankSession struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// BankSessionFromModel creates a BankSession from a session
func BankSessionFromModel(s *bank.Session) BankSession {
	return BankSession{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Settings is the response for bank settings (the password hash stays
// server-side)
type Settings struct {
	InitialBalance int64 `json:"initial_balance"`
}

// Export is the response for exporting the player list
type Export struct {
	Data string `json:"data"`
}

// ImportResult is the response for importing a player list
type ImportResult struct {
	PlayerCount int `json:"player_count"`
}

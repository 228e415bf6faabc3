package ledger

import (
	"github.com/dmota/tagbank/internal/dependencies/clock"
	"github.com/dmota/tagbank/internal/dependencies/ident"
	"github.com/dmota/tagbank/internal/model"
)

// DefaultHistoryCap is the retention cap for per-player history.
// Records age out from the tail; nothing else ever deletes them.
const DefaultHistoryCap = 50

// Engine computes ledger state transitions. Every method takes a player
// list and returns a fresh one; inputs are never mutated and no I/O
// happens here. The engine is authoritative for validity: callers may
// pre-check amounts and balances as a fast path, but the checks below
// are the ones that count.
type Engine struct {
	clock      clock.Clock
	ident      ident.Generator
	historyCap int
}

// NewEngine creates a ledger engine. A historyCap of 0 means DefaultHistoryCap.
func NewEngine(clk clock.Clock, gen ident.Generator, historyCap int) *Engine {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Engine{
		clock:      clk,
		ident:      gen,
		historyCap: historyCap,
	}
}

// HistoryCap returns the configured retention cap
func (e *Engine) HistoryCap() int {
	return e.historyCap
}

// newTransaction builds a record with a fresh id and the current time.
// An empty description falls back to the type's default label.
func (e *Engine) newTransaction(t model.TransactionType, amount int64, description, targetName string) model.Transaction {
	if description == "" {
		description = model.DefaultDescription(t)
	}
	return model.Transaction{
		ID:               model.TransactionID(e.ident.NewID()),
		Type:             t,
		Amount:           amount,
		Date:             e.clock.Now(),
		Description:      description,
		TargetPlayerName: targetName,
	}
}

// prepend puts tx at the head of history and truncates to the cap
func (e *Engine) prepend(history []model.Transaction, tx model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(history)+1)
	out = append(out, tx)
	out = append(out, history...)
	if len(out) > e.historyCap {
		out = out[:e.historyCap]
	}
	return out
}

// Apply applies a single-party transaction to the player with the given id
// and returns the new player list plus the created record.
//
// Validation is authoritative here: non-positive amounts, unknown types,
// missing players and deductions that would drive the balance negative are
// all rejected with the input list untouched.
func (e *Engine) Apply(players []model.Player, playerID model.PlayerID, t model.TransactionType, amount int64, description string) ([]model.Player, *model.Transaction, error) {
	if amount <= 0 {
		return nil, nil, model.ErrInvalidAmount
	}
	direction, err := model.DirectionOf(t)
	if err != nil {
		return nil, nil, err
	}

	player := model.FindPlayer(players, playerID)
	if player == nil {
		return nil, nil, model.ErrPlayerNotFound
	}
	if direction == model.Deduction && player.Balance < amount {
		return nil, nil, model.ErrInsufficientFunds
	}

	tx := e.newTransaction(t, amount, description, "")

	next := model.ClonePlayers(players)
	updated := model.FindPlayer(next, playerID)
	if direction == model.Deduction {
		updated.Balance -= amount
	} else {
		updated.Balance += amount
	}
	updated.History = e.prepend(updated.History, tx)

	return next, &tx, nil
}

// Transfer moves amount from sender to recipient, producing one
// TRANSFER_OUT record on the sender and one TRANSFER_IN record on the
// recipient, each carrying the counterparty's name. Both updates land in
// the same returned list; there is no intermediate state with only one
// side applied.
func (e *Engine) Transfer(players []model.Player, senderID, recipientID model.PlayerID, amount int64) ([]model.Player, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, model.ErrSelfTransfer
	}

	sender := model.FindPlayer(players, senderID)
	if sender == nil {
		return nil, model.ErrPlayerNotFound
	}
	recipient := model.FindPlayer(players, recipientID)
	if recipient == nil {
		return nil, model.ErrPlayerNotFound
	}
	if sender.Balance < amount {
		return nil, model.ErrInsufficientFunds
	}

	outTx := e.newTransaction(model.TransactionTransferOut, amount, "", recipient.Name)
	inTx := e.newTransaction(model.TransactionTransferIn, amount, "", sender.Name)

	next := model.ClonePlayers(players)

	newSender := model.FindPlayer(next, senderID)
	newSender.Balance -= amount
	newSender.History = e.prepend(newSender.History, outTx)

	newRecipient := model.FindPlayer(next, recipientID)
	newRecipient.Balance += amount
	newRecipient.History = e.prepend(newRecipient.History, inTx)

	return next, nil
}

// Register appends a new player with a fresh id, the given name, the
// initial balance and a single seed record for the starting grant.
func (e *Engine) Register(players []model.Player, name string, initialBalance int64) ([]model.Player, *model.Player, error) {
	if name == "" {
		return nil, nil, model.ErrEmptyName
	}

	player := model.Player{
		ID:      model.PlayerID(e.ident.NewID()),
		Name:    name,
		Balance: initialBalance,
		History: []model.Transaction{
			e.newTransaction(model.TransactionReceiveBank, initialBalance, "Starting balance", ""),
		},
	}

	next := model.ClonePlayers(players)
	next = append(next, player)
	return next, &player, nil
}

// RegisterWithID is Register for a caller that already minted the id,
// e.g. because the id was written to a tag before the player record is
// committed. Fails on a duplicate id.
func (e *Engine) RegisterWithID(players []model.Player, id model.PlayerID, name string, initialBalance int64) ([]model.Player, *model.Player, error) {
	if name == "" {
		return nil, nil, model.ErrEmptyName
	}
	if model.FindPlayer(players, id) != nil {
		return nil, nil, model.ErrDuplicatePlayer
	}

	player := model.Player{
		ID:      id,
		Name:    name,
		Balance: initialBalance,
		History: []model.Transaction{
			e.newTransaction(model.TransactionReceiveBank, initialBalance, "Starting balance", ""),
		},
	}

	next := model.ClonePlayers(players)
	next = append(next, player)
	return next, &player, nil
}

// ResetAll sets every player's balance back to initialBalance and prepends
// a single ADJUSTMENT record. Prior history stays, subject to the cap.
func (e *Engine) ResetAll(players []model.Player, initialBalance int64) []model.Player {
	next := model.ClonePlayers(players)
	for i := range next {
		tx := e.newTransaction(model.TransactionAdjustment, initialBalance, "Game reset", "")
		next[i].Balance = initialBalance
		next[i].History = e.prepend(next[i].History, tx)
	}
	return next
}

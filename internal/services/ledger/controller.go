package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/storage"
)

// Controller owns the working player list and orchestrates the engine
// against persistent storage.
//
// The in-memory list is the working state, exactly as in a single
// browser tab: every operation transforms it through the engine and then
// saves the whole collection. When a save fails the controller keeps
// serving from memory and flags itself degraded instead of failing the
// operation (storage loss should never eat a rent payment mid-game).
type Controller struct {
	storage storage.Storage
	engine  *Engine
	logger  *slog.Logger

	mu       sync.Mutex
	players  []model.Player
	degraded bool
}

// NewController creates a ledger controller
func NewController(store storage.Storage, engine *Engine, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		engine:  engine,
		logger:  logger,
		players: []model.Player{},
	}
}

// Engine exposes the underlying engine, mainly for tests
func (c *Controller) Engine() *Engine {
	return c.engine
}

// Load initializes the working list from storage
func (c *Controller) Load(ctx context.Context) error {
	players, err := c.storage.GetPlayers(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.players = players

	c.logger.Info("ledger loaded", slog.Int("player_count", len(players)))
	return nil
}

// Degraded reports whether the last save failed and state is memory-only
func (c *Controller) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// save persists the working list, degrading instead of failing.
// Caller must hold c.mu.
func (c *Controller) save(ctx context.Context) {
	if err := c.storage.SavePlayers(ctx, c.players); err != nil {
		c.degraded = true
		c.logger.Warn("player save failed, state is memory-only",
			slog.String("error", err.Error()),
		)
		return
	}
	if c.degraded {
		c.logger.Info("storage recovered")
	}
	c.degraded = false
}

// ListPlayers returns a copy of the current player list
func (c *Controller) ListPlayers(ctx context.Context) []model.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.ClonePlayers(c.players)
}

// GetPlayer returns a copy of the player with the given id
func (c *Controller) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player := model.FindPlayer(c.players, id)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}
	copied := model.ClonePlayers([]model.Player{*player})[0]
	return &copied, nil
}

// initialBalance reads the configured starting grant
func (c *Controller) initialBalance(ctx context.Context) int64 {
	settings, err := c.storage.GetSettings(ctx)
	if err != nil {
		c.logger.Warn("settings load failed, using default initial balance",
			slog.String("error", err.Error()),
		)
		return model.DefaultInitialBalance
	}
	return settings.InitialBalance
}

// RegisterPlayer creates a player with a fresh id and the configured
// starting balance
func (c *Controller) RegisterPlayer(ctx context.Context, name string) (*model.Player, error) {
	balance := c.initialBalance(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, player, err := c.engine.Register(c.players, name, balance)
	if err != nil {
		return nil, err
	}
	c.players = next
	c.save(ctx)

	c.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
		slog.Int64("balance", player.Balance),
	)
	return player, nil
}

// RegisterPlayerWithID creates a player under a pre-minted id. Used by the
// tag registration flow, where the id is written to the tag before the
// player record is committed.
func (c *Controller) RegisterPlayerWithID(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	balance := c.initialBalance(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, player, err := c.engine.RegisterWithID(c.players, id, name, balance)
	if err != nil {
		return nil, err
	}
	c.players = next
	c.save(ctx)

	c.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
		slog.Int64("balance", player.Balance),
	)
	return player, nil
}

// ApplyTransaction applies a single-party transaction and returns the
// updated player plus the created record
func (c *Controller) ApplyTransaction(ctx context.Context, playerID model.PlayerID, t model.TransactionType, amount int64, description string) (*model.Player, *model.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, tx, err := c.engine.Apply(c.players, playerID, t, amount, description)
	if err != nil {
		return nil, nil, err
	}
	c.players = next
	c.save(ctx)

	player := model.FindPlayer(c.players, playerID)
	c.logger.Info("transaction applied",
		slog.String("player_id", string(playerID)),
		slog.String("type", string(t)),
		slog.Int64("amount", amount),
		slog.Int64("balance", player.Balance),
	)
	copied := model.ClonePlayers([]model.Player{*player})[0]
	return &copied, tx, nil
}

// Transfer moves amount between two players and returns both updated sides
func (c *Controller) Transfer(ctx context.Context, senderID, recipientID model.PlayerID, amount int64) (sender, recipient *model.Player, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.engine.Transfer(c.players, senderID, recipientID, amount)
	if err != nil {
		return nil, nil, err
	}
	c.players = next
	c.save(ctx)

	s := model.ClonePlayers([]model.Player{*model.FindPlayer(c.players, senderID)})[0]
	r := model.ClonePlayers([]model.Player{*model.FindPlayer(c.players, recipientID)})[0]

	c.logger.Info("transfer applied",
		slog.String("sender_id", string(senderID)),
		slog.String("recipient_id", string(recipientID)),
		slog.Int64("amount", amount),
	)
	return &s, &r, nil
}

// ResetGame sets every balance back to the configured initial balance
func (c *Controller) ResetGame(ctx context.Context) ([]model.Player, error) {
	balance := c.initialBalance(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = c.engine.ResetAll(c.players, balance)
	c.save(ctx)

	c.logger.Info("game reset",
		slog.Int64("initial_balance", balance),
		slog.Int("player_count", len(c.players)),
	)
	return model.ClonePlayers(c.players), nil
}

// WipeAll deletes every player, in memory and in storage
func (c *Controller) WipeAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = []model.Player{}
	if err := c.storage.ClearPlayers(ctx); err != nil {
		c.degraded = true
		c.logger.Warn("player wipe failed in storage, state is memory-only",
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("all players wiped")
	return nil
}

// Export serializes the full player list to a copyable JSON blob
func (c *Controller) Export(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c.players, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Import replaces the player list wholesale with a pasted JSON blob.
// The only validation is array shape; anything that does not parse as a
// player array is rejected with ErrMalformedImportData.
func (c *Controller) Import(ctx context.Context, data string) (int, error) {
	var players []model.Player
	if err := json.Unmarshal([]byte(data), &players); err != nil {
		return 0, model.ErrMalformedImportData
	}
	if players == nil {
		players = []model.Player{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = players
	c.save(ctx)

	c.logger.Info("players imported", slog.Int("player_count", len(players)))
	return len(players), nil
}

package storage

import (
	"context"

	"github.com/dmota/tagbank/internal/model"
)

// Storage defines the interface for data persistence.
//
// The player list is persisted as a whole collection, replace-on-write.
// There are no partial updates: the ledger controller is the single writer
// and every transformation produces the full next list.
type Storage interface {
	// GetPlayers returns the stored player list, or an empty list if
	// nothing has been stored yet
	GetPlayers(ctx context.Context) ([]model.Player, error)

	// SavePlayers replaces the stored player list wholesale
	SavePlayers(ctx context.Context, players []model.Player) error

	// ClearPlayers removes the stored player list
	ClearPlayers(ctx context.Context) error

	// GetSettings returns the stored settings. When nothing has been
	// stored yet it returns the default initial balance with an empty
	// password hash; the bank service hashes the default password on
	// first use.
	GetSettings(ctx context.Context) (*model.Settings, error)

	// SaveSettings replaces the stored settings
	SaveSettings(ctx context.Context, settings *model.Settings) error
}

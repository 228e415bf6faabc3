package memory

import (
	"context"
	"sync"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players  []model.Player
	settings *model.Settings
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.players == nil {
		return []model.Player{}, nil
	}
	return model.ClonePlayers(s.players), nil
}

func (s *Storage) SavePlayers(ctx context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = model.ClonePlayers(players)
	return nil
}

func (s *Storage) ClearPlayers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = nil
	return nil
}

func (s *Storage) GetSettings(ctx context.Context) (*model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return &model.Settings{InitialBalance: model.DefaultInitialBalance}, nil
	}
	copied := *s.settings
	return &copied, nil
}

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *settings
	s.settings = &copied
	return nil
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmota/tagbank/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetPlayersEmpty() {
	players, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestSaveAndGetPlayers() {
	saved := []model.Player{
		{ID: "player-1", Name: "Alice", Balance: 3000, History: []model.Transaction{}},
	}
	s.Require().NoError(s.storage.SavePlayers(s.ctx, saved))

	retrieved, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 1)
	s.Equal(model.PlayerID("player-1"), retrieved[0].ID)
}

func (s *StorageSuite) TestSavedPlayersAreIsolated() {
	saved := []model.Player{
		{ID: "player-1", Name: "Alice", Balance: 3000, History: []model.Transaction{
			{ID: "tx-1", Type: model.TransactionReceiveBank, Amount: 3000},
		}},
	}
	s.Require().NoError(s.storage.SavePlayers(s.ctx, saved))

	// Mutating the caller's slice must not leak into storage
	saved[0].Balance = 0
	saved[0].History[0].Amount = 0

	retrieved, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3000), retrieved[0].Balance)
	s.Equal(int64(3000), retrieved[0].History[0].Amount)

	// And mutating a retrieved copy must not leak either
	retrieved[0].Balance = 0
	again, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3000), again[0].Balance)
}

func (s *StorageSuite) TestClearPlayers() {
	_ = s.storage.SavePlayers(s.ctx, []model.Player{{ID: "player-1", Name: "Alice"}})

	s.Require().NoError(s.storage.ClearPlayers(s.ctx))

	players, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestGetSettingsDefaults() {
	settings, err := s.storage.GetSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DefaultInitialBalance, settings.InitialBalance)
}

func (s *StorageSuite) TestSaveAndGetSettings() {
	saved := &model.Settings{InitialBalance: 5000, BankPasswordHash: "hash123"}
	s.Require().NoError(s.storage.SaveSettings(s.ctx, saved))

	// The stored copy is detached from the caller's struct
	saved.InitialBalance = 1

	settings, err := s.storage.GetSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5000), settings.InitialBalance)
	s.Equal("hash123", settings.BankPasswordHash)
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/dmota/tagbank/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) samplePlayers() []model.Player {
	return []model.Player{
		{
			ID:      "player-1",
			Name:    "Alice",
			Balance: 3000,
			History: []model.Transaction{
				{
					ID:          "tx-1",
					Type:        model.TransactionReceiveBank,
					Amount:      3000,
					Description: "Starting balance",
					Date:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
				},
			},
		},
		{ID: "player-2", Name: "Bob", Balance: 1500, History: []model.Transaction{}},
	}
}

func (s *StorageSuite) TestGetPlayersEmpty() {
	players, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestSaveAndGetPlayers() {
	err := s.storage.SavePlayers(s.ctx, s.samplePlayers())
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 2)
	s.Equal(model.PlayerID("player-1"), retrieved[0].ID)
	s.Equal(int64(3000), retrieved[0].Balance)
	s.Require().Len(retrieved[0].History, 1)
	s.Equal(model.TransactionReceiveBank, retrieved[0].History[0].Type)
}

func (s *StorageSuite) TestSavePlayersReplacesExisting() {
	_ = s.storage.SavePlayers(s.ctx, s.samplePlayers())
	err := s.storage.SavePlayers(s.ctx, []model.Player{{ID: "player-3", Name: "Cara"}})
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 1)
	s.Equal(model.PlayerID("player-3"), retrieved[0].ID)
}

func (s *StorageSuite) TestClearPlayers() {
	_ = s.storage.SavePlayers(s.ctx, s.samplePlayers())

	err := s.storage.ClearPlayers(s.ctx)
	s.Require().NoError(err)

	players, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestClearPlayersWhenEmpty() {
	s.NoError(s.storage.ClearPlayers(s.ctx))
}

func (s *StorageSuite) TestGetSettingsDefaults() {
	settings, err := s.storage.GetSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DefaultInitialBalance, settings.InitialBalance)
	s.Empty(settings.BankPasswordHash)
}

func (s *StorageSuite) TestSaveAndGetSettings() {
	err := s.storage.SaveSettings(s.ctx, &model.Settings{
		InitialBalance:   5000,
		BankPasswordHash: "hash123",
	})
	s.Require().NoError(err)

	settings, err := s.storage.GetSettings(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5000), settings.InitialBalance)
	s.Equal("hash123", settings.BankPasswordHash)
}

func (s *StorageSuite) TestDataSurvivesMalformedOtherKeys() {
	// A stray value under another key does not affect the bank blobs
	_ = s.mini.Set("unrelated", "garbage")

	_ = s.storage.SavePlayers(s.ctx, s.samplePlayers())
	players, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *StorageSuite) TestBlobsHaveNoTTL() {
	_ = s.storage.SavePlayers(s.ctx, s.samplePlayers())
	_ = s.storage.SaveSettings(s.ctx, &model.Settings{InitialBalance: 5000})

	s.Equal(time.Duration(0), s.mini.TTL(playersKey()))
	s.Equal(time.Duration(0), s.mini.TTL(settingsKey()))
}

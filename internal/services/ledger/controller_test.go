package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dmota/tagbank/internal/dependencies/mocks"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/storage/memory"
	"github.com/dmota/tagbank/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ident      *mocks.MockGenerator
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ident = mocks.NewMockGenerator()
	engine := NewEngine(s.clock, s.ident, 0)
	s.controller = NewController(s.storage, engine, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.controller.Load(s.ctx))
}

func (s *ControllerSuite) TestRegisterPersistsPlayer() {
	player, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(int64(3000), player.Balance)

	stored, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(player.ID, stored[0].ID)
}

func (s *ControllerSuite) TestRegisterUsesConfiguredInitialBalance() {
	err := s.storage.SaveSettings(s.ctx, &model.Settings{InitialBalance: 1500})
	s.Require().NoError(err)

	player, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(int64(1500), player.Balance)
}

func (s *ControllerSuite) TestGetPlayerReturnsCopy() {
	player, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	got, err := s.controller.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	got.Balance = 0

	again, err := s.controller.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(3000), again.Balance)
}

func (s *ControllerSuite) TestGetPlayerUnknownID() {
	_, err := s.controller.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestApplyTransactionPersists() {
	player, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	updated, tx, err := s.controller.ApplyTransaction(s.ctx, player.ID, model.TransactionPayRent, 100, "")
	s.Require().NoError(err)
	s.Equal(int64(2900), updated.Balance)
	s.Equal(model.TransactionPayRent, tx.Type)

	stored, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2900), stored[0].Balance)
}

func (s *ControllerSuite) TestTransferUpdatesBothSides() {
	alice, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	bob, err := s.controller.RegisterPlayer(s.ctx, "Bob")
	s.Require().NoError(err)

	sender, recipient, err := s.controller.Transfer(s.ctx, alice.ID, bob.ID, 500)
	s.Require().NoError(err)
	s.Equal(int64(2500), sender.Balance)
	s.Equal(int64(3500), recipient.Balance)
}

func (s *ControllerSuite) TestResetGameRestoresBalances() {
	alice, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	_, _, err = s.controller.ApplyTransaction(s.ctx, alice.ID, model.TransactionPayRent, 1000, "")
	s.Require().NoError(err)

	players, err := s.controller.ResetGame(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(int64(3000), players[0].Balance)
	s.Equal(model.TransactionAdjustment, players[0].History[0].Type)
}

func (s *ControllerSuite) TestWipeAllClearsEverything() {
	_, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.WipeAll(s.ctx))

	s.Empty(s.controller.ListPlayers(s.ctx))
	stored, err := s.storage.GetPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(stored)
}

func (s *ControllerSuite) TestExportImportRoundTrip() {
	alice, err := s.controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	_, err = s.controller.RegisterPlayer(s.ctx, "Bob")
	s.Require().NoError(err)
	_, _, err = s.controller.ApplyTransaction(s.ctx, alice.ID, model.TransactionBonus, 250, "")
	s.Require().NoError(err)

	blob, err := s.controller.Export(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.WipeAll(s.ctx))

	count, err := s.controller.Import(s.ctx, blob)
	s.Require().NoError(err)
	s.Equal(2, count)

	restored, err := s.controller.GetPlayer(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(3250), restored.Balance)
	s.Len(restored.History, 2)
}

func (s *ControllerSuite) TestImportRejectsMalformedData() {
	_, err := s.controller.Import(s.ctx, "{not json")
	s.ErrorIs(err, model.ErrMalformedImportData)

	_, err = s.controller.Import(s.ctx, `{"players": []}`)
	s.ErrorIs(err, model.ErrMalformedImportData)
}

func (s *ControllerSuite) TestImportNullBecomesEmptyList() {
	count, err := s.controller.Import(s.ctx, "null")
	s.Require().NoError(err)
	s.Equal(0, count)
	s.Empty(s.controller.ListPlayers(s.ctx))
}

// failingStorage wraps memory storage and fails every SavePlayers call
type failingStorage struct {
	*memory.Storage
}

func (f *failingStorage) SavePlayers(ctx context.Context, players []model.Player) error {
	return errors.New("disk on fire")
}

func (s *ControllerSuite) TestSaveFailureDegradesInsteadOfFailing() {
	store := &failingStorage{Storage: memory.New()}
	engine := NewEngine(s.clock, s.ident, 0)
	controller := NewController(store, engine, testutil.NopLogger())
	s.Require().NoError(controller.Load(s.ctx))

	player, err := controller.RegisterPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.True(controller.Degraded())

	// The operation still applied in memory
	got, err := controller.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(3000), got.Balance)
}

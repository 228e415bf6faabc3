package factory

import (
	"time"

	"github.com/dmota/tagbank/internal/dependencies/mocks"
	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/storage/memory"
	"github.com/dmota/tagbank/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIdent *mocks.MockGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIdent := mocks.NewMockGenerator()

	app := newWithDependencies(store, mockClock, mockIdent, 0, bank.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIdent: mockIdent,
	}
}

package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dmota/tagbank/internal/dependencies/clock"
	"github.com/dmota/tagbank/internal/dependencies/ident"
	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/services/tags"
	"github.com/dmota/tagbank/internal/storage"
	"github.com/dmota/tagbank/internal/storage/memory"
	redisstorage "github.com/dmota/tagbank/internal/storage/redis"
	"github.com/dmota/tagbank/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	Ident ident.Generator

	// Services
	Engine           *ledger.Engine
	LedgerController *ledger.Controller
	BankService      *bank.Service
	Bridge           *tags.Bridge
	Hub              *sse.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// HistoryCap limits per-player history length (0 means the default)
	HistoryCap int
	// BankConfig holds configuration for the bank service (optional)
	BankConfig bank.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	gen := ident.New()

	return newWithDependencies(store, clk, gen, cfg.HistoryCap, cfg.BankConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gen ident.Generator, historyCap int, bankCfg bank.Config, logger *slog.Logger) *App {
	engine := ledger.NewEngine(clk, gen, historyCap)
	ledgerController := ledger.NewController(store, engine, logger)
	bankService := bank.New(store, clk, bankCfg, logger)
	bridge := tags.NewBridge(logger)
	hub := sse.NewHub(logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Ident:            gen,
		Engine:           engine,
		LedgerController: ledgerController,
		BankService:      bankService,
		Bridge:           bridge,
		Hub:              hub,
	}
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmota/tagbank/internal/api/handler"
	apimiddleware "github.com/dmota/tagbank/internal/api/middleware"
	"github.com/dmota/tagbank/internal/middleware"
	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/services/ledger"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	LedgerController *ledger.Controller
	BankService      *bank.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.LedgerController)
	transferHandler := handler.NewTransferHandler(cfg.LedgerController)
	bankHandler := handler.NewBankHandler(cfg.BankService, cfg.LedgerController)

	// Create middleware
	bankAuth := apimiddleware.BankAuth(cfg.BankService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (table-trust: no auth, same as walking up to the bank tray)
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/transactions", playerHandler.ApplyTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transfers", transferHandler.Create).Methods(http.MethodPost)

	// Bank login (no auth; exchanges password for a session)
	api.HandleFunc("/bank/login", bankHandler.Login).Methods(http.MethodPost)

	// Bank-gated routes
	banked := api.NewRoute().Subrouter()
	banked.Use(bankAuth)
	banked.HandleFunc("/players", playerHandler.Register).Methods(http.MethodPost)
	banked.HandleFunc("/players", bankHandler.Wipe).Methods(http.MethodDelete)
	banked.HandleFunc("/bank/reset", bankHandler.Reset).Methods(http.MethodPost)
	banked.HandleFunc("/bank/export", bankHandler.Export).Methods(http.MethodGet)
	banked.HandleFunc("/bank/import", bankHandler.Import).Methods(http.MethodPost)
	banked.HandleFunc("/bank/settings", bankHandler.GetSettings).Methods(http.MethodGet)
	banked.HandleFunc("/bank/settings", bankHandler.UpdateSettings).Methods(http.MethodPatch)
	banked.HandleFunc("/bank/password", bankHandler.ChangePassword).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, http.StatusInternalServerError)
}

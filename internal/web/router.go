package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmota/tagbank/internal/dependencies/ident"
	"github.com/dmota/tagbank/internal/middleware"
	"github.com/dmota/tagbank/internal/services/bank"
	"github.com/dmota/tagbank/internal/services/ledger"
	"github.com/dmota/tagbank/internal/services/tags"
	"github.com/dmota/tagbank/internal/web/handler"
	webmiddleware "github.com/dmota/tagbank/internal/web/middleware"
	"github.com/dmota/tagbank/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	LedgerController *ledger.Controller
	BankService      *bank.Service
	Bridge           *tags.Bridge
	Ident            ident.Generator
	Hub              *sse.Hub
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)
	flashMiddleware := webmiddleware.Flash()
	bankAuthMiddleware := webmiddleware.BankAuth(cfg.BankService)
	optionalBankAuthMiddleware := webmiddleware.OptionalBankAuth(cfg.BankService)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	hub := cfg.Hub
	if hub == nil {
		hub = sse.NewHub(cfg.Logger)
		go hub.Run()
	}

	flow := handler.NewFlow(cfg.Bridge, cfg.LedgerController, cfg.Ident, hub, cfg.Logger)

	homeHandler := handler.NewHomeHandler(cfg.LedgerController, flow)
	playerHandler := handler.NewPlayerHandler(cfg.LedgerController, flow)
	registerHandler := handler.NewRegisterHandler(flow)
	bankHandler := handler.NewBankHandler(cfg.BankService, cfg.LedgerController, hub)
	nfcHandler := handler.NewNfcHandler(cfg.Bridge, hub, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// SSE stream and reader bridge endpoints, no flash handling
	r.HandleFunc("/events", nfcHandler.Events).Methods(http.MethodGet)
	nfcRoutes := r.PathPrefix("/nfc").Subrouter()
	nfcRoutes.HandleFunc("/hello", nfcHandler.Hello).Methods(http.MethodPost)
	nfcRoutes.HandleFunc("/report", nfcHandler.Report).Methods(http.MethodPost)
	nfcRoutes.HandleFunc("/scan-error", nfcHandler.ScanError).Methods(http.MethodPost)
	nfcRoutes.HandleFunc("/confirm", nfcHandler.Confirm).Methods(http.MethodPost)
	nfcRoutes.HandleFunc("/write-failed", nfcHandler.WriteFailed).Methods(http.MethodPost)

	// Table routes
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalBankAuthMiddleware)

	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/scan", homeHandler.StartScan).Methods(http.MethodPost)
	public.HandleFunc("/scan/cancel", homeHandler.CancelScan).Methods(http.MethodPost)

	public.HandleFunc("/players/{id}", playerHandler.View).Methods(http.MethodGet)
	public.HandleFunc("/players/{id}/tx", playerHandler.ApplyTransaction).Methods(http.MethodPost)
	public.HandleFunc("/players/{id}/transfer", playerHandler.StartTransfer).Methods(http.MethodPost)

	public.HandleFunc("/register", registerHandler.Page).Methods(http.MethodGet)
	public.HandleFunc("/register", registerHandler.Create).Methods(http.MethodPost)
	public.HandleFunc("/register/cancel", registerHandler.Cancel).Methods(http.MethodPost)

	public.HandleFunc("/bank", bankHandler.Page).Methods(http.MethodGet)
	public.HandleFunc("/bank/login", bankHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/bank/logout", bankHandler.Logout).Methods(http.MethodPost)

	// Bank actions require a session
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(bankAuthMiddleware)

	protected.HandleFunc("/bank/settings", bankHandler.UpdateSettings).Methods(http.MethodPost)
	protected.HandleFunc("/bank/password", bankHandler.ChangePassword).Methods(http.MethodPost)
	protected.HandleFunc("/bank/reset", bankHandler.Reset).Methods(http.MethodPost)
	protected.HandleFunc("/bank/wipe", bankHandler.Wipe).Methods(http.MethodPost)
	protected.HandleFunc("/bank/export", bankHandler.Export).Methods(http.MethodGet)
	protected.HandleFunc("/bank/import", bankHandler.Import).Methods(http.MethodPost)

	return r
}

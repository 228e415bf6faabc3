package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmota/tagbank/internal/api"
	"github.com/dmota/tagbank/internal/api/apierr"
	"github.com/dmota/tagbank/internal/api/response"
	"github.com/dmota/tagbank/internal/factory"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/testutil"
)

// testServer bundles the router with the app it serves
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LedgerController.Load(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:           testutil.NopLogger(),
		LedgerController: app.LedgerController,
		BankService:      app.BankService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// bankToken logs into the bank with the default password
func (ts *testServer) bankToken(t *testing.T) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/bank/login", map[string]string{"password": model.DefaultBankPassword}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.BankSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}

// registerPlayer registers a player through the bank-gated endpoint
func (ts *testServer) registerPlayer(t *testing.T, token, name string) response.Player {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var player response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	return player
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestListPlayersEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Players)
}

func TestRegisterPlayer(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	player := ts.registerPlayer(t, token, "Alice")
	assert.Equal(t, "Alice", player.Name)
	assert.Equal(t, int64(3000), player.Balance)
	require.Len(t, player.History, 1)
	assert.Equal(t, "RECEIVE_BANK", player.History[0].Type)
	assert.Equal(t, "Starting balance", player.History[0].Description)
}

func TestRegisterPlayerRequiresBankSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Alice"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestRegisterPlayerEmptyName(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestGetPlayer(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	player := ts.registerPlayer(t, token, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/"+player.ID, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, player.ID, resp.ID)
}

func TestGetPlayerNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/nonexistent", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))
}

func TestApplyTransaction(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	player := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"type": "PAY_RENT", "amount": 100}
	rr := ts.request(http.MethodPost, "/api/v1/players/"+player.ID+"/transactions", body, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.TransactionResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(2900), resp.Player.Balance)
	assert.Equal(t, "PAY_RENT", resp.Transaction.Type)
	assert.Equal(t, "Rent payment", resp.Transaction.Description)
}

func TestApplyTransactionUnknownType(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	player := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"type": "LOAN_SHARK", "amount": 100}
	rr := ts.request(http.MethodPost, "/api/v1/players/"+player.ID+"/transactions", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownType, errorCode(t, rr))
}

func TestApplyTransactionInvalidAmount(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	player := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"type": "PAY_RENT", "amount": 0}
	rr := ts.request(http.MethodPost, "/api/v1/players/"+player.ID+"/transactions", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidAmount, errorCode(t, rr))
}

func TestApplyTransactionOverdraft(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	player := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"type": "PAY_TAX", "amount": 99999}
	rr := ts.request(http.MethodPost, "/api/v1/players/"+player.ID+"/transactions", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeInsufficientFunds, errorCode(t, rr))
}

func TestTransfer(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	alice := ts.registerPlayer(t, token, "Alice")
	bob := ts.registerPlayer(t, token, "Bob")

	body := map[string]any{"sender_id": alice.ID, "recipient_id": bob.ID, "amount": 500}
	rr := ts.request(http.MethodPost, "/api/v1/transfers", body, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.TransferResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(2500), resp.Sender.Balance)
	assert.Equal(t, int64(3500), resp.Recipient.Balance)
	assert.Equal(t, "Bob", resp.Sender.History[0].TargetPlayerName)
	assert.Equal(t, "Alice", resp.Recipient.History[0].TargetPlayerName)
}

func TestTransferToSelf(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	alice := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"sender_id": alice.ID, "recipient_id": alice.ID, "amount": 100}
	rr := ts.request(http.MethodPost, "/api/v1/transfers", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeSelfTransfer, errorCode(t, rr))
}

func TestBankLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/bank/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestBankSessionExpires(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	ts.app.MockClock.Advance(9 * time.Hour)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Alice"}, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBankSettings(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/bank/settings", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var settings response.Settings
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &settings))
	assert.Equal(t, int64(3000), settings.InitialBalance)

	rr = ts.request(http.MethodPatch, "/api/v1/bank/settings", map[string]any{"initial_balance": 5000}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// New registrations pick up the new grant
	player := ts.registerPlayer(t, token, "Alice")
	assert.Equal(t, int64(5000), player.Balance)
}

func TestBankReset(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	alice := ts.registerPlayer(t, token, "Alice")

	body := map[string]any{"type": "PAY_RENT", "amount": 1000}
	rr := ts.request(http.MethodPost, "/api/v1/players/"+alice.ID+"/transactions", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/bank/reset", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Players, 1)
	assert.Equal(t, int64(3000), resp.Players[0].Balance)
	assert.Equal(t, "ADJUSTMENT", resp.Players[0].History[0].Type)
}

func TestBankWipe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	ts.registerPlayer(t, token, "Alice")

	rr := ts.request(http.MethodDelete, "/api/v1/players", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players", nil, "")
	var resp response.PlayerList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Players)
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)
	alice := ts.registerPlayer(t, token, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/bank/export", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var export response.Export
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &export))

	rr = ts.request(http.MethodDelete, "/api/v1/players", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/bank/import", map[string]string{"data": export.Data}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var imported response.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &imported))
	assert.Equal(t, 1, imported.PlayerCount)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+alice.ID, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestImportMalformedData(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	rr := ts.request(http.MethodPost, "/api/v1/bank/import", map[string]string{"data": "{not json"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeMalformedImport, errorCode(t, rr))
}

func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	token := ts.bankToken(t)

	body := map[string]string{"current_password": model.DefaultBankPassword, "new_password": "secret"}
	rr := ts.request(http.MethodPost, "/api/v1/bank/password", body, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/bank/login", map[string]string{"password": model.DefaultBankPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/bank/login", map[string]string{"password": "secret"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

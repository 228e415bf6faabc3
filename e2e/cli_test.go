package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmota/tagbank/internal/api"
	"github.com/dmota/tagbank/internal/factory"
	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/testutil"
	"github.com/dmota/tagbank/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "tagbank-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tagbank")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	require.NoError(t, app.LedgerController.Load(context.Background()))
	go app.Hub.Run()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		LedgerController: app.LedgerController,
		BankService:      app.BankService,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		LedgerController: app.LedgerController,
		BankService:      app.BankService,
		Bridge:           app.Bridge,
		Ident:            app.Ident,
		Hub:              app.Hub,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			app.Hub.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type playerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
	History []struct {
		Type             string `json:"type"`
		Amount           int64  `json:"amount"`
		Description      string `json:"description"`
		TargetPlayerName string `json:"target_player_name"`
	} `json:"history"`
}

type playerListResponse struct {
	Players []playerResponse `json:"players"`
}

type transactionResultResponse struct {
	Player      playerResponse `json:"player"`
	Transaction struct {
		Type        string `json:"type"`
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	} `json:"transaction"`
}

type transferResultResponse struct {
	Sender    playerResponse `json:"sender"`
	Recipient playerResponse `json:"recipient"`
}

type bankSessionResponse struct {
	SessionToken string `json:"session_token"`
}

type settingsResponse struct {
	InitialBalance int64 `json:"initial_balance"`
}

type exportResponse struct {
	Data string `json:"data"`
}

type importResponse struct {
	PlayerCount int `json:"player_count"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_BankLoginAndRegister(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Login saves the session token to the token file
	output, err := cli.run("bank", "login", "--password", model.DefaultBankPassword)
	require.NoError(t, err, "output: %s", output)

	var session bankSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.NotEmpty(t, session.SessionToken)

	// Register a player using the saved token
	output, err = cli.run("players", "register", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.Name)
	assert.Equal(t, int64(3000), player.Balance)
	require.Len(t, player.History, 1)
	assert.Equal(t, "RECEIVE_BANK", player.History[0].Type)

	// List players
	output, err = cli.run("players", "list")
	require.NoError(t, err, "output: %s", output)

	var list playerListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Players, 1)
	assert.Equal(t, player.ID, list.Players[0].ID)

	// Get player by id
	output, err = cli.run("players", "get", player.ID)
	require.NoError(t, err, "output: %s", output)

	var got playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "Alice", got.Name)
}

func TestCLI_RegisterWithoutLoginFails(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("players", "register", "--name", "Alice")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_Transactions(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("bank", "login", "--password", model.DefaultBankPassword)
	require.NoError(t, err)

	output, err := cli.run("players", "register", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var alice playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	// Credit
	output, err = cli.run("tx", alice.ID, "--type", "RECEIVE_BANK", "--amount", "200")
	require.NoError(t, err, "output: %s", output)

	var result transactionResultResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, int64(3200), result.Player.Balance)
	assert.Equal(t, "Received from bank", result.Transaction.Description)

	// Deduction with a custom description
	output, err = cli.run("tx", alice.ID, "--type", "BUY_PROPERTY", "--amount", "350", "--description", "Bought Mayfair")
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, int64(2850), result.Player.Balance)
	assert.Equal(t, "Bought Mayfair", result.Transaction.Description)

	// Overdraft is rejected
	output, err = cli.run("tx", alice.ID, "--type", "PAY_TAX", "--amount", "99999")
	require.Error(t, err)
	assert.Contains(t, output, "INSUFFICIENT_FUNDS")
}

func TestCLI_Transfer(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("bank", "login", "--password", model.DefaultBankPassword)
	require.NoError(t, err)

	output, err := cli.run("players", "register", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var alice playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	output, err = cli.run("players", "register", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var bob playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))

	output, err = cli.run("transfer", "--from", alice.ID, "--to", bob.ID, "--amount", "500")
	require.NoError(t, err, "output: %s", output)

	var result transferResultResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, int64(2500), result.Sender.Balance)
	assert.Equal(t, int64(3500), result.Recipient.Balance)
	assert.Equal(t, "Bob", result.Sender.History[0].TargetPlayerName)

	// Self transfer is rejected
	output, err = cli.run("transfer", "--from", alice.ID, "--to", alice.ID, "--amount", "100")
	require.Error(t, err)
	assert.Contains(t, output, "SELF_TRANSFER")
}

func TestCLI_BankAdministration(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("bank", "login", "--password", model.DefaultBankPassword)
	require.NoError(t, err)

	// Settings round trip
	output, err := cli.run("bank", "settings")
	require.NoError(t, err, "output: %s", output)

	var settings settingsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &settings))
	assert.Equal(t, int64(3000), settings.InitialBalance)

	output, err = cli.run("bank", "set-balance", "--balance", "5000")
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &settings))
	assert.Equal(t, int64(5000), settings.InitialBalance)

	// New registrations pick up the new grant
	output, err = cli.run("players", "register", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var alice playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))
	assert.Equal(t, int64(5000), alice.Balance)

	// Reset restores every balance to the grant
	_, err = cli.run("tx", alice.ID, "--type", "PAY_RENT", "--amount", "1000")
	require.NoError(t, err)

	output, err = cli.run("bank", "reset")
	require.NoError(t, err, "output: %s", output)

	var list playerListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Players, 1)
	assert.Equal(t, int64(5000), list.Players[0].Balance)
}

func TestCLI_ExportImportWipe(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("bank", "login", "--password", model.DefaultBankPassword)
	require.NoError(t, err)

	output, err := cli.run("players", "register", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var alice playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	// Export to a file
	exportFile := filepath.Join(t.TempDir(), "export.json")
	output, err = cli.run("bank", "export", "--file", exportFile)
	require.NoError(t, err, "output: %s", output)

	// Wipe refuses without --force
	output, err = cli.run("bank", "wipe")
	require.Error(t, err)
	assert.Contains(t, output, "--force")

	output, err = cli.run("bank", "wipe", "--force")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("players", "list")
	require.NoError(t, err, "output: %s", output)
	var list playerListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	assert.Empty(t, list.Players)

	// Import the exported file back
	output, err = cli.run("bank", "import", "--file", exportFile)
	require.NoError(t, err, "output: %s", output)

	var imported importResponse
	require.NoError(t, json.Unmarshal([]byte(output), &imported))
	assert.Equal(t, 1, imported.PlayerCount)

	output, err = cli.run("players", "get", alice.ID)
	require.NoError(t, err, "output: %s", output)
	var restored playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &restored))
	assert.Equal(t, "Alice", restored.Name)
}

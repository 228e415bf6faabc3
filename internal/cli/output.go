package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case TransactionResult:
		o.printTransactionResult(v)
	case TransferResult:
		o.printTransferResult(v)
	case BankSession:
		o.printBankSession(v)
	case Settings:
		o.printSettings(v)
	case ExportResult:
		fmt.Println(v.Data)
	case ImportResult:
		fmt.Printf("Imported %d players\n", v.PlayerCount)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Transaction response type (matches API)
type Transaction struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Amount           int64     `json:"amount"`
	Date             time.Time `json:"date"`
	Description      string    `json:"description"`
	TargetPlayerName string    `json:"target_player_name,omitempty"`
}

// Player response type
type Player struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Balance int64         `json:"balance"`
	History []Transaction `json:"history"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// TransactionResult response type
type TransactionResult struct {
	Player      Player      `json:"player"`
	Transaction Transaction `json:"transaction"`
}

// TransferResult response type
type TransferResult struct {
	Sender    Player `json:"sender"`
	Recipient Player `json:"recipient"`
}

// BankSession response type
type BankSession struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Settings response type
type Settings struct {
	InitialBalance int64 `json:"initial_balance"`
}

// ExportResult response type
type ExportResult struct {
	Data string `json:"data"`
}

// ImportResult response type
type ImportResult struct {
	PlayerCount int `json:"player_count"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Balance: %d\n", p.Balance)
	if len(p.History) > 0 {
		fmt.Printf("History (%d):\n", len(p.History))
		for _, tx := range p.History {
			o.printTransactionLine(tx)
		}
	}
}

func (o *Output) printTransactionLine(tx Transaction) {
	line := fmt.Sprintf("  [%s] %s %d - %s", tx.Date.Format("2006-01-02 15:04"), tx.Type, tx.Amount, tx.Description)
	if tx.TargetPlayerName != "" {
		line += " (" + tx.TargetPlayerName + ")"
	}
	fmt.Println(line)
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		fmt.Printf("  - %s (%s): %d\n", p.Name, p.ID, p.Balance)
	}
}

func (o *Output) printTransactionResult(r TransactionResult) {
	fmt.Printf("Applied %s %d to %s\n", r.Transaction.Type, r.Transaction.Amount, r.Player.Name)
	fmt.Printf("New balance: %d\n", r.Player.Balance)
}

func (o *Output) printTransferResult(r TransferResult) {
	fmt.Printf("Transferred from %s to %s\n", r.Sender.Name, r.Recipient.Name)
	fmt.Printf("%s: %d\n", r.Sender.Name, r.Sender.Balance)
	fmt.Printf("%s: %d\n", r.Recipient.Name, r.Recipient.Balance)
}

func (o *Output) printBankSession(s BankSession) {
	fmt.Printf("Token: %s\n", s.SessionToken)
	fmt.Printf("Expires: %s\n", s.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printSettings(s Settings) {
	fmt.Printf("Starting balance: %d\n", s.InitialBalance)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

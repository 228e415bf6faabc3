package model

// Settings holds the table-wide bank configuration
type Settings struct {
	// InitialBalance is granted at registration and on a full game reset
	InitialBalance int64 `json:"initialBalance"`

	// BankPasswordHash is the bcrypt hash of the shared bank password.
	// The gate is friction, not a security boundary, but the secret is
	// still never persisted in the clear.
	BankPasswordHash string `json:"bankPasswordHash"`
}

// DefaultInitialBalance is the starting grant when no settings are stored
const DefaultInitialBalance int64 = 3000

// DefaultBankPassword is the out-of-the-box bank password
const DefaultBankPassword = "1234"

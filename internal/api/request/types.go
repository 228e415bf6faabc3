package request

// RegisterPlayerRequest is the request body for registering a player
type RegisterPlayerRequest struct {
	Name string `json:"name"`
}

// ApplyTransactionRequest is the request body for a single-party transaction
type ApplyTransactionRequest struct {
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// TransferRequest is the request body for a transfer between players
type TransferRequest struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Amount      int64  `json:"amount"`
}

// BankLoginRequest is the request body for opening a bank session
type BankLoginRequest struct {
	Password string `json:"password"`
}

// ImportRequest is the request body for importing a player list blob
type ImportRequest struct {
	Data string `json:"data"`
}

// UpdateSettingsRequest is the request body for updating bank settings
type UpdateSettingsRequest struct {
	InitialBalance int64 `json:"initial_balance"`
}

// ChangePasswordRequest is the request body for changing the bank password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/services/bank"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeSelfTransfer       = "SELF_TRANSFER"
	CodeUnknownType        = "UNKNOWN_TRANSACTION_TYPE"
	CodeDuplicatePlayer    = "DUPLICATE_PLAYER"
	CodeEmptyName          = "EMPTY_NAME"
	CodeMalformedImport    = "MALFORMED_IMPORT_DATA"
	CodeMalformedPayload   = "MALFORMED_PAYLOAD"
	CodeUnknownTag         = "UNKNOWN_TAG"
	CodeNoActiveScan       = "NO_ACTIVE_SCAN"
	CodeTransportRead      = "TRANSPORT_READ_ERROR"
	CodeTransportWrite     = "TRANSPORT_WRITE_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be positive"}}
	case errors.Is(err, model.ErrInsufficientFunds):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientFunds, "Insufficient funds"}}
	case errors.Is(err, model.ErrSelfTransfer):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfTransfer, "Cannot transfer to the same player"}}
	case errors.Is(err, model.ErrUnknownTransactionType):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownType, "Unknown transaction type"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player id already registered"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Player name is required"}}
	case errors.Is(err, model.ErrMalformedImportData):
		return &httpError{http.StatusBadRequest, APIError{CodeMalformedImport, "Import data is not a player array"}}
	case errors.Is(err, model.ErrMalformedPayload):
		return &httpError{http.StatusBadRequest, APIError{CodeMalformedPayload, "Malformed tag payload"}}
	case errors.Is(err, model.ErrUnknownTag):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownTag, "Tag does not match a registered player"}}
	case errors.Is(err, model.ErrNoActiveScan):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveScan, "No scan in progress"}}
	case errors.Is(err, model.ErrTransportRead):
		return &httpError{http.StatusBadGateway, APIError{CodeTransportRead, "Tag read failed"}}
	case errors.Is(err, model.ErrTransportWrite):
		return &httpError{http.StatusBadGateway, APIError{CodeTransportWrite, "Tag write failed"}}

	case errors.Is(err, bank.ErrWrongPassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Wrong bank password"}}
	case errors.Is(err, bank.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired bank session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Bank authentication required"}}
}

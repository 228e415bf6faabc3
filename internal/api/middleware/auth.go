package middleware

import (
	"net/http"
	"strings"

	"github.com/dmota/tagbank/internal/api/apierr"
	"github.com/dmota/tagbank/internal/services/bank"
)

// BankAuth returns middleware that requires a valid bank session token
// as an Authorization: Bearer header
func BankAuth(bankService *bank.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if err := bankService.Verify(token); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package middleware

import (
	"context"
	"net/http"

	"github.com/dmota/tagbank/internal/services/bank"
)

type contextKey string

const (
	bankSessionCookie            = "bank_session"
	bankAuthedKey     contextKey = "bank_authed"
)

// IsBankAuthed reports whether the current request carries a valid bank session
func IsBankAuthed(ctx context.Context) bool {
	authed, _ := ctx.Value(bankAuthedKey).(bool)
	return authed
}

// SetBankSessionCookie stores the bank session token on the client
func SetBankSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     bankSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearBankSessionCookie removes the bank session cookie
func ClearBankSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     bankSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// BankSessionToken returns the session token from the request, or ""
func BankSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(bankSessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// BankAuth returns middleware that requires a valid bank session.
// Unauthenticated requests are redirected to the bank login page.
func BankAuth(bankService *bank.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BankSessionToken(r)
			if token == "" || bankService.Verify(token) != nil {
				http.Redirect(w, r, "/bank", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), bankAuthedKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalBankAuth marks the request context when a valid bank session is
// present but lets every request through.
func OptionalBankAuth(bankService *bank.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed := false
			if token := BankSessionToken(r); token != "" {
				authed = bankService.Verify(token) == nil
			}
			ctx := context.WithValue(r.Context(), bankAuthedKey, authed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

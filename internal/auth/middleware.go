// Package auth provides the bearer-token middleware and request identity
// helpers. Tokens are issued by the identity service and carry the caller's
// wallet address.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/healthquest/healthquest/internal/identity"
	"github.com/healthquest/healthquest/internal/logger"
)

type contextKey string

const walletContextKey contextKey = "auth_wallet"

const bearerPrefix = "Bearer "

// Error messages written by the middleware
const (
	ErrMsgMissingToken = "Missing or invalid token"
	ErrMsgNotOwner     = "You cannot act on another user's resources"
)

// WalletFromContext returns the authenticated wallet address, if any
func WalletFromContext(ctx context.Context) (string, bool) {
	wallet, ok := ctx.Value(walletContextKey).(string)
	return wallet, ok && wallet != ""
}

// WithWallet returns a context carrying an authenticated wallet. Exported
// for handler tests.
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletContextKey, wallet)
}

// Middleware verifies the Authorization bearer token and stores the token's
// wallet address on the request context.
func Middleware(identityService identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				log.Warn("Missing bearer token", "path", r.URL.Path)
				writeUnauthorized(w)
				return
			}

			wallet, err := identityService.VerifyToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				log.Warn("Token verification failed", "error", err, "path", r.URL.Path)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWallet(r.Context(), wallet)))
		})
	}
}

// RequireOwner rejects requests whose {wallet} route parameter does not
// match the authenticated wallet. Must run inside Middleware.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := WalletFromContext(r.Context())
		if !ok {
			writeUnauthorized(w)
			return
		}

		target := chi.URLParam(r, "wallet")
		if target != "" && !strings.EqualFold(target, wallet) {
			logger.FromContext(r.Context()).Warn("Cross-wallet access denied",
				"token_wallet", wallet, "target_wallet", target)
			writeForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + ErrMsgMissingToken + `","reason":"invalid_token"}`))
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"` + ErrMsgNotOwner + `","reason":"not_owner"}`))
}

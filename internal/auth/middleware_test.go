package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/identity"
)

const testWallet = "0xabc123abc123abc123abc123abc123abc123abc1"

type fakeIdentity struct {
	identity.Service
	wallets map[string]string
}

func (f *fakeIdentity) VerifyToken(token string) (string, error) {
	wallet, ok := f.wallets[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return wallet, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wallet, _ := WalletFromContext(r.Context())
		_, _ = w.Write([]byte(wallet))
	})
}

func TestMiddleware(t *testing.T) {
	svc := &fakeIdentity{wallets: map[string]string{"good-token": testWallet}}
	protected := Middleware(svc)(okHandler())

	t.Run("valid token passes wallet through context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testWallet, rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	router := chi.NewRouter()
	router.With(RequireOwner).Get("/users/{wallet}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(ctx context.Context, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("own wallet allowed", func(t *testing.T) {
		rec := serve(WithWallet(context.Background(), testWallet), "/users/"+testWallet)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		rec := serve(WithWallet(context.Background(), testWallet), "/users/0xABC123ABC123ABC123ABC123ABC123ABC123ABC1")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other wallet forbidden", func(t *testing.T) {
		rec := serve(WithWallet(context.Background(), testWallet), "/users/0xdef456def456def456def456def456def456def4")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_owner")
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		rec := serve(context.Background(), "/users/"+testWallet)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

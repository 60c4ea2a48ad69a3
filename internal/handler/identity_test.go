package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/identity"
)

// MockIdentityService mocks the identity.Service interface
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Authenticate(ctx context.Context, wallet string) (*identity.AuthResult, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *MockIdentityService) GetUser(ctx context.Context, wallet string) (*domain.User, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockIdentityService) UpdateProfile(ctx context.Context, wallet, username string, profile map[string]string) (*domain.User, error) {
	args := m.Called(ctx, wallet, username, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockIdentityService) VerifyToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func TestHandleIssueToken(t *testing.T) {
	InitValidator()

	user := &domain.User{WalletAddress: testWallet, Username: "Adventurer-abc123", Gold: 500}

	t.Run("existing user gets 200", func(t *testing.T) {
		svc := &MockIdentityService{}
		svc.On("Authenticate", mock.Anything, testWallet).Return(&identity.AuthResult{
			User:      user,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		body, _ := json.Marshal(AuthTokenRequest{WalletAddress: testWallet})
		req := httptest.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		HandleIssueToken(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"tok"`)
		svc.AssertExpectations(t)
	})

	t.Run("first sight creates user and gets 201", func(t *testing.T) {
		svc := &MockIdentityService{}
		svc.On("Authenticate", mock.Anything, testWallet).Return(&identity.AuthResult{
			User:      user,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Created:   true,
		}, nil)

		body, _ := json.Marshal(AuthTokenRequest{WalletAddress: testWallet})
		req := httptest.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		HandleIssueToken(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("malformed wallet fails validation", func(t *testing.T) {
		svc := &MockIdentityService{}

		body, _ := json.Marshal(AuthTokenRequest{WalletAddress: "not-a-wallet"})
		req := httptest.NewRequest("POST", "/auth/token", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		HandleIssueToken(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "hex address")
		svc.AssertNotCalled(t, "Authenticate")
	})
}

func TestHandleGetUser(t *testing.T) {
	t.Run("returns user", func(t *testing.T) {
		svc := &MockIdentityService{}
		svc.On("GetUser", mock.Anything, testWallet).
			Return(&domain.User{WalletAddress: testWallet, Username: "alice"}, nil)

		w := serveWithWallet("GET", "/users/"+testWallet, nil, func(r chi.Router) {
			r.Get("/users/{wallet}", HandleGetUser(svc))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		svc := &MockIdentityService{}
		svc.On("GetUser", mock.Anything, testWallet).Return(nil, domain.ErrUserNotFound)

		w := serveWithWallet("GET", "/users/"+testWallet, nil, func(r chi.Router) {
			r.Get("/users/{wallet}", HandleGetUser(svc))
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleUpdateProfile(t *testing.T) {
	InitValidator()

	t.Run("updates profile", func(t *testing.T) {
		svc := &MockIdentityService{}
		svc.On("UpdateProfile", mock.Anything, testWallet, "newname", map[string]string(nil)).
			Return(&domain.User{WalletAddress: testWallet, Username: "newname"}, nil)

		w := serveWithWallet("PUT", "/users/"+testWallet, UpdateProfileRequest{Username: "newname"}, func(r chi.Router) {
			r.Put("/users/{wallet}", HandleUpdateProfile(svc))
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"newname"`)
	})

	t.Run("short username fails validation", func(t *testing.T) {
		svc := &MockIdentityService{}

		w := serveWithWallet("PUT", "/users/"+testWallet, UpdateProfileRequest{Username: "ab"}, func(r chi.Router) {
			r.Put("/users/{wallet}", HandleUpdateProfile(svc))
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateProfile")
	})
}

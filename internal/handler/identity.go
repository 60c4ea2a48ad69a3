package handler

import (
	"net/http"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/identity"
	"github.com/healthquest/healthquest/internal/logger"
)

// AuthTokenRequest asks for a bearer token for a wallet address
type AuthTokenRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,wallet"`
}

// AuthTokenResponse carries the issued token and the resolved user
type AuthTokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// UpdateProfileRequest updates username and free-form profile entries
type UpdateProfileRequest struct {
	Username string            `json:"username" validate:"required,min=3,max=32"`
	Profile  map[string]string `json:"profile,omitempty" validate:"omitempty,max=20"`
}

// HandleIssueToken authenticates a wallet, creating the user on first sight
// @Summary Issue a bearer token for a wallet address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AuthTokenRequest true "Wallet address"
// @Success 200 {object} AuthTokenResponse
// @Success 201 {object} AuthTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/auth/token [post]
func HandleIssueToken(identityService identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthTokenRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Issue token"); err != nil {
			return
		}

		result, err := identityService.Authenticate(r.Context(), req.WalletAddress)
		if err != nil {
			respondServiceError(w, r, "Issue token", err)
			return
		}

		logger.FromContext(r.Context()).Info("Token issued",
			"wallet", result.User.WalletAddress, "new_user", result.Created)

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		respondJSON(w, status, AuthTokenResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			User:      result.User,
		})
	}
}

// HandleGetUser returns a user's public profile
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{wallet} [get]
func HandleGetUser(identityService identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		user, err := identityService.GetUser(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "Get user", err)
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}

// HandleUpdateProfile updates the caller's username and profile fields
// @Summary Update a user profile
// @Tags users
// @Accept json
// @Produce json
// @Param wallet path string true "Wallet address"
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/users/{wallet} [put]
func HandleUpdateProfile(identityService identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		var req UpdateProfileRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update profile"); err != nil {
			return
		}

		user, err := identityService.UpdateProfile(r.Context(), wallet, req.Username, req.Profile)
		if err != nil {
			respondServiceError(w, r, "Update profile", err)
			return
		}

		logger.FromContext(r.Context()).Info("Profile updated", "wallet", wallet)
		respondJSON(w, http.StatusOK, user)
	}
}

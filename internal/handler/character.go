package handler

import (
	"net/http"

	"github.com/healthquest/healthquest/internal/character"
	"github.com/healthquest/healthquest/internal/logger"
)

// MintCharacterRequest creates the wallet's character record
type MintCharacterRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=32"`
	Class string `json:"class,omitempty" validate:"omitempty,min=3,max=32"`
}

// AllocateStatsRequest spends unspent stat points
type AllocateStatsRequest struct {
	Allocation map[string]int `json:"allocation" validate:"required,min=1"`
}

// HandleGetCharacter returns a character's stats with effective energy
// @Summary Get character stats
// @Tags characters
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} domain.CharacterStats
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/characters/{wallet} [get]
func HandleGetCharacter(characterService character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		stats, err := characterService.GetStats(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "Get character", err)
			return
		}

		respondJSON(w, http.StatusOK, stats)
	}
}

// HandleMintCharacter creates the one character a wallet may own
// @Summary Mint a character
// @Tags characters
// @Accept json
// @Produce json
// @Param wallet path string true "Wallet address"
// @Param request body MintCharacterRequest true "Character name and class"
// @Success 201 {object} domain.CharacterStats
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/characters/{wallet} [post]
func HandleMintCharacter(characterService character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		var req MintCharacterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Mint character"); err != nil {
			return
		}

		stats, err := characterService.Mint(r.Context(), wallet, req.Name, req.Class)
		if err != nil {
			respondServiceError(w, r, "Mint character", err)
			return
		}

		logger.FromContext(r.Context()).Info("Character minted", "wallet", wallet, "name", stats.Name)
		respondJSON(w, http.StatusCreated, stats)
	}
}

// HandleAllocateStats spends unspent stat points on named stats
// @Summary Allocate stat points
// @Tags characters
// @Accept json
// @Produce json
// @Param wallet path string true "Wallet address"
// @Param request body AllocateStatsRequest true "Points per stat"
// @Success 200 {object} domain.CharacterStats
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/characters/{wallet}/allocate [post]
func HandleAllocateStats(characterService character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		var req AllocateStatsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Allocate stats"); err != nil {
			return
		}

		stats, err := characterService.AllocateStatPoints(r.Context(), wallet, req.Allocation)
		if err != nil {
			respondServiceError(w, r, "Allocate stats", err)
			return
		}

		respondJSON(w, http.StatusOK, stats)
	}
}

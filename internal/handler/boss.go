package handler

import (
	"net/http"
	"strconv"

	"github.com/healthquest/healthquest/internal/auth"
	"github.com/healthquest/healthquest/internal/boss"
)

// HandleGetActiveBoss returns the current attackable boss
// @Summary Get the active boss
// @Tags boss
// @Produce json
// @Success 200 {object} domain.Boss
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/boss/active [get]
func HandleGetActiveBoss(bossService boss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := bossService.ActiveBoss(r.Context())
		if err != nil {
			respondServiceError(w, r, "Get active boss", err)
			return
		}

		respondJSON(w, http.StatusOK, active)
	}
}

// HandleBossDamageRecords returns a boss's attack ledger, newest first
// @Summary Boss damage records
// @Tags boss
// @Produce json
// @Param id path string true "Boss ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} DataResponse
// @Router /api/v1/boss/{id}/records [get]
func HandleBossDamageRecords(bossService boss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bossID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
		records, err := bossService.DamageRecords(r.Context(), bossID, limit)
		if err != nil {
			respondServiceError(w, r, "Boss damage records", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: records})
	}
}

// HandleAttackBoss resolves one attack by the caller
// @Summary Attack the boss
// @Tags boss
// @Produce json
// @Param id path string true "Boss ID"
// @Success 200 {object} boss.AttackResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/boss/{id}/attack [post]
func HandleAttackBoss(bossService boss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}
		bossID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		result, err := bossService.Attack(r.Context(), wallet, bossID)
		if err != nil {
			respondServiceError(w, r, "Attack boss", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

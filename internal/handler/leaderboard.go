package handler

import (
	"net/http"
	"strconv"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/leaderboard"
)

// LeaderboardResponse wraps a ranking with its ordering
type LeaderboardResponse struct {
	By      string                    `json:"by"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// HandleGetLeaderboard returns the requested ranking
// @Summary Leaderboard
// @Tags leaderboard
// @Produce json
// @Param by query string false "Ordering: level or damage" default(level)
// @Param limit query int false "Max entries"
// @Success 200 {object} LeaderboardResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/leaderboard [get]
func HandleGetLeaderboard(leaderboardService leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		by := GetOptionalQueryParam(r, "by", domain.LeaderboardByLevel)
		limit, _ := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))

		entries, err := leaderboardService.Top(r.Context(), by, limit)
		if err != nil {
			respondServiceError(w, r, "Get leaderboard", err)
			return
		}

		respondJSON(w, http.StatusOK, LeaderboardResponse{By: by, Entries: entries})
	}
}

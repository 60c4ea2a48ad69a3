package handler

import (
	"net/http"
	"strconv"

	"github.com/healthquest/healthquest/internal/auth"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/quest"
)

// GeneratePersonalQuestRequest asks for a new AI-generated personal quest
type GeneratePersonalQuestRequest struct {
	Category string `json:"category,omitempty" validate:"omitempty,oneof=cardio strength flexibility endurance balance"`
}

// QuestListResponse wraps the visible quests for a wallet
type QuestListResponse struct {
	Quests interface{} `json:"quests"`
}

// HandleListQuests returns active server quests plus the wallet's personal quests
// @Summary List visible quests
// @Tags quests
// @Produce json
// @Param wallet query string true "Wallet address"
// @Success 200 {object} QuestListResponse
// @Router /api/v1/quests [get]
func HandleListQuests(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetQueryParam(r, w, "wallet")
		if !ok {
			return
		}

		quests, err := questService.List(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "List quests", err)
			return
		}

		respondJSON(w, http.StatusOK, QuestListResponse{Quests: quests})
	}
}

// HandleQuestHistory returns the wallet's completion ledger
// @Summary Quest completion history
// @Tags quests
// @Produce json
// @Param wallet query string true "Wallet address"
// @Param limit query int false "Max entries"
// @Success 200 {object} DataResponse
// @Router /api/v1/quests/history [get]
func HandleQuestHistory(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetQueryParam(r, w, "wallet")
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(GetOptionalQueryParam(r, "limit", "0"))
		history, err := questService.History(r.Context(), wallet, limit)
		if err != nil {
			respondServiceError(w, r, "Quest history", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: history})
	}
}

// HandleGeneratePersonalQuest generates a personal quest for the caller
// @Summary Generate a personal quest
// @Tags quests
// @Accept json
// @Produce json
// @Param request body GeneratePersonalQuestRequest false "Optional category preference"
// @Success 201 {object} domain.Quest
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/quests/personal [post]
func HandleGeneratePersonalQuest(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}

		// Body is optional; an empty body means no category preference.
		var req GeneratePersonalQuestRequest
		if r.ContentLength > 0 {
			if err := DecodeAndValidateRequest(r, w, &req, "Generate quest"); err != nil {
				return
			}
		}

		generated, err := questService.GeneratePersonal(r.Context(), wallet, req.Category)
		if err != nil {
			respondServiceError(w, r, "Generate quest", err)
			return
		}

		logger.FromContext(r.Context()).Info("Quest generated",
			"wallet", wallet, "quest_id", generated.ID)
		respondJSON(w, http.StatusCreated, generated)
	}
}

// HandleStartQuest starts a personal quest for the caller
// @Summary Start a personal quest
// @Tags quests
// @Produce json
// @Param id path string true "Quest ID"
// @Success 200 {object} domain.Quest
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/quests/{id}/start [put]
func HandleStartQuest(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}
		questID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		started, err := questService.Start(r.Context(), wallet, questID)
		if err != nil {
			respondServiceError(w, r, "Start quest", err)
			return
		}

		respondJSON(w, http.StatusOK, started)
	}
}

// HandleCompleteActiveQuest settles the caller's active personal quest
// @Summary Complete an active personal quest
// @Tags quests
// @Produce json
// @Param id path string true "Quest ID"
// @Success 200 {object} quest.CompletionResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/quests/{id}/complete-active [put]
func HandleCompleteActiveQuest(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}
		questID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		result, err := questService.CompleteActive(r.Context(), wallet, questID)
		if err != nil {
			respondServiceError(w, r, "Complete quest", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCompleteServerQuest settles a shared server quest for the caller
// @Summary Complete a server quest
// @Tags quests
// @Produce json
// @Param id path string true "Quest ID"
// @Success 200 {object} quest.CompletionResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/quests/{id}/complete [post]
func HandleCompleteServerQuest(questService quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}
		questID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		result, err := questService.CompleteServer(r.Context(), wallet, questID)
		if err != nil {
			respondServiceError(w, r, "Complete server quest", err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

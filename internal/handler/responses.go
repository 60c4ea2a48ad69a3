package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Reason is a stable
// machine-readable code clients can branch on; Details carries resource
// state where the failure is precondition-related.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Reason  string                 `json:"reason,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer so a marshal failure never produces a
	// half-written body.
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgUserNotFoundError      = "User not found"
	ErrMsgCharacterNotFoundError = "Character not found. Mint one first."
	ErrMsgCharacterExistsError   = "You already have a character"

	ErrMsgNotEnoughEnergyError = "Not enough energy. Energy refills daily."
	ErrMsgNotEnoughGoldError   = "Not enough gold"
	ErrMsgNotEnoughPointsError = "Not enough stat points"
	ErrMsgInvalidStatError     = "Unknown stat name"

	ErrMsgItemNotFoundError = "Item not found"
	ErrMsgItemEquippedError = "Unequip the item first"

	ErrMsgQuestNotFoundError      = "Quest not found"
	ErrMsgQuestLimitError         = "Too many open quests. Complete or wait for one to expire."
	ErrMsgQuestAlreadyActiveError = "Another quest is already in progress"
	ErrMsgQuestActiveError        = "That quest is already in progress"
	ErrMsgQuestCompletedError     = "Quest already completed"
	ErrMsgQuestExpiredError       = "Quest has expired"
	ErrMsgQuestTooEarlyError      = "Too early to complete this quest"

	ErrMsgBossNotFoundError = "No boss available to fight"
	ErrMsgLevelTooLowError  = "Your level is too low for this boss"

	ErrMsgGenerationDownError = "Quest generation is temporarily unavailable. Please try again."

	ErrMsgUnauthorizedError = "Missing or invalid token"
	ErrMsgForbiddenError    = "You cannot act on another user's resources"
)

// mapServiceErrorToUserMessage maps domain errors to an HTTP status, a
// user-facing message, and a stable machine-readable reason code.
func mapServiceErrorToUserMessage(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError, "unknown"
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError, "user_not_found"
	case errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, ErrMsgCharacterNotFoundError, "character_not_found"
	case errors.Is(err, domain.ErrCharacterExists):
		return http.StatusConflict, ErrMsgCharacterExistsError, "character_exists"
	case errors.Is(err, domain.ErrInsufficientEnergy):
		return http.StatusBadRequest, ErrMsgNotEnoughEnergyError, "insufficient_energy"
	case errors.Is(err, domain.ErrInsufficientGold):
		return http.StatusBadRequest, ErrMsgNotEnoughGoldError, "insufficient_gold"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusBadRequest, ErrMsgNotEnoughPointsError, "insufficient_stat_points"
	case errors.Is(err, domain.ErrInvalidStat):
		return http.StatusBadRequest, ErrMsgInvalidStatError, "invalid_stat"
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError, "item_not_found"
	case errors.Is(err, domain.ErrItemEquipped):
		return http.StatusConflict, ErrMsgItemEquippedError, "item_equipped"
	case errors.Is(err, domain.ErrQuestNotFound):
		return http.StatusNotFound, ErrMsgQuestNotFoundError, "quest_not_found"
	case errors.Is(err, domain.ErrQuestLimitReached):
		return http.StatusBadRequest, ErrMsgQuestLimitError, "quest_limit_reached"
	case errors.Is(err, domain.ErrQuestActive):
		return http.StatusBadRequest, ErrMsgQuestActiveError, "quest_active"
	case errors.Is(err, domain.ErrQuestAlreadyActive):
		return http.StatusBadRequest, ErrMsgQuestAlreadyActiveError, "quest_already_active"
	case errors.Is(err, domain.ErrQuestCompleted):
		return http.StatusConflict, ErrMsgQuestCompletedError, "quest_completed"
	case errors.Is(err, domain.ErrQuestExpired):
		return http.StatusBadRequest, ErrMsgQuestExpiredError, "quest_expired"
	case errors.Is(err, domain.ErrQuestTooEarly):
		return http.StatusBadRequest, ErrMsgQuestTooEarlyError, "quest_too_early"
	case errors.Is(err, domain.ErrBossNotFound):
		return http.StatusNotFound, ErrMsgBossNotFoundError, "boss_not_found"
	case errors.Is(err, domain.ErrLevelTooLow):
		return http.StatusBadRequest, ErrMsgLevelTooLowError, "level_too_low"
	case errors.Is(err, domain.ErrGenerationUnavailable):
		return http.StatusBadGateway, ErrMsgGenerationDownError, "generation_unavailable"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, ErrMsgUnauthorizedError, "invalid_token"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError, "invalid_input"
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError, "internal"
}

// respondServiceError logs a failed service call and writes the mapped
// error response. TooEarly failures carry the remaining wait in the body.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())

	status, message, reason := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}

	resp := ErrorResponse{Error: message, Reason: reason}
	var tooEarly *domain.TooEarlyError
	if errors.As(err, &tooEarly) {
		resp.Details = map[string]interface{}{"remaining_seconds": tooEarly.RemainingSeconds}
	}
	respondJSON(w, status, resp)
}

package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound      = "user not found"
	ErrMsgCharacterNotFound = "character not found"
	ErrMsgCharacterExists   = "character already exists"

	// Resource errors
	ErrMsgInsufficientEnergy = "insufficient energy"
	ErrMsgInsufficientGold   = "insufficient gold"
	ErrMsgInsufficientPoints = "insufficient stat points"
	ErrMsgInvalidStat        = "invalid stat name"

	// Item errors
	ErrMsgItemNotFound = "item not found"
	ErrMsgItemEquipped = "item is equipped"

	// Quest errors
	ErrMsgQuestNotFound      = "quest not found"
	ErrMsgQuestLimitReached  = "quest limit reached"
	ErrMsgQuestAlreadyActive = "another quest is already active"
	ErrMsgQuestActive        = "quest is already active"
	ErrMsgQuestCompleted     = "quest already completed"
	ErrMsgQuestExpired       = "quest has expired"
	ErrMsgQuestTooEarly      = "quest completed too early"

	// Boss errors
	ErrMsgBossNotFound = "boss not found"
	ErrMsgLevelTooLow  = "character level too low"

	// Collaborator errors
	ErrMsgGenerationUnavailable = "content generation unavailable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Auth errors
	ErrMsgInvalidToken = "invalid token"

	// Infrastructure errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound      = errors.New(ErrMsgUserNotFound)
	ErrCharacterNotFound = errors.New(ErrMsgCharacterNotFound)
	ErrCharacterExists   = errors.New(ErrMsgCharacterExists)

	// Resource errors
	ErrInsufficientEnergy = errors.New(ErrMsgInsufficientEnergy)
	ErrInsufficientGold   = errors.New(ErrMsgInsufficientGold)
	ErrInsufficientPoints = errors.New(ErrMsgInsufficientPoints)
	ErrInvalidStat        = errors.New(ErrMsgInvalidStat)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)
	ErrItemEquipped = errors.New(ErrMsgItemEquipped)

	// Quest errors
	ErrQuestNotFound      = errors.New(ErrMsgQuestNotFound)
	ErrQuestLimitReached  = errors.New(ErrMsgQuestLimitReached)
	ErrQuestAlreadyActive = errors.New(ErrMsgQuestAlreadyActive)
	ErrQuestActive        = errors.New(ErrMsgQuestActive)
	ErrQuestCompleted     = errors.New(ErrMsgQuestCompleted)
	ErrQuestExpired       = errors.New(ErrMsgQuestExpired)
	ErrQuestTooEarly      = errors.New(ErrMsgQuestTooEarly)

	// Boss errors
	ErrBossNotFound = errors.New(ErrMsgBossNotFound)
	ErrLevelTooLow  = errors.New(ErrMsgLevelTooLow)

	// Collaborator errors
	ErrGenerationUnavailable = errors.New(ErrMsgGenerationUnavailable)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Auth errors
	ErrInvalidToken = errors.New(ErrMsgInvalidToken)
)

// TooEarlyError reports how long a user must wait before an active quest
// becomes completable. It unwraps to ErrQuestTooEarly.
type TooEarlyError struct {
	RemainingSeconds int
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("%s: %d seconds remaining", ErrMsgQuestTooEarly, e.RemainingSeconds)
}

func (e *TooEarlyError) Unwrap() error {
	return ErrQuestTooEarly
}

package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Type-safe event constructors

// NewQuestCompletedEvent creates a quest completed event
func NewQuestCompletedEvent(wallet, questID string, scope domain.QuestScope, category string, xp, gold int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeQuestCompleted),
		Payload: domain.QuestCompletedPayload{
			WalletAddress: wallet,
			QuestID:       questID,
			Scope:         string(scope),
			Category:      category,
			XPAwarded:     xp,
			GoldAwarded:   gold,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewBossAttackedEvent creates a boss attacked event
func NewBossAttackedEvent(wallet, bossID string, damage int, critical, defeated bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeBossAttacked),
		Payload: domain.BossAttackedPayload{
			WalletAddress: wallet,
			BossID:        bossID,
			Damage:        damage,
			Critical:      critical,
			Defeated:      defeated,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewLevelUpEvent creates a character leveled up event
func NewLevelUpEvent(wallet string, oldLevel, newLevel int, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventTypeCharacterLeveledUp),
		Payload: domain.LevelUpPayload{
			WalletAddress: wallet,
			OldLevel:      oldLevel,
			NewLevel:      newLevel,
			Source:        source,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewItemTradeEvent creates an item bought or sold event
func NewItemTradeEvent(eventType domain.EventType, wallet, itemKey string, gold int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(eventType),
		Payload: domain.ItemTradePayload{
			WalletAddress: wallet,
			ItemKey:       itemKey,
			Gold:          gold,
			Timestamp:     time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously; slow consumers belong behind the
	// ResilientPublisher or their own goroutine.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

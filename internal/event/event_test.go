package event

import (
	"context"
	"errors"
	"testing"

	"github.com/healthquest/healthquest/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestDecodePayload_TypedPassthrough(t *testing.T) {
	payload := domain.QuestCompletedPayload{WalletAddress: "0xabc", QuestID: "q1", XPAwarded: 50}

	decoded, err := DecodePayload[domain.QuestCompletedPayload](payload)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.WalletAddress != "0xabc" || decoded.XPAwarded != 50 {
		t.Errorf("Unexpected decoded payload: %+v", decoded)
	}
}

func TestDecodePayload_MapFallback(t *testing.T) {
	input := map[string]interface{}{
		"wallet_address": "0xabc",
		"quest_id":       "q1",
		"xp_awarded":     float64(50),
	}

	decoded, err := DecodePayload[domain.QuestCompletedPayload](input)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.WalletAddress != "0xabc" || decoded.XPAwarded != 50 {
		t.Errorf("Unexpected decoded payload: %+v", decoded)
	}
}

func TestNewQuestCompletedEvent(t *testing.T) {
	evt := NewQuestCompletedEvent("0xabc", "q1", domain.QuestScopePersonal, domain.QuestCategoryCardio, 50, 25)

	if evt.Type != Type(domain.EventTypeQuestCompleted) {
		t.Errorf("Unexpected event type %s", evt.Type)
	}
	payload, ok := evt.Payload.(domain.QuestCompletedPayload)
	if !ok {
		t.Fatalf("Expected typed payload, got %T", evt.Payload)
	}
	if payload.GoldAwarded != 25 || payload.Scope != "personal" {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

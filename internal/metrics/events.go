package metrics

import (
	"context"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types that feed business metrics
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []domain.EventType{
		domain.EventTypeQuestCompleted,
		domain.EventTypeCharacterLeveledUp,
		domain.EventTypeBossAttacked,
		domain.EventTypeBossDefeated,
		domain.EventTypeItemBought,
		domain.EventTypeItemSold,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(event.Type(eventType), e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch domain.EventType(evt.Type) {
	case domain.EventTypeQuestCompleted:
		payload, err := event.DecodePayload[domain.QuestCompletedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		QuestsCompleted.WithLabelValues(payload.Scope, payload.Category).Inc()
		GoldEarned.Add(float64(payload.GoldAwarded))

	case domain.EventTypeCharacterLeveledUp:
		LevelUps.Inc()

	case domain.EventTypeBossAttacked:
		payload, err := event.DecodePayload[domain.BossAttackedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		critical := "false"
		if payload.Critical {
			critical = "true"
		}
		BossAttacks.WithLabelValues(critical).Inc()
		if payload.Defeated {
			BossesDefeated.Inc()
		}

	case domain.EventTypeItemBought:
		payload, err := event.DecodePayload[domain.ItemTradePayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		ItemsBought.WithLabelValues(payload.ItemKey).Inc()
		GoldSpent.Add(float64(payload.Gold))

	case domain.EventTypeItemSold:
		payload, err := event.DecodePayload[domain.ItemTradePayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		ItemsSold.WithLabelValues(payload.ItemKey).Inc()
		GoldEarned.Add(float64(payload.Gold))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

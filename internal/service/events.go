package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const publishTimeout = 5 * time.Second

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type       string         `json:"type"`
	EntityID   uint           `json:"entity_id"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Events publishes domain events. Failures are logged and never fail the caller.
type Events struct {
	Pub   EventPublisher
	Topic string
}

func (e *Events) emit(ctx context.Context, typ string, id uint, data map[string]any) {
	if e == nil || e.Pub == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := Event{Type: typ, EntityID: id, Data: data, OccurredAt: time.Now().UTC()}
	if err := e.Pub.PublishEvent(pubCtx, e.Topic, strconv.FormatUint(uint64(id), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "type", typ, "entity_id", id, "error", err)
	}
}

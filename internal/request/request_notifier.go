package request

import (
	"context"
	"encoding/json"

	"github.com/PeterTHA/bo-resource-management/internal/events"
	"github.com/PeterTHA/bo-resource-management/internal/messaging/kafka"

	"github.com/google/uuid"
)

// Notifier is told about committed decisions. Its errors never undo a decision.
//
//go:generate mockgen -source=request_notifier.go -destination=mock/request_notifier_mock.go -package=mock
type Notifier interface {
	RequestDecided(ctx context.Context, evt events.RequestDecidedEvent) error
}

type NoopNotifier struct{}

func (NoopNotifier) RequestDecided(context.Context, events.RequestDecidedEvent) error {
	return nil
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
}

// NewOutboxNotifier stores decisions in the outbox for the relay worker.
func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox}
}

func (n *outboxNotifier) RequestDecided(ctx context.Context, evt events.RequestDecidedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		CorrelationID: evt.CorrelationID,
		AggregateType: "request",
		AggregateID:   evt.RequestID,
		EventType:     evt.EventType,
		Topic:         events.RequestDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

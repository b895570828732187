package leave

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
)

const aggregateType = "leave_request"

type EventPublisher interface {
	PublishLeaveRequestEvent(ctx context.Context, event events.LeaveRequestEvent) error
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher { return noopEventPublisher{} }

func (noopEventPublisher) PublishLeaveRequestEvent(context.Context, events.LeaveRequestEvent) error {
	return nil
}

type kafkaEventPublisher struct {
	writer kafka.MessageWriter
}

// NewKafkaEventPublisher writes each event straight to the topic.
func NewKafkaEventPublisher(writer kafka.MessageWriter) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) PublishLeaveRequestEvent(ctx context.Context, event events.LeaveRequestEvent) error {
	e, err := toOutboxEvent(ctx, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, e.Message())
}

type outboxEventPublisher struct {
	repo kafka.OutboxRepository
}

// NewOutboxEventPublisher queues events in the outbox table; cmd/worker
// delivers them.
func NewOutboxEventPublisher(repo kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{repo: repo}
}

func (p *outboxEventPublisher) PublishLeaveRequestEvent(ctx context.Context, event events.LeaveRequestEvent) error {
	e, err := toOutboxEvent(ctx, event)
	if err != nil {
		return err
	}
	return p.repo.Create(ctx, e)
}

func toOutboxEvent(ctx context.Context, event events.LeaveRequestEvent) (kafka.OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.OutboxEvent{}, err
	}
	return kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregateType,
		event.LeaveRequestID,
		event.EventType,
		events.LeaveRequestTopic,
		payload,
	), nil
}

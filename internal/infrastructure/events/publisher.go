// Package events publishes committed ticket mutations to Kafka or Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// RedisChannel is the pub/sub channel used when Kafka is disabled.
const RedisChannel = "tdesk:ticket:events"

// Publisher delivers ticket events. Delivery is best effort; callers log
// failures and never roll back because of them.
type Publisher interface {
	Publish(ctx context.Context, event ticket.Event) error
	Close() error
}

// Recorder counts publish outcomes.
type Recorder interface {
	EventPublished(eventType string)
	EventFailed(eventType string)
}

type eventProducer interface {
	ProduceEvent(ctx context.Context, event ticket.Event) error
	Close() error
}

// KafkaPublisher hands events to the producer, which keys them by ticket id
// so events of one ticket keep their order within a partition.
type KafkaPublisher struct {
	producer eventProducer
	recorder Recorder
	logger   logger.Interface
}

func NewKafkaPublisher(producer *Producer, recorder Recorder, log logger.Interface) *KafkaPublisher {
	return newKafkaPublisher(producer, recorder, log)
}

func newKafkaPublisher(producer eventProducer, recorder Recorder, log logger.Interface) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, recorder: recorder, logger: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ticket.Event) error {
	if err := p.producer.ProduceEvent(ctx, event); err != nil {
		p.recorder.EventFailed(event.EventType)
		p.logger.Errorw("failed to publish ticket event",
			"event_type", event.EventType,
			"ticket_id", event.TicketID,
			"error", err,
		)
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}

	p.recorder.EventPublished(event.EventType)
	p.logger.Debugw("ticket event published",
		"event_type", event.EventType,
		"ticket_id", event.TicketID,
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// RedisPublisher fans events out on a Redis channel for other instances.
type RedisPublisher struct {
	client   *redis.Client
	recorder Recorder
	logger   logger.Interface
}

func NewRedisPublisher(client *redis.Client, recorder Recorder, log logger.Interface) *RedisPublisher {
	return &RedisPublisher{client: client, recorder: recorder, logger: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, event ticket.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	if err := p.client.Publish(ctx, RedisChannel, data).Err(); err != nil {
		p.recorder.EventFailed(event.EventType)
		p.logger.Errorw("failed to publish ticket event",
			"event_type", event.EventType,
			"ticket_id", event.TicketID,
			"error", err,
		)
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}

	p.recorder.EventPublished(event.EventType)
	return nil
}

// Close leaves the client open; it is shared with the rate limiter.
func (p *RedisPublisher) Close() error {
	return nil
}

// Subscribe calls handler for every event received on RedisChannel until
// ctx is cancelled.
func (p *RedisPublisher) Subscribe(ctx context.Context, handler func(ticket.Event)) error {
	sub := p.client.Subscribe(ctx, RedisChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", RedisChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event ticket.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.logger.Warnw("failed to unmarshal ticket event", "payload", msg.Payload, "error", err)
				continue
			}
			handler(event)
		}
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ticket.Event) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

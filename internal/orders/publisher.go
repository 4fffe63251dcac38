package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/segmentio/kafka-go"
)

const EventsTopic = "order-events"

type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderPaid      EventType = "order.paid"
	EventOrderDelivered EventType = "order.delivered"
	EventOrderDeleted   EventType = "order.deleted"
)

type Event struct {
	Type       EventType    `json:"type"`
	OrderID    string       `json:"order_id"`
	UserID     string       `json:"user_id"`
	TotalPrice domain.Money `json:"total_price"`
	Currency   string       `json:"currency"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func NewEvent(t EventType, o *domain.Order, at time.Time) Event {
	return Event{
		Type:       t,
		OrderID:    o.ID,
		UserID:     o.User.ID,
		TotalPrice: o.TotalPrice,
		Currency:   o.Currency,
		OccurredAt: at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events keyed by order id so every event of an
// order lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  EventsTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for order %s: %w", e.Type, e.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

package events

import (
	"context"
	"fmt"

	"bandsite/pkg/kafka"
	"bandsite/pkg/logger"
	"bandsite/pkg/middleware"
	"bandsite/pkg/model"
)

const (
	EventBookingRequested = "booking.requested"
	SchemaVersion         = "1"
	Source                = "bandsite"
)

type Publisher interface {
	BookingRequested(ctx context.Context, event model.BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(cfg *kafka.Config, topic string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, topic, log)
	if err != nil {
		return nil, fmt.Errorf("create booking event producer: %w", err)
	}
	producer.Use(kafka.LoggingProducerMiddleware(log))
	return &kafkaPublisher{producer: producer}, nil
}

func (p *kafkaPublisher) BookingRequested(ctx context.Context, event model.BookingEvent) error {
	msg, err := NewBookingRequestedMessage(ctx, event)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewBookingRequestedMessage keys the message by booking id and carries the
// caller's request id as correlation id.
func NewBookingRequestedMessage(ctx context.Context, event model.BookingEvent) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(EventBookingRequested).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestID(ctx)).
		Build()
}

// ParseBookingRequested decodes a message built by NewBookingRequestedMessage.
func ParseBookingRequested(msg kafka.Message) (model.BookingEvent, error) {
	var event model.BookingEvent
	if msg.GetEventType() != EventBookingRequested {
		return event, kafka.NewPermanentError("unexpected event type "+msg.GetEventType(), nil)
	}
	if err := msg.DecodeValue(&event); err != nil {
		return event, err
	}
	if event.BookingID == "" {
		return event, kafka.NewPermanentError("booking event without booking_id", nil)
	}
	return event, nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingRequested(context.Context, model.BookingEvent) error { return nil }

func (noopPublisher) Close() error { return nil }

package events

import (
	"context"

	"bandsite/pkg/kafka"
	"bandsite/pkg/logger"
	"bandsite/pkg/model"
)

// Notify is called once per booking request read from the topic.
type Notify func(ctx context.Context, event model.BookingEvent) error

// LogNotify writes each booking request to the management log.
func LogNotify(log *logger.Logger) Notify {
	return func(_ context.Context, event model.BookingEvent) error {
		log.Info("New booking request",
			"booking_id", event.BookingID,
			"name", event.Name,
			"email", event.Email,
			"event_date", event.EventDate,
			"event_location", event.EventLocation,
			"created_at", event.CreatedAt,
		)
		return nil
	}
}

// NewBookingRequestedHandler adapts notify into a consumer handler. Payloads
// that cannot be parsed fail permanently and go to the dead-letter topic.
func NewBookingRequestedHandler(notify Notify) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		event, err := ParseBookingRequested(msg)
		if err != nil {
			return err
		}
		return notify(ctx, event)
	}
}
